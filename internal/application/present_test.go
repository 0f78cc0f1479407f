package application

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	return []Record{
		{ID: 1, FullName: "Omar Said", Email: "omar@example.com", City: "Alexandria", SMMExperience: 0, ExpectedSalary: 1500, CreatedAt: base.Add(-48 * time.Hour)},
		{ID: 2, FullName: "mona adel", Email: "mona@example.com", City: "Cairo", SMMExperience: 3, ExpectedSalary: 2500, CreatedAt: base},
		{ID: 3, FullName: "Laila Nour", Email: "laila@cairo.net", City: "Giza", SMMExperience: 1.5, ExpectedSalary: 2000, CreatedAt: base.Add(-time.Hour)},
	}
}

func ids(records []Record) []uint {
	out := make([]uint, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	records := sampleRecords()

	assert.Equal(t, []uint{1, 2, 3}, ids(Filter(records, "")))
	assert.Equal(t, []uint{2, 3}, ids(Filter(records, "CAIRO")))
	assert.Equal(t, []uint{1}, ids(Filter(records, "omar@")))
	assert.Empty(t, Filter(records, "nobody"))
}

func TestSort(t *testing.T) {
	records := sampleRecords()

	assert.Equal(t, []uint{2, 3, 1}, ids(Sort(records, SortByDate, Descending)))
	assert.Equal(t, []uint{1, 3, 2}, ids(Sort(records, SortByDate, Ascending)))
	assert.Equal(t, []uint{3, 2, 1}, ids(Sort(records, SortByName, Ascending)))
	assert.Equal(t, []uint{2, 3, 1}, ids(Sort(records, SortByExperience, Descending)))
	assert.Equal(t, []uint{1, 3, 2}, ids(Sort(records, SortBySalary, Ascending)))

	// input is untouched
	assert.Equal(t, []uint{1, 2, 3}, ids(records))
}

func TestSort_StableOnTies(t *testing.T) {
	records := []Record{
		{ID: 1, ExpectedSalary: 1000},
		{ID: 2, ExpectedSalary: 1000},
		{ID: 3, ExpectedSalary: 500},
	}
	assert.Equal(t, []uint{1, 2, 3}, ids(Sort(records, SortBySalary, Descending)))
	assert.Equal(t, []uint{3, 1, 2}, ids(Sort(records, SortBySalary, Ascending)))
}

func TestParseSortOptions(t *testing.T) {
	assert.Equal(t, SortByName, ParseSortKey("Name"))
	assert.Equal(t, SortBySalary, ParseSortKey("salary"))
	assert.Equal(t, SortByDate, ParseSortKey(""))
	assert.Equal(t, SortByDate, ParseSortKey("bogus"))
	assert.Equal(t, Ascending, ParseSortOrder("ASC"))
	assert.Equal(t, Descending, ParseSortOrder(""))
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	stats := ComputeStats(sampleRecords(), now)

	assert.Equal(t, Stats{
		Total:          3,
		Today:          2,
		WithExperience: 2,
		HighSalary:     2,
		AvgExperience:  1.5,
	}, stats)
	assert.Equal(t, Stats{}, ComputeStats(nil, now))
}

func TestWriteCSV(t *testing.T) {
	records := []Record{{
		FullName:       `Jane "JJ" Doe`,
		Email:          "jane@example.com",
		Phone:          "+1 555 123 4567",
		Age:            30,
		City:           "Cairo, EG",
		Employed:       "Yes",
		Gender:         "Female",
		SMMExperience:  0,
		ManagedPages:   "Yes",
		GraphicDesigns: "No",
		FBAds:          "Yes",
		ExpectedSalary: 2500,
		CreatedAt:      time.Date(2026, 10, 18, 15, 4, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	want := "Name,Email,Phone,Age,City,Employment Status,Gender,SMM Experience,Managed Pages,Graphic Design,FB Ads Exp,Expected Salary,Applied Date\n" +
		`"Jane ""JJ"" Doe","jane@example.com","+1 555 123 4567","30","Cairo, EG","Yes","Female","","Yes","No","Yes","2500","Oct 18, 2026, 03:04 PM"`
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_HeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Name,Email,Phone,Age,City,Employment Status,Gender,SMM Experience,Managed Pages,Graphic Design,FB Ads Exp,Expected Salary,Applied Date", buf.String())
}

func TestExportFilename(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	assert.Equal(t, "applications_2026-10-17.csv", ExportFilename(time.Date(2026, 10, 18, 1, 0, 0, 0, loc)))
}
