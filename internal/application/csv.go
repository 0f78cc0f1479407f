package application

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// CSVHeaders 是导出文件的表头。
var CSVHeaders = []string{
	"Name", "Email", "Phone", "Age", "City", "Employment Status",
	"Gender", "SMM Experience", "Managed Pages", "Graphic Design",
	"FB Ads Exp", "Expected Salary", "Applied Date",
}

const appliedDateLayout = "Jan 2, 2006, 03:04 PM"

// WriteCSV writes the header and one line per record. Data cells are always quoted,
// zero numbers render as empty cells.
func WriteCSV(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(CSVHeaders, ",")); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.FullName,
			rec.Email,
			rec.Phone,
			formatNumber(float64(rec.Age)),
			rec.City,
			rec.Employed,
			rec.Gender,
			formatNumber(rec.SMMExperience),
			rec.ManagedPages,
			rec.GraphicDesigns,
			rec.FBAds,
			formatNumber(rec.ExpectedSalary),
			formatAppliedDate(rec.CreatedAt),
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
		for i, cell := range row {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return fmt.Errorf("write csv row: %w", err)
				}
			}
			if _, err := bw.WriteString(quoteCell(cell)); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ExportFilename 返回 applications_YYYY-MM-DD.csv（UTC 日期）。
func ExportFilename(now time.Time) string {
	return "applications_" + now.UTC().Format("2006-01-02") + ".csv"
}

func quoteCell(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatNumber(n float64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func formatAppliedDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(appliedDateLayout)
}
