package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() map[string]any {
	return map[string]any{
		"fullName":            "Mona Adel",
		"email":               "mona@example.com",
		"phone":               "+20 100 123 4567",
		"age":                 "27",
		"city":                "Cairo",
		"employed":            "No",
		"gender":              "Female",
		"smm_experience":      float64(3),
		"previous_experience": "Ran pages for two local shops",
		"managed_pages":       "Yes",
		"page_links":          "https://facebook.com/shop",
		"graphic_designs":     "Yes",
		"fb_ads":              "No",
		"organic_engagement":  "Polls and reels",
		"negative_comments":   "Reply privately",
		"posting_frequency":   "Daily",
		"best_post_time":      "Evening",
		"meta_skill":          "Intermediate",
		"expected_salary":     "2500",
	}
}

func TestValidate_ValidSubmission(t *testing.T) {
	rec, errs := Validate(validSubmission())
	require.Empty(t, errs)

	assert.Equal(t, "Mona Adel", rec.FullName)
	assert.Equal(t, 27, rec.Age)
	assert.Equal(t, float64(3), rec.SMMExperience)
	assert.Equal(t, float64(2500), rec.ExpectedSalary)
	assert.Equal(t, "", rec.AdsExperience)
	assert.Equal(t, "", rec.Comments)
	assert.Zero(t, rec.ID)
	assert.True(t, rec.CreatedAt.IsZero())
}

func TestValidate_IgnoresClientIdentityAndTimestamp(t *testing.T) {
	raw := validSubmission()
	raw["id"] = float64(99)
	raw["createdAt"] = "2001-01-01T00:00:00Z"

	rec, errs := Validate(raw)
	require.Empty(t, errs)
	assert.Zero(t, rec.ID)
	assert.True(t, rec.CreatedAt.IsZero())
}

func TestValidate_MissingFieldsReportedExactly(t *testing.T) {
	raw := validSubmission()
	delete(raw, "email")
	raw["city"] = "   "
	raw["meta_skill"] = nil

	_, errs := Validate(raw)
	assert.Equal(t, FieldErrors{
		"email":      msgRequired,
		"city":       msgRequired,
		"meta_skill": msgRequired,
	}, errs)
}

func TestValidate_EmptySubmissionFlagsEveryRequiredField(t *testing.T) {
	_, errs := Validate(map[string]any{})
	require.Len(t, errs, len(RequiredFields))
	for _, field := range RequiredFields {
		assert.Equal(t, msgRequired, errs[field], field)
	}
}

func TestValidate_ZeroIsPresent(t *testing.T) {
	raw := validSubmission()
	raw["smm_experience"] = float64(0)
	raw["expected_salary"] = "0"

	rec, errs := Validate(raw)
	require.Empty(t, errs)
	assert.Zero(t, rec.SMMExperience)
	assert.Zero(t, rec.ExpectedSalary)
}

func TestValidate_Email(t *testing.T) {
	cases := []struct {
		email string
		ok    bool
	}{
		{"a@b.co", true},
		{"first.last@sub.example.org", true},
		{"no-at-sign.com", false},
		{"a@b", false},
		{"a b@c.com", false},
		{"a@@b.com", false},
	}
	for _, tc := range cases {
		raw := validSubmission()
		raw["email"] = tc.email
		_, errs := Validate(raw)
		if tc.ok {
			assert.NotContains(t, errs, "email", tc.email)
		} else {
			assert.Equal(t, msgInvalidEmail, errs["email"], tc.email)
		}
	}
}

func TestValidate_Phone(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"+1 (555) 123-4567", true},
		{"555 123 4567", true},
		{"0123456789", true},
		{"12345", false},
		{"555-CALL-NOW", false},
	}
	for _, tc := range cases {
		raw := validSubmission()
		raw["phone"] = tc.phone
		_, errs := Validate(raw)
		if tc.ok {
			assert.NotContains(t, errs, "phone", tc.phone)
		} else {
			assert.Equal(t, msgInvalidPhone, errs["phone"], tc.phone)
		}
	}
}

func TestValidate_AgeBoundaries(t *testing.T) {
	cases := []struct {
		age any
		ok  bool
	}{
		{float64(18), true},
		{float64(70), true},
		{"18", true},
		{float64(17), false},
		{float64(71), false},
		{"abc", false},
	}
	for _, tc := range cases {
		raw := validSubmission()
		raw["age"] = tc.age
		_, errs := Validate(raw)
		if tc.ok {
			assert.NotContains(t, errs, "age", "%v", tc.age)
		} else {
			assert.Equal(t, msgAgeOutOfRange, errs["age"], "%v", tc.age)
		}
	}
}

func TestValidate_AgeTruncated(t *testing.T) {
	raw := validSubmission()
	raw["age"] = "29.8"

	rec, errs := Validate(raw)
	require.Empty(t, errs)
	assert.Equal(t, 29, rec.Age)
}

func TestValidate_NonNumericSalaryCoercesToZero(t *testing.T) {
	raw := validSubmission()
	raw["expected_salary"] = "abc"

	rec, errs := Validate(raw)
	require.Empty(t, errs)
	assert.Zero(t, rec.ExpectedSalary)
}

func TestValidate_NegativeNumbers(t *testing.T) {
	raw := validSubmission()
	raw["smm_experience"] = "-1"
	raw["expected_salary"] = float64(-100)

	_, errs := Validate(raw)
	assert.Equal(t, FieldErrors{
		"smm_experience":  msgNegativeExp,
		"expected_salary": msgNegativeSalary,
	}, errs)
}

func TestValidate_ReportsAllViolationsTogether(t *testing.T) {
	raw := validSubmission()
	raw["email"] = "nope"
	raw["phone"] = "123"
	raw["age"] = float64(12)
	delete(raw, "gender")

	_, errs := Validate(raw)
	assert.Equal(t, FieldErrors{
		"email":  msgInvalidEmail,
		"phone":  msgInvalidPhone,
		"age":    msgAgeOutOfRange,
		"gender": msgRequired,
	}, errs)
}

func TestValidate_RequiredWinsOverFormat(t *testing.T) {
	raw := validSubmission()
	raw["email"] = ""
	delete(raw, "age")

	_, errs := Validate(raw)
	assert.Equal(t, msgRequired, errs["email"])
	assert.Equal(t, msgRequired, errs["age"])
}
