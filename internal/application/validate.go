package application

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	msgRequired         = "This field is required"
	msgInvalidEmail     = "Please enter a valid email address"
	msgInvalidPhone     = "Please enter a valid phone number"
	msgAgeOutOfRange    = "Age must be between 18 and 70"
	msgNegativeExp      = "Experience cannot be negative"
	msgNegativeSalary   = "Salary cannot be negative"
	minApplicantAge     = 18
	maxApplicantAge     = 70
	highSalaryThreshold = 2000
)

// RequiredFields 列出提交时必须填写的字段，顺序与表单一致。
var RequiredFields = []string{
	"fullName", "email", "phone", "age", "city", "employed", "gender",
	"smm_experience", "previous_experience", "managed_pages", "graphic_designs", "fb_ads",
	"organic_engagement", "negative_comments", "posting_frequency", "best_post_time", "meta_skill",
	"expected_salary",
}

var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern      = regexp.MustCompile(`^[0-9+\-\s()]{10,}$`)
	whitespacePattern = regexp.MustCompile(`\s`)
)

// Validate checks a decoded submission and returns the normalized record. When any rule
// fails the returned FieldErrors is non-empty and the record must not be stored.
// Every violation is reported, one message per field; a missing field is only
// reported as required.
func Validate(raw map[string]any) (Record, FieldErrors) {
	errs := FieldErrors{}

	for _, field := range RequiredFields {
		if !present(raw[field]) {
			errs[field] = msgRequired
		}
	}

	setOnce := func(field, msg string) {
		if _, exists := errs[field]; !exists {
			errs[field] = msg
		}
	}

	email := stringField(raw, "email")
	if email != "" && !emailPattern.MatchString(email) {
		setOnce("email", msgInvalidEmail)
	}

	phone := stringField(raw, "phone")
	if phone != "" && !phonePattern.MatchString(whitespacePattern.ReplaceAllString(phone, "")) {
		setOnce("phone", msgInvalidPhone)
	}

	age := numberField(raw, "age")
	if age < minApplicantAge || age > maxApplicantAge {
		setOnce("age", msgAgeOutOfRange)
	}

	experience := numberField(raw, "smm_experience")
	if experience < 0 {
		setOnce("smm_experience", msgNegativeExp)
	}

	salary := numberField(raw, "expected_salary")
	if salary < 0 {
		setOnce("expected_salary", msgNegativeSalary)
	}

	if len(errs) > 0 {
		return Record{}, errs
	}

	return Record{
		FullName:           stringField(raw, "fullName"),
		Email:              email,
		Phone:              phone,
		Age:                int(math.Trunc(age)),
		City:               stringField(raw, "city"),
		Employed:           stringField(raw, "employed"),
		Gender:             stringField(raw, "gender"),
		SMMExperience:      experience,
		PreviousExperience: stringField(raw, "previous_experience"),
		ManagedPages:       stringField(raw, "managed_pages"),
		PageLinks:          stringField(raw, "page_links"),
		GraphicDesigns:     stringField(raw, "graphic_designs"),
		FBAds:              stringField(raw, "fb_ads"),
		AdsExperience:      stringField(raw, "ads_experience"),
		OrganicEngagement:  stringField(raw, "organic_engagement"),
		NegativeComments:   stringField(raw, "negative_comments"),
		PostingFrequency:   stringField(raw, "posting_frequency"),
		BestPostTime:       stringField(raw, "best_post_time"),
		MetaSkill:          stringField(raw, "meta_skill"),
		ExpectedSalary:     salary,
		Comments:           stringField(raw, "comments"),
	}, nil
}

// present: 字段存在且字符串形式去空白后非空。数字 0 视为已填写。
func present(value any) bool {
	if value == nil {
		return false
	}
	return strings.TrimSpace(toString(value)) != ""
}

func stringField(raw map[string]any, field string) string {
	value, ok := raw[field]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(toString(value))
}

// numberField 将字段宽松转换为数字，无法解析时为 0。
func numberField(raw map[string]any, field string) float64 {
	return toNumber(raw[field])
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case interface{ String() string }:
		return v.String()
	default:
		return ""
	}
}

func toNumber(value any) float64 {
	var n float64
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case bool:
		if v {
			n = 1
		}
	default:
		s := strings.TrimSpace(toString(v))
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		n = parsed
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
