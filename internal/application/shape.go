package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidShape 表示请求体不是 JSON 对象，或已知字段的取值不是标量。
var ErrInvalidShape = errors.New("invalid submission shape")

var knownFields = []string{
	"fullName", "email", "phone", "age", "city", "employed", "gender",
	"smm_experience", "previous_experience", "managed_pages", "page_links",
	"graphic_designs", "fb_ads", "ads_experience",
	"organic_engagement", "negative_comments", "posting_frequency", "best_post_time", "meta_skill",
	"expected_salary", "comments",
}

var submissionSchema = buildSubmissionSchema()

func buildSubmissionSchema() map[string]interface{} {
	scalar := map[string]interface{}{
		"type": []interface{}{"string", "number", "boolean", "null"},
	}
	properties := make(map[string]interface{}, len(knownFields))
	for _, field := range knownFields {
		properties[field] = scalar
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
}

// DecodeSubmission parses a request body and checks its shape before field validation.
// Unknown fields are tolerated and dropped later by Validate.
func DecodeSubmission(body []byte) (map[string]any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: request body must be a JSON object", ErrInvalidShape)
	}
	if err := CheckShape(doc); err != nil {
		return nil, err
	}
	raw, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: request body must be a JSON object", ErrInvalidShape)
	}
	return raw, nil
}

// CheckShape validates a decoded document against the submission schema.
func CheckShape(doc any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(submissionSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			msgs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrInvalidShape, strings.Join(msgs, "; "))
	}
	return nil
}
