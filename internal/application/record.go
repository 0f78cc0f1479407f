// Package application 实现求职申请的校验、入库、查询与导出。
package application

import (
	"errors"
	"time"
)

// ErrStorage 表示持久化层失败，调用方应返回通用 500 并可重试。
var ErrStorage = errors.New("application storage failure")

// Record 是一份规范化后的申请记录，JSON 字段名与表单保持一致。
type Record struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Age      int    `json:"age"`
	City     string `json:"city"`
	Employed string `json:"employed"`
	Gender   string `json:"gender"`

	SMMExperience      float64 `json:"smm_experience"`
	PreviousExperience string  `json:"previous_experience"`
	ManagedPages       string  `json:"managed_pages"`
	PageLinks          string  `json:"page_links"`
	GraphicDesigns     string  `json:"graphic_designs"`
	FBAds              string  `json:"fb_ads"`
	AdsExperience      string  `json:"ads_experience"`

	OrganicEngagement string `json:"organic_engagement"`
	NegativeComments  string `json:"negative_comments"`
	PostingFrequency  string `json:"posting_frequency"`
	BestPostTime      string `json:"best_post_time"`
	MetaSkill         string `json:"meta_skill"`

	ExpectedSalary float64 `json:"expected_salary"`
	Comments       string  `json:"comments"`
}

// FieldErrors maps a field name to the single message describing its violation.
type FieldErrors map[string]string

// Result 是一次提交的结果：成功时 ID 非零，否则 Fields 非空。
type Result struct {
	ID     uint
	Fields FieldErrors
}

// OK reports whether the submission was stored.
func (r Result) OK() bool {
	return len(r.Fields) == 0 && r.ID != 0
}
