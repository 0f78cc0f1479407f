package database

import (
	"time"

	"gorm.io/datatypes"
)

// Application 表示一份求职申请。只会被创建，不会被修改或删除。
type Application struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index"`

	FullName string `gorm:"column:full_name;type:text;not null"`
	Email    string `gorm:"column:email;type:text;not null"`
	Phone    string `gorm:"column:phone;type:text;not null"`
	Age      int    `gorm:"column:age;not null"`
	City     string `gorm:"column:city;type:text;not null"`
	Employed string `gorm:"column:employed;type:text;not null"`
	Gender   string `gorm:"column:gender;type:text;not null"`

	SMMExperience      float64 `gorm:"column:smm_experience;not null"`
	PreviousExperience string  `gorm:"column:previous_experience;type:text;not null"`
	ManagedPages       string  `gorm:"column:managed_pages;type:text;not null"`
	PageLinks          string  `gorm:"column:page_links;type:text"`
	GraphicDesigns     string  `gorm:"column:graphic_designs;type:text;not null"`
	FBAds              string  `gorm:"column:fb_ads;type:text;not null"`
	AdsExperience      string  `gorm:"column:ads_experience;type:text"`

	OrganicEngagement string `gorm:"column:organic_engagement;type:text;not null"`
	NegativeComments  string `gorm:"column:negative_comments;type:text;not null"`
	PostingFrequency  string `gorm:"column:posting_frequency;type:text;not null"`
	BestPostTime      string `gorm:"column:best_post_time;type:text;not null"`
	MetaSkill         string `gorm:"column:meta_skill;type:text;not null"`

	ExpectedSalary float64 `gorm:"column:expected_salary;not null"`
	Comments       string  `gorm:"column:comments;type:text"`

	// 原始提交内容，仅用于审计。
	RawPayload datatypes.JSON `gorm:"column:raw_payload;type:jsonb"`
}

// TableName 固定表名。
func (Application) TableName() string {
	return "applications"
}
