package application

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hireForm/internal/database"
)

// Store 抽象申请记录的持久化，便于在测试中替换。
type Store interface {
	Insert(ctx context.Context, rec Record, rawPayload []byte) (uint, error)
	List(ctx context.Context) ([]Record, error)
}

// GormStore 基于 GORM 的 Store 实现。
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 使用注入的连接池构造 GormStore。
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Insert 写入一条记录并返回数据库分配的 ID。
func (s *GormStore) Insert(ctx context.Context, rec Record, rawPayload []byte) (uint, error) {
	row := toRow(rec)
	if len(rawPayload) > 0 {
		row.RawPayload = datatypes.JSON(rawPayload)
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("%w: insert application: %w", ErrStorage, err)
	}
	return row.ID, nil
}

// List 返回全部记录，最新的在前。
func (s *GormStore) List(ctx context.Context) ([]Record, error) {
	var rows []database.Application
	err := s.db.WithContext(ctx).
		Omit("raw_payload").
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list applications: %w", ErrStorage, err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, fromRow(row))
	}
	return records, nil
}

func toRow(rec Record) database.Application {
	return database.Application{
		CreatedAt:          rec.CreatedAt,
		FullName:           rec.FullName,
		Email:              rec.Email,
		Phone:              rec.Phone,
		Age:                rec.Age,
		City:               rec.City,
		Employed:           rec.Employed,
		Gender:             rec.Gender,
		SMMExperience:      rec.SMMExperience,
		PreviousExperience: rec.PreviousExperience,
		ManagedPages:       rec.ManagedPages,
		PageLinks:          rec.PageLinks,
		GraphicDesigns:     rec.GraphicDesigns,
		FBAds:              rec.FBAds,
		AdsExperience:      rec.AdsExperience,
		OrganicEngagement:  rec.OrganicEngagement,
		NegativeComments:   rec.NegativeComments,
		PostingFrequency:   rec.PostingFrequency,
		BestPostTime:       rec.BestPostTime,
		MetaSkill:          rec.MetaSkill,
		ExpectedSalary:     rec.ExpectedSalary,
		Comments:           rec.Comments,
	}
}

func fromRow(row database.Application) Record {
	return Record{
		ID:                 row.ID,
		CreatedAt:          row.CreatedAt.UTC(),
		FullName:           row.FullName,
		Email:              row.Email,
		Phone:              row.Phone,
		Age:                row.Age,
		City:               row.City,
		Employed:           row.Employed,
		Gender:             row.Gender,
		SMMExperience:      row.SMMExperience,
		PreviousExperience: row.PreviousExperience,
		ManagedPages:       row.ManagedPages,
		PageLinks:          row.PageLinks,
		GraphicDesigns:     row.GraphicDesigns,
		FBAds:              row.FBAds,
		AdsExperience:      row.AdsExperience,
		OrganicEngagement:  row.OrganicEngagement,
		NegativeComments:   row.NegativeComments,
		PostingFrequency:   row.PostingFrequency,
		BestPostTime:       row.BestPostTime,
		MetaSkill:          row.MetaSkill,
		ExpectedSalary:     row.ExpectedSalary,
		Comments:           row.Comments,
	}
}
