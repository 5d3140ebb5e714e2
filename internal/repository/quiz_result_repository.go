package repository

import (
	"context"
	"skill_extractor_backend/internal/model"

	"gorm.io/gorm"
)

type QuizResultRepository struct {
	DB *gorm.DB
}

func NewQuizResultRepository(db *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: db}
}

func (r *QuizResultRepository) WithTx(tx *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: tx}
}

func (r *QuizResultRepository) Create(ctx context.Context, result *model.QuizResult) error {
	return r.DB.WithContext(ctx).Create(result).Error
}

// FindLatestBySkill 按完成时间倒序取最近一次结果，同一时间以 id 较大者为准
func (r *QuizResultRepository) FindLatestBySkill(ctx context.Context, skillID uint) (*model.QuizResult, error) {
	var res model.QuizResult
	err := r.DB.WithContext(ctx).
		Where("skill_id = ?", skillID).
		Order("completed_at desc, id desc").
		First(&res).Error
	return &res, err
}

func (r *QuizResultRepository) ListBySkill(ctx context.Context, skillID uint) ([]model.QuizResult, error) {
	var rs []model.QuizResult
	err := r.DB.WithContext(ctx).
		Where("skill_id = ?", skillID).
		Order("completed_at desc, id desc").
		Find(&rs).Error
	return rs, err
}

func (r *QuizResultRepository) CountBySkill(ctx context.Context, skillID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.QuizResult{}).Where("skill_id = ?", skillID).Count(&count).Error
	return count, err
}
