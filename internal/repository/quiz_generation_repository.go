package repository

import (
	"context"
	"errors"
	"skill_extractor_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// ErrAlreadySubmitted 该测验已提交过
var ErrAlreadySubmitted = errors.New("quiz generation already submitted")

type QuizGenerationRepository struct {
	DB *gorm.DB
}

func NewQuizGenerationRepository(db *gorm.DB) *QuizGenerationRepository {
	return &QuizGenerationRepository{DB: db}
}

func (r *QuizGenerationRepository) WithTx(tx *gorm.DB) *QuizGenerationRepository {
	return &QuizGenerationRepository{DB: tx}
}

func (r *QuizGenerationRepository) Create(ctx context.Context, g *model.QuizGeneration) error {
	return r.DB.WithContext(ctx).Create(g).Error
}

func (r *QuizGenerationRepository) FindByID(ctx context.Context, id string) (*model.QuizGeneration, error) {
	var g model.QuizGeneration
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&g).Error
	return &g, err
}

// MarkSubmitted 条件更新 submitted_at，保证同一份测验只能评分一次
func (r *QuizGenerationRepository) MarkSubmitted(ctx context.Context, id string, at time.Time) error {
	res := r.DB.WithContext(ctx).Model(&model.QuizGeneration{}).
		Where("id = ? AND submitted_at IS NULL", id).
		Update("submitted_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadySubmitted
	}
	return nil
}
