package repository

import (
	"context"
	"skill_extractor_backend/internal/model"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	DB *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

func (r *ProjectRepository) WithTx(tx *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: tx}
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.DB.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	var p model.Project
	err := r.DB.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID uint) ([]model.Project, error) {
	var ps []model.Project
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at desc, id desc").
		Find(&ps).Error
	return ps, err
}

// Delete 删除项目及其技能、测验结果与已生成的测验
func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		skillIDs := tx.Model(&model.Skill{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("skill_id IN (?)", skillIDs).Delete(&model.QuizResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("skill_id IN (?)", skillIDs).Delete(&model.QuizGeneration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Skill{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, id).Error
	})
}
