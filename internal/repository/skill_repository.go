package repository

import (
	"context"
	"skill_extractor_backend/internal/model"

	"gorm.io/gorm"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) WithTx(tx *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: tx}
}

func (r *SkillRepository) CreateBatch(ctx context.Context, skills []model.Skill) error {
	if len(skills) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&skills).Error
}

func (r *SkillRepository) FindByID(ctx context.Context, id uint) (*model.Skill, error) {
	var s model.Skill
	err := r.DB.WithContext(ctx).Preload("Project").First(&s, id).Error
	return &s, err
}

// FindByIDForUser 仅返回属于该用户的技能
func (r *SkillRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*model.Skill, error) {
	var s model.Skill
	err := r.DB.WithContext(ctx).Preload("Project").
		Where("id = ? AND user_id = ?", id, userID).
		First(&s).Error
	return &s, err
}

func (r *SkillRepository) ListByUser(ctx context.Context, userID uint) ([]model.Skill, error) {
	var ss []model.Skill
	err := r.DB.WithContext(ctx).Preload("Project").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&ss).Error
	return ss, err
}

func (r *SkillRepository) ListByUserAndCategory(ctx context.Context, userID uint, category model.SkillCategory) ([]model.Skill, error) {
	var ss []model.Skill
	err := r.DB.WithContext(ctx).Preload("Project").
		Where("user_id = ? AND category = ?", userID, category).
		Order("created_at desc, id desc").
		Find(&ss).Error
	return ss, err
}

func (r *SkillRepository) ListByProject(ctx context.Context, projectID uint) ([]model.Skill, error) {
	var ss []model.Skill
	err := r.DB.WithContext(ctx).Preload("Project").
		Where("project_id = ?", projectID).
		Order("id asc").
		Find(&ss).Error
	return ss, err
}

func (r *SkillRepository) ListByUserAndGeneral(ctx context.Context, userID uint, general bool) ([]model.Skill, error) {
	var ss []model.Skill
	err := r.DB.WithContext(ctx).Preload("Project").
		Where("user_id = ? AND is_general = ?", userID, general).
		Order("created_at desc, id desc").
		Find(&ss).Error
	return ss, err
}

// UpdateLevel 只更新等级字段，并发提交时以最后一次写入为准
func (r *SkillRepository) UpdateLevel(ctx context.Context, id uint, level model.SkillLevel) error {
	res := r.DB.WithContext(ctx).Model(&model.Skill{}).Where("id = ?", id).Update("level", level)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL 在值未变化时返回 0 行，需再确认记录是否存在
	var n int64
	if err := r.DB.WithContext(ctx).Model(&model.Skill{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
