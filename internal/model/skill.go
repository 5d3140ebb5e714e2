package model

import "time"

// Skill 从上传代码中提取出的技能
type Skill struct {
	ID           uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string        `gorm:"size:255;not null" json:"name"`
	Category     SkillCategory `gorm:"size:50;not null;index" json:"category"`
	Description  string        `gorm:"size:500" json:"description"`
	ExampleUsage string        `gorm:"type:text" json:"exampleUsage"`
	Level        SkillLevel    `gorm:"size:20;not null;default:UNKNOWN" json:"level"`
	IsGeneral    bool          `gorm:"not null;default:false" json:"isGeneral"`
	CreatedAt    time.Time     `gorm:"autoCreateTime;not null" json:"createdAt"`
	UserID       uint          `gorm:"index;not null" json:"userId"`
	ProjectID    uint          `gorm:"index;not null" json:"projectId"`
	Project      *Project      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Skill) TableName() string {
	return "skills"
}

// UpdateLevel sets the level derived from a quiz score.
func (s *Skill) UpdateLevel(score int) {
	s.Level = LevelFromScore(score)
}
