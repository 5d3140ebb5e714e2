package model

import (
	"math"
	"time"
)

// QuizResult 一次测验提交的评分记录，创建后不可修改
type QuizResult struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SkillID        uint       `gorm:"index;not null" json:"skillId"`
	Skill          *Skill     `gorm:"foreignKey:SkillID;constraint:OnDelete:CASCADE" json:"-"`
	GenerationID   *string    `gorm:"type:varchar(36);index" json:"generationId,omitempty"`
	Score          int        `gorm:"not null" json:"score"`
	TotalQuestions int        `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers int        `gorm:"not null" json:"correctAnswers"`
	Level          SkillLevel `gorm:"size:20;not null" json:"level"`
	AnswersJSON    string     `gorm:"column:answers_json;type:text" json:"-"`
	CompletedAt    time.Time  `gorm:"not null;index" json:"completedAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

// CalculateScore returns round(correct*100/total). A quiz without
// questions scores 0.
func CalculateScore(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}
