package model

import (
	"time"

	"gorm.io/datatypes"
)

// Question 单道选择题
type Question struct {
	Number        int      `json:"number"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
}

// Quiz 为某个技能生成的一套题目
type Quiz struct {
	GenerationID string     `json:"generationId,omitempty"`
	SkillID      uint       `json:"skillId"`
	SkillName    string     `json:"skillName"`
	Questions    []Question `json:"questions"`
}

// QuizGeneration 持久化的生成结果（含答案），提交时据此评分
type QuizGeneration struct {
	UUIDBase
	SkillID     uint                           `gorm:"index;not null" json:"skillId"`
	Skill       *Skill                         `gorm:"foreignKey:SkillID;constraint:OnDelete:CASCADE" json:"-"`
	Questions   datatypes.JSONType[[]Question] `json:"questions"`
	SubmittedAt *time.Time                     `json:"submittedAt,omitempty"`
}

func (QuizGeneration) TableName() string {
	return "quiz_generations"
}

// Quiz rebuilds the transient quiz from the stored key.
func (g *QuizGeneration) Quiz(skillName string) *Quiz {
	return &Quiz{
		GenerationID: g.ID,
		SkillID:      g.SkillID,
		SkillName:    skillName,
		Questions:    g.Questions.Data(),
	}
}
