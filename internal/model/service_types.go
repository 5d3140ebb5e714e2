package model

import "time"

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token    string `json:"token,omitempty"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Message  string `json:"message,omitempty"`
}

// FileData 上传的单个源码文件
type FileData struct {
	Filename  string `json:"filename"`
	Content   string `json:"content"`
	Extension string `json:"extension"`
}

type ProjectUploadRequest struct {
	ProjectName string     `json:"projectName"`
	Description string     `json:"description"`
	Files       []FileData `json:"files"`
}

type ProjectResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalFiles  int       `json:"totalFiles"`
	TotalSizeKB int64     `json:"totalSizeKb"`
	Files       []string  `json:"files"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

func NewProjectResponse(p *Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		TotalFiles:  p.TotalFiles,
		TotalSizeKB: p.TotalSizeKB,
		Files:       p.FileNames(),
		UploadedAt:  p.UploadedAt,
	}
}

type ProjectUploadResponse struct {
	Project ProjectResponse `json:"project"`
	Skills  []SkillResponse `json:"skills"`
	Message string          `json:"message"`
}

type SkillResponse struct {
	ID                  uint          `json:"id"`
	Name                string        `json:"name"`
	Category            SkillCategory `json:"category"`
	CategoryDisplayName string        `json:"categoryDisplayName"`
	Description         string        `json:"description"`
	ExampleUsage        string        `json:"exampleUsage"`
	Level               SkillLevel    `json:"level"`
	LevelDisplay        string        `json:"levelDisplay"`
	IsGeneral           bool          `json:"isGeneral"`
	ProjectID           uint          `json:"projectId"`
	ProjectName         string        `json:"projectName"`
	CreatedAt           time.Time     `json:"createdAt"`
}

// NewSkillResponse expects Project to be preloaded; projectName is empty otherwise.
func NewSkillResponse(s *Skill) SkillResponse {
	resp := SkillResponse{
		ID:                  s.ID,
		Name:                s.Name,
		Category:            s.Category,
		CategoryDisplayName: s.Category.DisplayName(),
		Description:         s.Description,
		ExampleUsage:        s.ExampleUsage,
		Level:               s.Level,
		LevelDisplay:        s.Level.DisplayText(),
		IsGeneral:           s.IsGeneral,
		ProjectID:           s.ProjectID,
		CreatedAt:           s.CreatedAt,
	}
	if s.Project != nil {
		resp.ProjectName = s.Project.Name
	}
	return resp
}

func NewSkillResponses(skills []Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(skills))
	for i := range skills {
		out = append(out, NewSkillResponse(&skills[i]))
	}
	return out
}

// QuizAnswer 提交的单题答案，SelectedAnswer 为 A/B/C/D
type QuizAnswer struct {
	QuestionNumber int    `json:"questionNumber"`
	SelectedAnswer string `json:"selectedAnswer"`
}

type QuizSubmitRequest struct {
	SkillID      uint         `json:"skillId" binding:"required"`
	GenerationID string       `json:"generationId,omitempty"`
	Answers      []QuizAnswer `json:"answers"`
}

type QuizResultResponse struct {
	ID             uint       `json:"id"`
	SkillID        uint       `json:"skillId"`
	GenerationID   string     `json:"generationId,omitempty"`
	Score          int        `json:"score"`
	CorrectAnswers int        `json:"correctAnswers"`
	TotalQuestions int        `json:"totalQuestions"`
	AchievedLevel  SkillLevel `json:"achievedLevel"`
	LevelDisplay   string     `json:"levelDisplay"`
	CompletedAt    time.Time  `json:"completedAt"`
}

func NewQuizResultResponse(r *QuizResult) QuizResultResponse {
	resp := QuizResultResponse{
		ID:             r.ID,
		SkillID:        r.SkillID,
		Score:          r.Score,
		CorrectAnswers: r.CorrectAnswers,
		TotalQuestions: r.TotalQuestions,
		AchievedLevel:  r.Level,
		LevelDisplay:   r.Level.DisplayText(),
		CompletedAt:    r.CompletedAt,
	}
	if r.GenerationID != nil {
		resp.GenerationID = *r.GenerationID
	}
	return resp
}

// LevelResponse is a level catalogue entry with its rendered display text.
type LevelResponse struct {
	LevelInfo
	DisplayText string `json:"displayText"`
}

func LevelCatalogue() []LevelResponse {
	out := make([]LevelResponse, 0, len(Levels))
	for _, info := range Levels {
		out = append(out, LevelResponse{LevelInfo: info, DisplayText: info.Level.DisplayText()})
	}
	return out
}

type ProjectDetailResponse struct {
	ProjectResponse
	Skills []SkillResponse `json:"skills"`
}
