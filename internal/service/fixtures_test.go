package service

import (
	"context"
	"testing"
	"time"

	"skill_extractor_backend/internal/config"
	"skill_extractor_backend/internal/llm"
	"skill_extractor_backend/internal/model"
	"skill_extractor_backend/internal/repository"
	"skill_extractor_backend/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const fourQuestions = `{"questions":[
	{"number":1,"text":"What does filter return?","options":["A) Stream","B) List","C) Set","D) void"],"correctAnswer":"A"},
	{"number":2,"text":"Which is lazy?","options":["A) collect","B) filter","C) forEach","D) count"],"correctAnswer":"B"},
	{"number":3,"text":"Terminal operation?","options":["A) map","B) peek","C) collect","D) sorted"],"correctAnswer":"C"},
	{"number":4,"text":"Predicate type?","options":["A) Function","B) Supplier","C) Consumer","D) Predicate"],"correctAnswer":"D"}
]}`

func allCorrect() []model.QuizAnswer {
	return []model.QuizAnswer{
		{QuestionNumber: 1, SelectedAnswer: "A"},
		{QuestionNumber: 2, SelectedAnswer: "B"},
		{QuestionNumber: 3, SelectedAnswer: "C"},
		{QuestionNumber: 4, SelectedAnswer: "D"},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		AI: config.AIConfig{
			Provider:            "mock",
			AnalysisTemperature: 0.3,
			AnalysisMaxTokens:   3000,
			QuizTemperature:     0.8,
			QuizMaxTokens:       1500,
		},
		Upload: config.UploadConfig{
			MaxFiles:          3,
			MaxSizeMB:         1,
			AllowedExtensions: []string{".java", ".go"},
		},
		Quiz:  config.QuizConfig{GenerationTTL: time.Hour},
		Cache: config.CacheConfig{Enabled: true, AnalysisTTL: time.Hour},
	}
}

type fixture struct {
	db    *gorm.DB
	cfg   *config.Config
	llm   *llm.MockProvider
	users *repository.UserRepository
	skill *repository.SkillRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:    db,
		cfg:   testConfig(),
		llm:   llm.NewMockProvider(),
		users: repository.NewUserRepository(db),
		skill: repository.NewSkillRepository(db),
	}
}

func (f *fixture) quizService() *QuizService {
	return NewQuizService(
		f.db,
		f.skill,
		repository.NewQuizResultRepository(f.db),
		repository.NewQuizGenerationRepository(f.db),
		f.llm,
		f.cfg,
	)
}

func (f *fixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) seedSkill(t *testing.T, userID uint, name string) *model.Skill {
	t.Helper()
	ctx := context.Background()
	p := &model.Project{Name: "demo", UserID: userID, TotalFiles: 1, AnalyzedFiles: "Main.java"}
	require.NoError(t, repository.NewProjectRepository(f.db).Create(ctx, p))
	skills := []model.Skill{{
		Name:         name,
		Category:     model.CategoryStreamsLambdas,
		ExampleUsage: "list.stream().filter(x -> x > 1).collect(toList())",
		Level:        model.LevelUnknown,
		UserID:       userID,
		ProjectID:    p.ID,
	}}
	require.NoError(t, f.skill.CreateBatch(ctx, skills))
	return &skills[0]
}
