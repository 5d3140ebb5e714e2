package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"skill_extractor_backend/internal/config"
	"skill_extractor_backend/internal/llm"
	"skill_extractor_backend/internal/model"
	"skill_extractor_backend/internal/repository"
	"skill_extractor_backend/internal/util"
	"skill_extractor_backend/pkg/logger"
	"skill_extractor_backend/pkg/monitoring"
	"skill_extractor_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const quizSystemPrompt = "You are a Java programming instructor creating quiz questions to assess skill proficiency."

type QuizService struct {
	DB             *gorm.DB
	SkillRepo      *repository.SkillRepository
	ResultRepo     *repository.QuizResultRepository
	GenerationRepo *repository.QuizGenerationRepository
	LLM            llm.Provider
	Cfg            *config.Config

	revealAnswers atomic.Bool
	generationTTL atomic.Int64
	now           func() time.Time
}

func NewQuizService(
	db *gorm.DB,
	skillRepo *repository.SkillRepository,
	resultRepo *repository.QuizResultRepository,
	generationRepo *repository.QuizGenerationRepository,
	provider llm.Provider,
	cfg *config.Config,
) *QuizService {
	s := &QuizService{
		DB:             db,
		SkillRepo:      skillRepo,
		ResultRepo:     resultRepo,
		GenerationRepo: generationRepo,
		LLM:            provider,
		Cfg:            cfg,
		now:            time.Now,
	}
	s.ApplyConfig(cfg)
	return s
}

// ApplyConfig picks up the hot-reloadable quiz settings.
func (s *QuizService) ApplyConfig(cfg *config.Config) {
	s.revealAnswers.Store(cfg.Quiz.RevealAnswers)
	s.generationTTL.Store(int64(cfg.Quiz.GenerationTTL))
}

// GenerateQuiz asks the collaborator for a quiz on the caller's skill and
// stores the answer key under a new generation id.
func (s *QuizService) GenerateQuiz(ctx context.Context, userID, skillID uint) (quiz *model.Quiz, err error) {
	ctx, span := tracing.Start(ctx, "QuizService.GenerateQuiz", attribute.Int64("skill.id", int64(skillID)))
	defer func() { tracing.End(span, err) }()

	skill, err := s.findSkill(ctx, userID, skillID)
	if err != nil {
		return nil, err
	}

	quiz, err = s.generate(ctx, skill)
	if err != nil {
		return nil, err
	}

	gen := &model.QuizGeneration{
		SkillID:   skill.ID,
		Questions: datatypes.NewJSONType(quiz.Questions),
	}
	if err := s.GenerationRepo.Create(ctx, gen); err != nil {
		return nil, util.InternalError(err, "Failed to store quiz")
	}
	quiz.GenerationID = gen.ID

	logger.Log.Info("Quiz generated",
		zap.Uint("skillId", skill.ID),
		zap.String("generationId", gen.ID),
		zap.Int("questions", len(quiz.Questions)),
	)

	if s.revealAnswers.Load() {
		return quiz, nil
	}
	return withoutAnswers(quiz), nil
}

// SubmitQuiz grades the answers and records the result. With a generation
// id the stored answer key is used; without one the quiz is regenerated.
func (s *QuizService) SubmitQuiz(ctx context.Context, userID uint, req *model.QuizSubmitRequest) (resp *model.QuizResultResponse, err error) {
	ctx, span := tracing.Start(ctx, "QuizService.SubmitQuiz",
		attribute.Int64("skill.id", int64(req.SkillID)),
		attribute.String("quiz.generation_id", req.GenerationID),
	)
	defer func() { tracing.End(span, err) }()

	skill, err := s.findSkill(ctx, userID, req.SkillID)
	if err != nil {
		return nil, err
	}

	var quiz *model.Quiz
	var generationID *string
	if req.GenerationID != "" {
		gen, err := s.findGeneration(ctx, skill, req.GenerationID)
		if err != nil {
			return nil, err
		}
		quiz = gen.Quiz(skill.Name)
		generationID = &gen.ID
	} else {
		quiz, err = s.generate(ctx, skill)
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, util.TimeoutError(err, "Quiz submission timed out")
	}

	correct := gradeAnswers(quiz.Questions, req.Answers)
	total := len(quiz.Questions)
	score := model.CalculateScore(correct, total)
	level := model.LevelFromScore(score)

	answersJSON, err := marshalAnswers(req.Answers)
	if err != nil {
		return nil, util.InternalError(err, "Failed to record answers")
	}

	result := &model.QuizResult{
		SkillID:        skill.ID,
		GenerationID:   generationID,
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Level:          level,
		AnswersJSON:    answersJSON,
		CompletedAt:    s.now(),
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.SkillRepo.WithTx(tx).UpdateLevel(ctx, skill.ID, level); err != nil {
			return err
		}
		if err := s.ResultRepo.WithTx(tx).Create(ctx, result); err != nil {
			return err
		}
		if generationID != nil {
			return s.GenerationRepo.WithTx(tx).MarkSubmitted(ctx, *generationID, result.CompletedAt)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadySubmitted):
			return nil, util.ConflictError("Quiz %s has already been submitted", req.GenerationID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, util.NotFoundError("Skill not found with id: %d", skill.ID)
		case ctx.Err() != nil:
			return nil, util.TimeoutError(err, "Quiz submission timed out")
		}
		return nil, util.InternalError(err, "Failed to save quiz result")
	}

	monitoring.QuizSubmissions.WithLabelValues(string(level)).Inc()
	logger.Log.Info("Quiz submitted",
		zap.Uint("skillId", skill.ID),
		zap.Int("score", score),
		zap.Int("correct", correct),
		zap.Int("total", total),
		zap.String("level", string(level)),
	)

	out := model.NewQuizResultResponse(result)
	return &out, nil
}

// LatestResult returns the most recent result for the caller's skill.
func (s *QuizService) LatestResult(ctx context.Context, userID, skillID uint) (*model.QuizResultResponse, error) {
	if _, err := s.findSkill(ctx, userID, skillID); err != nil {
		return nil, err
	}

	result, err := s.ResultRepo.FindLatestBySkill(ctx, skillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("No quiz results found for skill: %d", skillID)
		}
		return nil, util.InternalError(err, "Failed to load quiz result")
	}

	out := model.NewQuizResultResponse(result)
	return &out, nil
}

// History returns every result for the caller's skill, newest first.
func (s *QuizService) History(ctx context.Context, userID, skillID uint) ([]model.QuizResultResponse, error) {
	if _, err := s.findSkill(ctx, userID, skillID); err != nil {
		return nil, err
	}

	results, err := s.ResultRepo.ListBySkill(ctx, skillID)
	if err != nil {
		return nil, util.InternalError(err, "Failed to load quiz results")
	}

	out := make([]model.QuizResultResponse, 0, len(results))
	for i := range results {
		out = append(out, model.NewQuizResultResponse(&results[i]))
	}
	return out, nil
}

func (s *QuizService) findSkill(ctx context.Context, userID, skillID uint) (*model.Skill, error) {
	skill, err := s.SkillRepo.FindByIDForUser(ctx, skillID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("Skill not found with id: %d", skillID)
		}
		if ctx.Err() != nil {
			return nil, util.TimeoutError(err, "Request canceled")
		}
		return nil, util.InternalError(err, "Failed to load skill")
	}
	return skill, nil
}

func (s *QuizService) findGeneration(ctx context.Context, skill *model.Skill, id string) (*model.QuizGeneration, error) {
	gen, err := s.GenerationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("Quiz not found: %s", id)
		}
		if ctx.Err() != nil {
			return nil, util.TimeoutError(err, "Request canceled")
		}
		return nil, util.InternalError(err, "Failed to load quiz")
	}
	if gen.SkillID != skill.ID {
		return nil, util.BadRequestError("Quiz %s was not generated for skill %d", id, skill.ID)
	}
	if gen.SubmittedAt != nil {
		return nil, util.ConflictError("Quiz %s has already been submitted", id)
	}
	if ttl := time.Duration(s.generationTTL.Load()); ttl > 0 && s.now().Sub(gen.CreatedAt) > ttl {
		return nil, util.BadRequestError("Quiz %s has expired, please generate a new one", id)
	}
	return gen, nil
}

// generate performs one collaborator round-trip and parses the result.
func (s *QuizService) generate(ctx context.Context, skill *model.Skill) (*model.Quiz, error) {
	req := llm.UserPrompt(quizSystemPrompt, buildQuizPrompt(skill))
	req.JSONMode = true
	req.Temperature = s.Cfg.AI.QuizTemperature
	req.MaxTokens = s.Cfg.AI.QuizMaxTokens

	resp, err := s.LLM.Generate(llm.WithPurpose(ctx, llm.PurposeQuizGeneration), req)
	if err != nil {
		return nil, mapGenerationError(ctx, err, "Failed to generate quiz for skill: %s", skill.Name)
	}

	quiz, err := ParseQuiz(resp.Content, skill.ID, skill.Name)
	if err != nil {
		logger.Log.Warn("Unparseable quiz response",
			zap.Uint("skillId", skill.ID),
			zap.String("stopReason", resp.StopReason),
			zap.Error(err),
		)
		return nil, err
	}
	return quiz, nil
}

func buildQuizPrompt(skill *model.Skill) string {
	return fmt.Sprintf(`Create a multiple-choice quiz of 5 questions that assesses proficiency in the following skill.

Skill: %s
Category: %s - %s
Example usage from the developer's code:
%s

Rules:
- Each question has exactly four options labelled A, B, C and D.
- Questions may include short code snippets in fenced code blocks.
- Mix conceptual questions with questions about reading or completing code.
- Exactly one option is correct.

Respond with JSON only, in this format:
{"questions":[{"number":1,"text":"...","options":["A) ...","B) ...","C) ...","D) ..."],"correctAnswer":"A"}]}`,
		skill.Name, skill.Category.DisplayName(), skill.Category.Description(), skill.ExampleUsage)
}

// gradeAnswers counts answers whose label equals the first question with
// the same number. Unmatched numbers count as wrong.
func gradeAnswers(questions []model.Question, answers []model.QuizAnswer) int {
	correct := 0
	for _, a := range answers {
		for _, q := range questions {
			if q.Number != a.QuestionNumber {
				continue
			}
			if q.CorrectAnswer == a.SelectedAnswer {
				correct++
			}
			break
		}
	}
	return correct
}

func marshalAnswers(answers []model.QuizAnswer) (string, error) {
	if answers == nil {
		answers = []model.QuizAnswer{}
	}
	b, err := json.Marshal(answers)
	return string(b), err
}

func withoutAnswers(q *model.Quiz) *model.Quiz {
	out := *q
	out.Questions = make([]model.Question, len(q.Questions))
	for i, question := range q.Questions {
		question.CorrectAnswer = ""
		out.Questions[i] = question
	}
	return &out
}
