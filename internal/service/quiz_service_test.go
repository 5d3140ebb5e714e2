package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"skill_extractor_backend/internal/llm"
	"skill_extractor_backend/internal/model"
	"skill_extractor_backend/internal/repository"
	"skill_extractor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQuiz(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")
	skill := f.seedSkill(t, u.ID, "Stream filtering")
	f.llm.AddResponse(llm.MockResponse{Content: fourQuestions})
	svc := f.quizService()

	quiz, err := svc.GenerateQuiz(context.Background(), u.ID, skill.ID)
	require.NoError(t, err)

	assert.Equal(t, skill.ID, quiz.SkillID)
	assert.Equal(t, "Stream filtering", quiz.SkillName)
	assert.NotEmpty(t, quiz.GenerationID)
	require.Len(t, quiz.Questions, 4)
	for _, q := range quiz.Questions {
		assert.Empty(t, q.CorrectAnswer, "answers are hidden by default")
	}

	req := f.llm.LastCall()
	assert.True(t, req.JSONMode)
	assert.Equal(t, 1500, req.MaxTokens)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "Stream filtering")
	assert.Contains(t, prompt, "Stream API & Lambdas")
	assert.Contains(t, prompt, skill.ExampleUsage)

	gen, err := repository.NewQuizGenerationRepository(f.db).FindByID(context.Background(), quiz.GenerationID)
	require.NoError(t, err)
	stored := gen.Questions.Data()
	require.Len(t, stored, 4)
	assert.Equal(t, "A", stored[0].CorrectAnswer)
	assert.Nil(t, gen.SubmittedAt)
}

func TestGenerateQuiz_RevealAnswers(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")
	skill := f.seedSkill(t, u.ID, "Stream filtering")
	f.llm.AddResponse(llm.MockResponse{Content: fourQuestions})
	svc := f.quizService()

	cfg := testConfig()
	cfg.Quiz.RevealAnswers = true
	svc.ApplyConfig(cfg)

	quiz, err := svc.GenerateQuiz(context.Background(), u.ID, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, "D", quiz.Questions[3].CorrectAnswer)
}

func TestGenerateQuiz_SkillNotFound(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	skill := f.seedSkill(t, alice.ID, "Stream filtering")
	svc := f.quizService()

	_, err := svc.GenerateQuiz(context.Background(), alice.ID, 9999)
	assert.True(t, errors.Is(err, util.ErrNotFound))

	_, err = svc.GenerateQuiz(context.Background(), bob.ID, skill.ID)
	assert.True(t, errors.Is(err, util.ErrNotFound), "other users' skills are invisible")

	assert.Equal(t, 0, f.llm.CallCount())
}

func TestGenerateQuiz_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
		kind util.ErrorKind
	}{
		{"provider unavailable", llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}, util.KindServiceUnavailable},
		{"retries exhausted", llm.MockResponse{Err: &llm.ErrRetriesExhausted{Attempts: 3, Err: errors.New("502")}}, util.KindServiceUnavailable},
		{"provider error", llm.MockResponse{Err: errors.New("boom")}, util.KindGenerationFailure},
		{"unparseable", llm.MockResponse{Content: "Sure! Here is a quiz."}, util.KindParseFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			u := f.user(t, "alice")
			skill := f.seedSkill(t, u.ID, "Stream filtering")
			f.llm.AddResponse(tt.resp)

			_, err := f.quizService().GenerateQuiz(context.Background(), u.ID, skill.ID)
			require.Error(t, err)
			assert.Equal(t, tt.kind, util.KindOf(err))
			assert.True(t, errors.Is(err, util.ErrGeneration))
		})
	}
}

func TestSubmitQuiz_Regenerate(t *testing.T) {
	tests := []struct {
		name    string
		answers []model.QuizAnswer
		score   int
		correct int
		level   model.SkillLevel
	}{
		{"all correct", allCorrect(), 100, 4, model.LevelExpert},
		{"two of four", allCorrect()[:2], 50, 2, model.LevelBasic},
		{"three of four", []model.QuizAnswer{
			{QuestionNumber: 1, SelectedAnswer: "A"},
			{QuestionNumber: 2, SelectedAnswer: "B"},
			{QuestionNumber: 3, SelectedAnswer: "C"},
			{QuestionNumber: 4, SelectedAnswer: "A"},
		}, 75, 3, model.LevelGood},
		{"unmatched number", []model.QuizAnswer{
			{QuestionNumber: 1, SelectedAnswer: "A"},
			{QuestionNumber: 9, SelectedAnswer: "A"},
		}, 25, 1, model.LevelUnknown},
		{"no answers", nil, 0, 0, model.LevelUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			u := f.user(t, "alice")
			skill := f.seedSkill(t, u.ID, "Stream filtering")
			f.llm.AddResponse(llm.MockResponse{Content: fourQuestions})

			res, err := f.quizService().SubmitQuiz(context.Background(), u.ID, &model.QuizSubmitRequest{
				SkillID: skill.ID,
				Answers: tt.answers,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.score, res.Score)
			assert.Equal(t, tt.correct, res.CorrectAnswers)
			assert.Equal(t, 4, res.TotalQuestions)
			assert.Equal(t, tt.level, res.AchievedLevel)
			assert.Equal(t, tt.level.DisplayText(), res.LevelDisplay)
			assert.Empty(t, res.GenerationID)

			stored, err := f.skill.FindByID(context.Background(), skill.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.level, stored.Level)
		})
	}
}

func TestSubmitQuiz_EmptyQuizScoresZero(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")
	skill := f.seedSkill(t, u.ID, "Stream filtering")
	f.llm.AddResponse(llm.MockResponse{Content: `{"title":"nothing here"}`})

	res, err := f.quizService().SubmitQuiz(context.Background(), u.ID, &model.QuizSubmitRequest{
		SkillID: skill.ID,
		Answers: allCorrect(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.TotalQuestions)
	assert.Equal(t, model.LevelUnknown, res.AchievedLevel)
}

func TestSubmitQuiz_StoredGeneration(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")
	skill := f.seedSkill(t, u.ID, "Stream filtering")
	other := f.seedSkill(t, u.ID, "Optional chaining")
	f.llm.AddResponse(llm.MockResponse{Content: fourQuestions})
	svc := f.quizService()
	ctx := context.Background()

	quiz, err := svc.GenerateQuiz(ctx, u.ID, skill.ID)
	require.NoError(t, err)

	t.Run("wrong skill", func(t *testing.T) {
		_, err := svc.SubmitQuiz(ctx, u.ID, &model.QuizSubmitRequest{
			SkillID: other.ID, GenerationID: quiz.GenerationID, Answers: allCorrect(),
		})
		assert.Equal(t, util.KindBadRequest, util.KindOf(err))
	})

	t.Run("unknown generation", func(t *testing.T) {
		_, err := svc.SubmitQuiz(ctx, u.ID, &model.QuizSubmitRequest{
			SkillID: skill.ID, GenerationID: "00000000-0000-0000-0000-000000000000",
		})
		assert.True(t, errors.Is(err, util.ErrNotFound))
	})

	t.Run("graded against stored key", func(t *testing.T) {
		res, err := svc.SubmitQuiz(ctx, u.ID, &model.QuizSubmitRequest{
			SkillID: skill.ID, GenerationID: quiz.GenerationID, Answers: allCorrect(),
		})
		require.NoError(t, err)
		assert.Equal(t, 100, res.Score)
		assert.Equal(t, model.LevelExpert, res.AchievedLevel)
		assert.Equal(t, quiz.GenerationID, res.GenerationID)
		assert.Equal(t, 1, f.llm.CallCount(), "no regeneration on submit")
	})

	t.Run("second submit conflicts", func(t *testing.T) {
		_, err := svc.SubmitQuiz(ctx, u.ID, &model.QuizSubmitRequest{
			SkillID: skill.ID, GenerationID: quiz.GenerationID, Answers: allCorrect(),
		})
		assert.True(t, errors.Is(err, util.ErrConflict))

		n, err := repository.NewQuizResultRepository(f.db).CountBySkill(ctx, skill.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestSubmitQuiz_ExpiredGeneration(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")
	skill := f.seedSkill(t, u.ID, "Stream filtering")
	f.llm.AddResponse(llm.MockResponse{Content: fourQuestions})
	svc := f.quizService()
	ctx := context.Background()

	quiz, err := svc.GenerateQuiz(ctx, u.ID, skill.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.SubmitQuiz(ctx, u.ID, &model.QuizSubmitRequest{
		SkillID: skill.ID, GenerationID: quiz.GenerationID, Answers: allCorrect(),
	})
	assert.Equal(t, util.KindBadRequest, util.KindOf(err))
}

func TestSubmitQuiz_CanceledLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")
	skill := f.seedSkill(t, u.ID, "Stream filtering")
	f.llm.AddResponse(llm.MockResponse{Content: fourQuestions})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.quizService().SubmitQuiz(ctx, u.ID, &model.QuizSubmitRequest{
		SkillID: skill.ID, Answers: allCorrect(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrTimeout))

	bg := context.Background()
	n, err := repository.NewQuizResultRepository(f.db).CountBySkill(bg, skill.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	stored, err := f.skill.FindByID(bg, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LevelUnknown, stored.Level)
}

// stallingProvider blocks until the caller gives up.
type stallingProvider struct{}

func (stallingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (stallingProvider) ModelID() string { return "stall" }

func TestSubmitQuiz_DeadlineDuringGeneration(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")
	skill := f.seedSkill(t, u.ID, "Stream filtering")
	svc := f.quizService()
	svc.LLM = stallingProvider{}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.SubmitQuiz(ctx, u.ID, &model.QuizSubmitRequest{SkillID: skill.ID, Answers: allCorrect()})
	assert.Equal(t, util.KindTimeout, util.KindOf(err))

	n, err := repository.NewQuizResultRepository(f.db).CountBySkill(context.Background(), skill.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSubmitQuiz_SkillNotFound(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")

	_, err := f.quizService().SubmitQuiz(context.Background(), u.ID, &model.QuizSubmitRequest{SkillID: 42})
	assert.True(t, errors.Is(err, util.ErrNotFound))
	assert.Equal(t, 0, f.llm.CallCount())
}

func TestLatestResultAndHistory(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")
	skill := f.seedSkill(t, u.ID, "Stream filtering")
	svc := f.quizService()
	ctx := context.Background()

	_, err := svc.LatestResult(ctx, u.ID, skill.ID)
	assert.True(t, errors.Is(err, util.ErrNotFound))

	history, err := svc.History(ctx, u.ID, skill.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	f.llm.Fallback = &llm.MockResponse{Content: fourQuestions}
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	svc.now = func() time.Time { return base }
	_, err = svc.SubmitQuiz(ctx, u.ID, &model.QuizSubmitRequest{SkillID: skill.ID, Answers: allCorrect()})
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(time.Minute) }
	_, err = svc.SubmitQuiz(ctx, u.ID, &model.QuizSubmitRequest{SkillID: skill.ID, Answers: allCorrect()[:2]})
	require.NoError(t, err)

	latest, err := svc.LatestResult(ctx, u.ID, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, latest.Score)
	assert.Equal(t, model.LevelBasic, latest.AchievedLevel)

	history, err = svc.History(ctx, u.ID, skill.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 50, history[0].Score)
	assert.Equal(t, 100, history[1].Score)

	stranger := f.user(t, "mallory")
	_, err = svc.LatestResult(ctx, stranger.ID, skill.ID)
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

func TestGradeAnswers_FirstMatchWins(t *testing.T) {
	questions := []model.Question{
		{Number: 1, CorrectAnswer: "A"},
		{Number: 1, CorrectAnswer: "B"},
	}
	assert.Equal(t, 1, gradeAnswers(questions, []model.QuizAnswer{{QuestionNumber: 1, SelectedAnswer: "A"}}))
	assert.Equal(t, 0, gradeAnswers(questions, []model.QuizAnswer{{QuestionNumber: 1, SelectedAnswer: "B"}}))
}
