package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"skill_extractor_backend/internal/config"
	"skill_extractor_backend/internal/llm"
	"skill_extractor_backend/internal/middleware"
	"skill_extractor_backend/internal/model"
	"skill_extractor_backend/internal/repository"
	"skill_extractor_backend/internal/service"
	"skill_extractor_backend/internal/testutil"
	"skill_extractor_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "controller-test-secret"

	skillsJSON = `{"skills":[{"name":"Stream filtering","category":"STREAMS_LAMBDAS","description":"Filters lists","exampleUsage":"list.stream().filter(p)","isGeneral":false}]}`
	quizJSON   = `{"questions":[
		{"number":1,"text":"q1","options":["A) a","B) b"],"correctAnswer":"A"},
		{"number":2,"text":"q2","options":["A) a","B) b"],"correctAnswer":"B"},
		{"number":3,"text":"q3","options":["A) a","B) b"],"correctAnswer":"A"},
		{"number":4,"text":"q4","options":["A) a","B) b"],"correctAnswer":"B"}
	]}`
)

type testServer struct {
	router *gin.Engine
	llm    *llm.MockProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWT:    config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		Upload: config.UploadConfig{MaxFiles: 5, MaxSizeMB: 1},
		Quiz:   config.QuizConfig{GenerationTTL: time.Hour},
	}
	mock := llm.NewMockProvider()

	users := repository.NewUserRepository(db)
	projects := repository.NewProjectRepository(db)
	skills := repository.NewSkillRepository(db)

	analysis := service.NewSkillAnalysisService(skills, mock, nil, cfg)
	storage := &service.StorageService{Provider: &service.LocalStorageProvider{Root: t.TempDir()}}
	projectSvc := service.NewProjectService(db, projects, skills, analysis, storage, cfg)
	quizSvc := service.NewQuizService(db, skills, repository.NewQuizResultRepository(db), repository.NewQuizGenerationRepository(db), mock, cfg)

	authCtl := NewAuthController(service.NewAuthService(users, cfg))
	projectCtl := NewProjectController(projectSvc)
	skillCtl := NewSkillController(analysis)
	quizCtl := NewQuizController(quizSvc)
	healthCtl := NewHealthController(db, nil, mock.ModelID())

	r := gin.New()
	r.POST("/api/auth/register", authCtl.Register)
	r.POST("/api/auth/login", authCtl.Login)
	r.GET("/api/health", healthCtl.HealthCheck)
	r.GET("/api/skills/categories", skillCtl.Categories)
	r.GET("/api/skills/levels", skillCtl.Levels)

	api := r.Group("/api", middleware.AuthMiddleware(testSecret))
	api.GET("/auth/check", authCtl.Check)
	api.POST("/projects/upload", projectCtl.Upload)
	api.GET("/projects", projectCtl.List)
	api.GET("/projects/:id", projectCtl.Get)
	api.DELETE("/projects/:id", projectCtl.Delete)
	api.GET("/skills", skillCtl.List)
	api.GET("/skills/category/:category", skillCtl.ListByCategory)
	api.GET("/skills/:id", skillCtl.Get)
	api.POST("/quiz/generate/:skillId", quizCtl.Generate)
	api.POST("/quiz/submit", quizCtl.Submit)
	api.GET("/quiz/results/:skillId", quizCtl.Latest)
	api.GET("/quiz/results/:skillId/history", quizCtl.History)

	return &testServer{router: r, llm: mock}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username, "email": username + "@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data model.AuthResponse `json:"data"`
	}
	decode(t, w, &resp)
	return resp.Data.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) util.ErrorResponse {
	t.Helper()
	var e util.ErrorResponse
	decode(t, w, &e)
	return e
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"username": "al", "email": "bad", "password": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := s.login(t, "alice")

	w = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "email": "new@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Username already exists", errorBody(t, w).Message)

	w = s.do(t, http.MethodGet, "/api/auth/check", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/auth/check", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/auth/check", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/auth/check?token="+token, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadGenerateSubmit(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "alice")

	s.llm.AddResponse(llm.MockResponse{Content: skillsJSON})
	w := s.do(t, http.MethodPost, "/api/projects/upload", token, gin.H{
		"projectName": "Inventory",
		"files":       []gin.H{{"filename": "Main.java", "content": "class Main {}"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var upload struct {
		Data model.ProjectUploadResponse `json:"data"`
	}
	decode(t, w, &upload)
	require.Len(t, upload.Data.Skills, 1)
	skillID := upload.Data.Skills[0].ID

	s.llm.AddResponse(llm.MockResponse{Content: quizJSON})
	w = s.do(t, http.MethodPost, "/api/quiz/generate/"+itoa(skillID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var gen struct {
		Data model.Quiz `json:"data"`
	}
	decode(t, w, &gen)
	require.Len(t, gen.Data.Questions, 4)
	assert.NotEmpty(t, gen.Data.GenerationID)

	w = s.do(t, http.MethodPost, "/api/quiz/submit", token, model.QuizSubmitRequest{
		SkillID:      skillID,
		GenerationID: gen.Data.GenerationID,
		Answers: []model.QuizAnswer{
			{QuestionNumber: 1, SelectedAnswer: "A"},
			{QuestionNumber: 2, SelectedAnswer: "B"},
			{QuestionNumber: 3, SelectedAnswer: "A"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result struct {
		Data model.QuizResultResponse `json:"data"`
	}
	decode(t, w, &result)
	assert.Equal(t, 75, result.Data.Score)
	assert.Equal(t, model.LevelGood, result.Data.AchievedLevel)

	w = s.do(t, http.MethodGet, "/api/quiz/results/"+itoa(skillID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/skills/"+itoa(skillID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var skill struct {
		Data model.SkillResponse `json:"data"`
	}
	decode(t, w, &skill)
	assert.Equal(t, model.LevelGood, skill.Data.Level)

	w = s.do(t, http.MethodPost, "/api/quiz/submit", token, model.QuizSubmitRequest{
		SkillID: skillID, GenerationID: gen.Data.GenerationID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestQuizErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "alice")

	w := s.do(t, http.MethodPost, "/api/quiz/generate/12345", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Skill not found with id: 12345", errorBody(t, w).Message)

	w = s.do(t, http.MethodPost, "/api/quiz/generate/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/quiz/results/12345", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/quiz/submit", token, gin.H{"answers": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code, "skillId is required")
}

func TestGenerationFailureIs503(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "alice")

	s.llm.AddResponse(llm.MockResponse{Content: skillsJSON})
	w := s.do(t, http.MethodPost, "/api/projects/upload", token, gin.H{
		"projectName": "Inventory",
		"files":       []gin.H{{"filename": "Main.java", "content": "class Main {}"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var upload struct {
		Data model.ProjectUploadResponse `json:"data"`
	}
	decode(t, w, &upload)

	s.llm.AddResponse(llm.MockResponse{Content: "Sorry, I can't help with that."})
	w = s.do(t, http.MethodPost, "/api/quiz/generate/"+itoa(upload.Data.Skills[0].ID), token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	s.llm.AddResponse(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	w = s.do(t, http.MethodPost, "/api/quiz/generate/"+itoa(upload.Data.Skills[0].ID), token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "AI service temporarily unavailable. Please try again later.", errorBody(t, w).Message)
}

func TestProjectEndpoints(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "alice")
	bob := s.login(t, "bob")

	w := s.do(t, http.MethodPost, "/api/projects/upload", alice, gin.H{"projectName": "Empty"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No files provided", errorBody(t, w).Message)

	s.llm.AddResponse(llm.MockResponse{Content: skillsJSON})
	w = s.do(t, http.MethodPost, "/api/projects/upload", alice, gin.H{
		"projectName": "Inventory",
		"files":       []gin.H{{"filename": "Main.java", "content": "class Main {}"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var upload struct {
		Data model.ProjectUploadResponse `json:"data"`
	}
	decode(t, w, &upload)
	id := itoa(upload.Data.Project.ID)

	w = s.do(t, http.MethodGet, "/api/projects", alice, nil)
	var list struct {
		Data []model.ProjectResponse `json:"data"`
	}
	decode(t, w, &list)
	assert.Len(t, list.Data, 1)

	w = s.do(t, http.MethodGet, "/api/projects/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/projects/"+id, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/projects/"+id, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/skills", alice, nil)
	var skills struct {
		Data []model.SkillResponse `json:"data"`
	}
	decode(t, w, &skills)
	assert.Empty(t, skills.Data)
}

func TestSkillCatalogues(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "alice")

	w := s.do(t, http.MethodGet, "/api/skills/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cats struct {
		Data []model.CategoryInfo `json:"data"`
	}
	decode(t, w, &cats)
	assert.Len(t, cats.Data, 15)

	w = s.do(t, http.MethodGet, "/api/skills/levels", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var levels struct {
		Data []model.LevelResponse `json:"data"`
	}
	decode(t, w, &levels)
	require.Len(t, levels.Data, 4)
	assert.Equal(t, "🟩 GOOD (61-85%)", levels.Data[2].DisplayText)

	w = s.do(t, http.MethodGet, "/api/skills/category/COBOL", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/skills?general=maybe", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
