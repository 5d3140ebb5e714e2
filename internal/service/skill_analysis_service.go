package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"skill_extractor_backend/internal/config"
	"skill_extractor_backend/internal/llm"
	"skill_extractor_backend/internal/model"
	"skill_extractor_backend/internal/repository"
	"skill_extractor_backend/internal/util"
	"skill_extractor_backend/pkg/logger"
	"skill_extractor_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const analysisSystemPrompt = "You are a Java programming expert analyzing code to extract specific skills."

// AnalyzedSkill is one entry of the collaborator's skill list.
type AnalyzedSkill struct {
	Name         string              `json:"name"`
	Category     model.SkillCategory `json:"category"`
	Description  string              `json:"description"`
	ExampleUsage string              `json:"exampleUsage"`
	IsGeneral    bool                `json:"isGeneral"`
}

type SkillAnalysisService struct {
	SkillRepo *repository.SkillRepository
	LLM       llm.Provider
	// Cache may be nil.
	Cache AnalysisCache
	Cfg   *config.Config
}

func NewSkillAnalysisService(skillRepo *repository.SkillRepository, provider llm.Provider, cache AnalysisCache, cfg *config.Config) *SkillAnalysisService {
	return &SkillAnalysisService{
		SkillRepo: skillRepo,
		LLM:       provider,
		Cache:     cache,
		Cfg:       cfg,
	}
}

// Analyze extracts skills from the given files. Identical code analysed by
// the same model is served from the cache when one is configured.
func (s *SkillAnalysisService) Analyze(ctx context.Context, files []model.FileData) (skills []AnalyzedSkill, err error) {
	ctx, span := tracing.Start(ctx, "SkillAnalysisService.Analyze", attribute.Int("files", len(files)))
	defer func() { tracing.End(span, err) }()

	code := CombineFileContents(files)
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}

	key := analysisCacheKey(s.LLM.ModelID(), code)
	if raw, ok := s.cacheGet(ctx, key); ok {
		if skills, err := parseSkills(raw); err == nil {
			logger.Log.Info("Skill analysis served from cache", zap.Int("skills", len(skills)))
			return skills, nil
		}
	}

	req := llm.UserPrompt(analysisSystemPrompt, buildAnalysisPrompt(code, names))
	req.Schema = skillAnalysisSchema()
	req.Temperature = s.Cfg.AI.AnalysisTemperature
	req.MaxTokens = s.Cfg.AI.AnalysisMaxTokens

	resp, err := s.LLM.Generate(llm.WithPurpose(ctx, llm.PurposeSkillAnalysis), req)
	if err != nil {
		return nil, mapGenerationError(ctx, err, "Failed to analyze project")
	}

	skills, err = parseSkills(resp.Content)
	if err != nil {
		return nil, util.GenerationError(err, "Failed to parse skills from AI response")
	}

	s.cacheSet(ctx, key, resp.Content)
	logger.Log.Info("Skill analysis completed", zap.Int("files", len(files)), zap.Int("skills", len(skills)))
	return skills, nil
}

// NewSkills binds analysed skills to their project and owner.
func NewSkills(analyzed []AnalyzedSkill, projectID, userID uint) []model.Skill {
	out := make([]model.Skill, 0, len(analyzed))
	for _, a := range analyzed {
		out = append(out, model.Skill{
			Name:         a.Name,
			Category:     a.Category,
			Description:  a.Description,
			ExampleUsage: a.ExampleUsage,
			IsGeneral:    a.IsGeneral,
			Level:        model.LevelUnknown,
			UserID:       userID,
			ProjectID:    projectID,
		})
	}
	return out
}

func (s *SkillAnalysisService) ListUserSkills(ctx context.Context, userID uint) ([]model.SkillResponse, error) {
	skills, err := s.SkillRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, util.InternalError(err, "Failed to load skills")
	}
	return model.NewSkillResponses(skills), nil
}

func (s *SkillAnalysisService) ListUserSkillsByCategory(ctx context.Context, userID uint, category string) ([]model.SkillResponse, error) {
	c, ok := model.ParseCategory(strings.ToUpper(category))
	if !ok {
		return nil, util.BadRequestError("Unknown skill category: %s", category)
	}
	skills, err := s.SkillRepo.ListByUserAndCategory(ctx, userID, c)
	if err != nil {
		return nil, util.InternalError(err, "Failed to load skills")
	}
	return model.NewSkillResponses(skills), nil
}

func (s *SkillAnalysisService) ListUserGeneralSkills(ctx context.Context, userID uint, general bool) ([]model.SkillResponse, error) {
	skills, err := s.SkillRepo.ListByUserAndGeneral(ctx, userID, general)
	if err != nil {
		return nil, util.InternalError(err, "Failed to load skills")
	}
	return model.NewSkillResponses(skills), nil
}

func (s *SkillAnalysisService) GetSkill(ctx context.Context, userID, skillID uint) (*model.SkillResponse, error) {
	skill, err := s.SkillRepo.FindByIDForUser(ctx, skillID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("Skill not found with id: %d", skillID)
		}
		return nil, util.InternalError(err, "Failed to load skill")
	}
	resp := model.NewSkillResponse(skill)
	return &resp, nil
}

func (s *SkillAnalysisService) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.Cache == nil || !s.Cfg.Cache.Enabled {
		return "", false
	}
	raw, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		logger.Log.Warn("Analysis cache read failed", zap.Error(err))
		return "", false
	}
	return raw, ok
}

func (s *SkillAnalysisService) cacheSet(ctx context.Context, key, raw string) {
	if s.Cache == nil || !s.Cfg.Cache.Enabled {
		return
	}
	if err := s.Cache.Set(ctx, key, raw, s.Cfg.Cache.AnalysisTTL); err != nil {
		logger.Log.Warn("Analysis cache write failed", zap.Error(err))
	}
}

// CombineFileContents concatenates files with a banner line per file.
func CombineFileContents(files []model.FileData) string {
	var b strings.Builder
	for _, f := range files {
		b.WriteString("// ========== ")
		b.WriteString(f.Filename)
		b.WriteString(" ==========\n")
		b.WriteString(f.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}

func parseSkills(raw string) ([]AnalyzedSkill, error) {
	var payload struct {
		Skills []AnalyzedSkill `json:"skills"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return nil, err
	}
	for i, sk := range payload.Skills {
		if _, ok := model.ParseCategory(string(sk.Category)); !ok {
			return nil, fmt.Errorf("skill %d (%s): unknown category %q", i+1, sk.Name, sk.Category)
		}
		if strings.TrimSpace(sk.Name) == "" {
			return nil, fmt.Errorf("skill %d: empty name", i+1)
		}
	}
	if payload.Skills == nil {
		payload.Skills = []AnalyzedSkill{}
	}
	return payload.Skills, nil
}

func skillAnalysisSchema() *llm.Schema {
	return &llm.Schema{
		Name:        "skill_analysis",
		Description: "Programming skills demonstrated in a code base",
		Definition: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"skills"},
			"properties": map[string]any{
				"skills": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"required":             []string{"name", "category", "description", "exampleUsage", "isGeneral"},
						"properties": map[string]any{
							"name":         map[string]any{"type": "string"},
							"category":     map[string]any{"type": "string", "enum": model.CategoryNames()},
							"description":  map[string]any{"type": "string"},
							"exampleUsage": map[string]any{"type": "string"},
							"isGeneral":    map[string]any{"type": "boolean"},
						},
					},
				},
			},
		},
	}
}

func buildAnalysisPrompt(code string, fileNames []string) string {
	return fmt.Sprintf(`Analyze the following Java project and list the specific programming skills the author demonstrates.

Files: %s

%s
Use only the category names listed above.

For every skill give:
- name: a short, specific name (e.g. "Stream filtering with predicates", not "Streams")
- category: one of the category names above
- description: one sentence on what the code does with it
- exampleUsage: a short snippet copied from the code that shows it
- isGeneral: true for broad language fundamentals, false for specific techniques

Respond with JSON only:
{"skills":[{"name":"...","category":"...","description":"...","exampleUsage":"...","isGeneral":false}]}

Code:
%s`, strings.Join(fileNames, ", "), model.CategoriesForPrompt(), code)
}
