package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"skill_extractor_backend/internal/llm"
	"skill_extractor_backend/internal/model"
	"skill_extractor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoSkills = `{"skills":[
	{"name":"Stream filtering","category":"STREAMS_LAMBDAS","description":"Filters lists with predicates","exampleUsage":"list.stream().filter(x -> x > 1)","isGeneral":false},
	{"name":"Control flow","category":"SYNTAX_BASICS","description":"Loops and conditionals","exampleUsage":"for (int i = 0; i < n; i++)","isGeneral":true}
]}`

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration
	err     error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", false, c.err
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

func javaFiles() []model.FileData {
	return []model.FileData{
		{Filename: "Main.java", Content: "class Main { void run() { list.stream().filter(x -> x > 1); } }"},
		{Filename: "Util.java", Content: "class Util {}"},
	}
}

func TestCombineFileContents(t *testing.T) {
	got := CombineFileContents([]model.FileData{
		{Filename: "A.java", Content: "class A {}"},
		{Filename: "B.java", Content: "class B {}"},
	})
	assert.Equal(t,
		"// ========== A.java ==========\nclass A {}\n\n// ========== B.java ==========\nclass B {}\n\n",
		got)
}

func TestAnalyze(t *testing.T) {
	f := newFixture(t)
	f.llm.AddResponse(llm.MockResponse{Content: twoSkills})
	svc := NewSkillAnalysisService(f.skill, f.llm, nil, f.cfg)

	skills, err := svc.Analyze(context.Background(), javaFiles())
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, model.CategoryStreamsLambdas, skills[0].Category)
	assert.True(t, skills[1].IsGeneral)

	req := f.llm.LastCall()
	require.NotNil(t, req.Schema)
	assert.Equal(t, "skill_analysis", req.Schema.Name)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "Files: Main.java, Util.java")
	assert.Contains(t, prompt, "// ========== Main.java ==========")
	assert.Contains(t, prompt, "REST_API")
}

func TestAnalyze_RejectsBadResponses(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"unknown category", llm.MockResponse{Content: `{"skills":[{"name":"x","category":"COBOL","description":"","exampleUsage":"","isGeneral":false}]}`}},
		{"not json", llm.MockResponse{Content: "I found some skills"}},
		{"missing field", llm.MockResponse{Content: `{"skills":[{"name":"x","category":"OOP"}]}`}},
		{"provider down", llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.llm.AddResponse(tt.resp)
			svc := NewSkillAnalysisService(f.skill, f.llm, nil, f.cfg)

			_, err := svc.Analyze(context.Background(), javaFiles())
			require.Error(t, err)
			assert.True(t, errors.Is(err, util.ErrGeneration))
		})
	}
}

func TestAnalyze_Cache(t *testing.T) {
	f := newFixture(t)
	f.llm.AddResponse(llm.MockResponse{Content: twoSkills})
	cache := newMemoryCache()
	svc := NewSkillAnalysisService(f.skill, f.llm, cache, f.cfg)
	ctx := context.Background()

	first, err := svc.Analyze(ctx, javaFiles())
	require.NoError(t, err)

	second, err := svc.Analyze(ctx, javaFiles())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.llm.CallCount())

	key := analysisCacheKey("mock", CombineFileContents(javaFiles()))
	assert.Equal(t, time.Hour, cache.ttls[key])
	assert.NotEqual(t, key, analysisCacheKey("other-model", CombineFileContents(javaFiles())))
}

func TestAnalyze_CacheErrorsIgnored(t *testing.T) {
	f := newFixture(t)
	f.llm.AddResponse(llm.MockResponse{Content: twoSkills})
	cache := newMemoryCache()
	cache.err = errors.New("connection refused")
	svc := NewSkillAnalysisService(f.skill, f.llm, cache, f.cfg)

	skills, err := svc.Analyze(context.Background(), javaFiles())
	require.NoError(t, err)
	assert.Len(t, skills, 2)
}

func TestSkillQueries(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	skill := f.seedSkill(t, alice.ID, "Stream filtering")
	svc := NewSkillAnalysisService(f.skill, f.llm, nil, f.cfg)
	ctx := context.Background()

	all, err := svc.ListUserSkills(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Stream API & Lambdas", all[0].CategoryDisplayName)

	byCategory, err := svc.ListUserSkillsByCategory(ctx, alice.ID, strings.ToLower("streams_lambdas"))
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	_, err = svc.ListUserSkillsByCategory(ctx, alice.ID, "COBOL")
	assert.True(t, errors.Is(err, util.ErrBadRequest))

	general, err := svc.ListUserGeneralSkills(ctx, alice.ID, true)
	require.NoError(t, err)
	assert.Empty(t, general)

	got, err := svc.GetSkill(ctx, alice.ID, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stream filtering", got.Name)

	_, err = svc.GetSkill(ctx, bob.ID, skill.ID)
	assert.True(t, errors.Is(err, util.ErrNotFound))
}
