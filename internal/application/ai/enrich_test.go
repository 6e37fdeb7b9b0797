package ai

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeModel 可编程的模型客户端
type fakeModel struct {
	enabled   bool
	chatJSON  string
	chatReply string
	embedDim  int
	err       error
	embedFn   func(inputs []string) ([][]float32, error)
}

func (m *fakeModel) Enabled() bool { return m.enabled }

func (m *fakeModel) ChatJSON(ctx context.Context, system, prompt string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.chatJSON, nil
}

func (m *fakeModel) Chat(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.chatReply, nil
}

func (m *fakeModel) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.embedFn != nil {
		return m.embedFn(inputs)
	}
	vecs := make([][]float32, len(inputs))
	for i := range inputs {
		vecs[i] = make([]float32, m.embedDim)
	}
	return vecs, nil
}

// fakeCache 内存AI缓存
type fakeCache struct {
	mu         sync.Mutex
	enrichment map[string][]byte
	embeddings map[string][]float32
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		enrichment: make(map[string][]byte),
		embeddings: make(map[string][]float32),
	}
}

func (c *fakeCache) GetEnrichment(ctx context.Context, hash string, out interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.enrichment[hash]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (c *fakeCache) SetEnrichment(ctx context.Context, hash string, result interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, _ := json.Marshal(result)
	c.enrichment[hash] = raw
}

func (c *fakeCache) GetEmbedding(ctx context.Context, hash string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vec, ok := c.embeddings[hash]
	return vec, ok
}

func (c *fakeCache) SetEmbedding(ctx context.Context, hash string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeddings[hash] = vec
}

func newEnrichUseCase(model ModelClient) *EnrichUseCase {
	return NewEnrichUseCase(model, newFakeCache(), zap.NewNop())
}

// TestEnrich_FallbackShape 测试降级结果的结构
func TestEnrich_FallbackShape(t *testing.T) {
	uc := newEnrichUseCase(&fakeModel{enabled: false})

	result, err := uc.Execute(context.Background(), EnrichRequest{
		Title:  "The Great Gatsby",
		Author: "F. Scott Fitzgerald",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Summary)
	assert.NotNil(t, result.Tags)
	assert.NotNil(t, result.Keywords)
	assert.Equal(t, SourceFallback, result.Source)
}

// TestEnrich_FallbackDeterministic 测试降级结果确定性
func TestEnrich_FallbackDeterministic(t *testing.T) {
	req := EnrichRequest{
		Title:       "Dune",
		Author:      "Frank Herbert",
		Description: strPtr("A sci-fi epic."),
	}

	r1, err := newEnrichUseCase(&fakeModel{enabled: false}).Execute(context.Background(), req)
	require.NoError(t, err)
	r2, err := newEnrichUseCase(&fakeModel{enabled: false}).Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, r1.Summary, r2.Summary)
	assert.Equal(t, r1.Tags, r2.Tags)
	assert.Equal(t, r1.Keywords, r2.Keywords)
}

// TestEnrich_FallbackSummary 测试降级摘要规则
func TestEnrich_FallbackSummary(t *testing.T) {
	// 有描述:使用描述并补齐句号
	result, err := newEnrichUseCase(&fakeModel{enabled: false}).Execute(context.Background(), EnrichRequest{
		Title:       "Dune",
		Author:      "Frank Herbert",
		Description: strPtr("An exploration of power and ecology"),
	})
	require.NoError(t, err)
	assert.Equal(t, "An exploration of power and ecology.", result.Summary)

	// 无描述:拼通用摘要
	result, err = newEnrichUseCase(&fakeModel{enabled: false}).Execute(context.Background(), EnrichRequest{
		Title:  "1984",
		Author: "George Orwell",
	})
	require.NoError(t, err)
	assert.Equal(t, "A book by George Orwell titled '1984'.", result.Summary)
}

// TestEnrich_FallbackTerms 测试降级标签和关键词
func TestEnrich_FallbackTerms(t *testing.T) {
	result, err := newEnrichUseCase(&fakeModel{enabled: false}).Execute(context.Background(), EnrichRequest{
		Title:  "Brave New World",
		Author: "Aldous Huxley",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"brave", "new", "world", "aldous", "huxley"}, result.Tags)
	// 标题词 + 作者姓氏
	assert.Equal(t, []string{"brave", "new", "world", "huxley"}, result.Keywords)
}

// TestEnrich_FallbackLimits 测试标签/关键词数量上限和停用词过滤
func TestEnrich_FallbackLimits(t *testing.T) {
	result, err := newEnrichUseCase(&fakeModel{enabled: false}).Execute(context.Background(), EnrichRequest{
		Title:  "The Very Long Title With Many Words Here",
		Author: "Author Name",
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.Tags), 5)
	assert.LessOrEqual(t, len(result.Keywords), 7)

	// 停用词不出现
	result, err = newEnrichUseCase(&fakeModel{enabled: false}).Execute(context.Background(), EnrichRequest{
		Title:  "The Book",
		Author: "The Author",
	})
	require.NoError(t, err)
	for _, term := range append(result.Tags, result.Keywords...) {
		assert.NotContains(t, []string{"the", "a", "an", "and", "or"}, term)
	}
}

// TestEnrich_ModelPath 测试模型路径解析JSON响应
func TestEnrich_ModelPath(t *testing.T) {
	model := &fakeModel{
		enabled:  true,
		chatJSON: `{"summary":"A desert planet saga.","tags":["sci-fi","desert"],"keywords":["dune","spice"]}`,
	}
	uc := newEnrichUseCase(model)

	result, err := uc.Execute(context.Background(), EnrichRequest{
		Title:  "Dune",
		Author: "Frank Herbert",
	})
	require.NoError(t, err)

	assert.Equal(t, "A desert planet saga.", result.Summary)
	assert.Equal(t, []string{"sci-fi", "desert"}, result.Tags)
	assert.Equal(t, SourceOpenAI, result.Source)
}

// TestEnrich_ModelErrorFallsBack 测试模型出错时降级
func TestEnrich_ModelErrorFallsBack(t *testing.T) {
	model := &fakeModel{enabled: true, err: errors.New("rate limited")}
	uc := newEnrichUseCase(model)

	result, err := uc.Execute(context.Background(), EnrichRequest{
		Title:  "Dune",
		Author: "Frank Herbert",
	})
	require.NoError(t, err, "模型失败不能外溢给调用方")
	assert.Equal(t, SourceFallback, result.Source)
}

// TestEnrich_CacheHit 测试同样输入第二次命中缓存
func TestEnrich_CacheHit(t *testing.T) {
	cache := newFakeCache()
	model := &fakeModel{
		enabled:  true,
		chatJSON: `{"summary":"First answer.","tags":[],"keywords":[]}`,
	}
	uc := NewEnrichUseCase(model, cache, zap.NewNop())

	req := EnrichRequest{Title: "Dune", Author: "Frank Herbert"}
	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// 模型换了答案,但缓存命中返回第一次的结果
	model.chatJSON = `{"summary":"Second answer.","tags":[],"keywords":[]}`
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.Summary, second.Summary)
}

func strPtr(s string) *string { return &s }
