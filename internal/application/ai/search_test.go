package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
)

// fakeBookRepo 检索测试用的内存图书仓储
type fakeBookRepo struct {
	books []*book.Book
}

func (r *fakeBookRepo) Create(ctx context.Context, b *book.Book) error  { return nil }
func (r *fakeBookRepo) Update(ctx context.Context, b *book.Book) error  { return nil }
func (r *fakeBookRepo) Delete(ctx context.Context, id string) error     { return nil }
func (r *fakeBookRepo) UpdateStatus(ctx context.Context, id string, status book.Status) error {
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id string) (*book.Book, error) {
	for _, b := range r.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (r *fakeBookRepo) LockByID(ctx context.Context, id string) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeBookRepo) FindAll(ctx context.Context) ([]*book.Book, error) {
	return r.books, nil
}

// List 简化的关键词过滤,模仿ILIKE行为
func (r *fakeBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var matched []*book.Book
	q := strings.ToLower(params.Query)
	for _, b := range r.books {
		if q == "" || strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) {
			matched = append(matched, b)
		}
	}
	total := int64(len(matched))
	if params.PageSize > 0 && len(matched) > params.PageSize {
		matched = matched[:params.PageSize]
	}
	return matched, total, nil
}

// FindByKeywords 任一关键词命中标题/作者/描述
func (r *fakeBookRepo) FindByKeywords(ctx context.Context, keywords []string, limit int) ([]*book.Book, error) {
	if len(keywords) == 0 {
		if len(r.books) > limit {
			return r.books[:limit], nil
		}
		return r.books, nil
	}
	var matched []*book.Book
	for _, b := range r.books {
		text := strings.ToLower(b.Title + " " + b.Author)
		if b.Description != nil {
			text += " " + strings.ToLower(*b.Description)
		}
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, b)
				break
			}
		}
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func testBooks() []*book.Book {
	return []*book.Book{
		{ID: "b1", Title: "Dune", Author: "Frank Herbert", Status: book.StatusAvailable, Tags: []string{"sci-fi"}},
		{ID: "b2", Title: "Pride and Prejudice", Author: "Jane Austen", Status: book.StatusBorrowed},
		{ID: "b3", Title: "Neuromancer", Author: "William Gibson", Status: book.StatusAvailable},
	}
}

// TestSemanticSearch_Ranking 测试按余弦相似度排序
func TestSemanticSearch_Ranking(t *testing.T) {
	repo := &fakeBookRepo{books: testBooks()}

	// 构造向量:b3与查询同向,b1次之,b2正交
	vecs := map[string][]float32{
		"Dune by Frank Herbert. sci-fi":          {1, 1},
		"Pride and Prejudice by Jane Austen":     {0, 1},
		"Neuromancer by William Gibson":          {1, 0},
	}
	model := &fakeModel{
		enabled: true,
		embedFn: func(inputs []string) ([][]float32, error) {
			out := make([][]float32, len(inputs))
			for i, in := range inputs {
				if v, ok := vecs[in]; ok {
					out[i] = v
				} else {
					out[i] = []float32{1, 0} // 查询向量
				}
			}
			return out, nil
		},
	}

	uc := NewSemanticSearchUseCase(repo, model, newFakeCache(), zap.NewNop())
	result, err := uc.Execute(context.Background(), SemanticSearchRequest{Query: "cyberpunk", TopK: 2})
	require.NoError(t, err)

	assert.Equal(t, SourceOpenAI, result.Source)
	assert.EqualValues(t, 3, result.Total)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Neuromancer", result.Items[0].Title)
}

// TestSemanticSearch_Fallback 测试模型禁用时退化为关键词检索
func TestSemanticSearch_Fallback(t *testing.T) {
	repo := &fakeBookRepo{books: testBooks()}
	uc := NewSemanticSearchUseCase(repo, &fakeModel{enabled: false}, newFakeCache(), zap.NewNop())

	result, err := uc.Execute(context.Background(), SemanticSearchRequest{Query: "dune", TopK: 10})
	require.NoError(t, err)

	assert.Equal(t, SourceFallback, result.Source)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Dune", result.Items[0].Title)
}

// TestSemanticSearch_ErrorFallsBack 测试embedding失败时降级
func TestSemanticSearch_ErrorFallsBack(t *testing.T) {
	repo := &fakeBookRepo{books: testBooks()}
	model := &fakeModel{enabled: true, err: errors.New("quota exceeded")}
	uc := NewSemanticSearchUseCase(repo, model, newFakeCache(), zap.NewNop())

	result, err := uc.Execute(context.Background(), SemanticSearchRequest{Query: "dune", TopK: 10})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, result.Source)
}

// TestSemanticSearch_EmptyCatalog 测试空馆藏
func TestSemanticSearch_EmptyCatalog(t *testing.T) {
	uc := NewSemanticSearchUseCase(&fakeBookRepo{}, &fakeModel{enabled: true, embedDim: 2}, newFakeCache(), zap.NewNop())

	result, err := uc.Execute(context.Background(), SemanticSearchRequest{Query: "anything", TopK: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.EqualValues(t, 0, result.Total)
}

// TestSemanticSearch_EmbeddingCache 测试图书向量缓存命中后只embedding查询文本
func TestSemanticSearch_EmbeddingCache(t *testing.T) {
	repo := &fakeBookRepo{books: testBooks()}
	cache := newFakeCache()

	var lastInputLen int
	model := &fakeModel{
		enabled: true,
		embedFn: func(inputs []string) ([][]float32, error) {
			lastInputLen = len(inputs)
			out := make([][]float32, len(inputs))
			for i := range inputs {
				out[i] = []float32{1, 0}
			}
			return out, nil
		},
	}

	uc := NewSemanticSearchUseCase(repo, model, cache, zap.NewNop())

	_, err := uc.Execute(context.Background(), SemanticSearchRequest{Query: "first", TopK: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, lastInputLen, "第一次:3本书+查询")

	_, err = uc.Execute(context.Background(), SemanticSearchRequest{Query: "second", TopK: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, lastInputLen, "第二次:全部命中缓存,只embedding查询")
}

// TestCosineSimilarity 测试余弦相似度
func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	// 零向量
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
