package ai

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
)

// SemanticSearchUseCase 语义检索用例
// 模型路径:全量图书embedding + 查询embedding,按余弦相似度排序取top-k
// 降级路径:普通关键词检索(与图书列表的q参数等价)
//
// 馆藏规模预期在几千册以内,全量embedding可以进内存
// 单本书的向量按其文本表示哈希缓存进Redis,图书不变就不重复计算
type SemanticSearchUseCase struct {
	bookRepo book.Repository
	model    ModelClient
	cache    Cache
	logger   *zap.Logger
}

// NewSemanticSearchUseCase 创建语义检索用例
func NewSemanticSearchUseCase(
	bookRepo book.Repository,
	model ModelClient,
	cache Cache,
	logger *zap.Logger,
) *SemanticSearchUseCase {
	return &SemanticSearchUseCase{
		bookRepo: bookRepo,
		model:    model,
		cache:    cache,
		logger:   logger,
	}
}

// SemanticSearchRequest 语义检索请求DTO
type SemanticSearchRequest struct {
	Query string
	TopK  int
}

// SemanticSearchResponse 语义检索响应DTO
type SemanticSearchResponse struct {
	Items  []*appbook.BookResponse `json:"items"`
	Total  int64                   `json:"total"`
	Source string                  `json:"source"` // openai | fallback
	Query  string                  `json:"query"`
}

// Execute 执行语义检索用例
func (uc *SemanticSearchUseCase) Execute(ctx context.Context, req SemanticSearchRequest) (*SemanticSearchResponse, error) {
	if !uc.model.Enabled() {
		return uc.fallbackSearch(ctx, req)
	}

	resp, err := uc.embeddingSearch(ctx, req)
	if err != nil {
		uc.logger.Warn("语义检索失败,使用关键词降级", zap.Error(err))
		return uc.fallbackSearch(ctx, req)
	}
	return resp, nil
}

// embeddingSearch 向量检索路径
func (uc *SemanticSearchUseCase) embeddingSearch(ctx context.Context, req SemanticSearchRequest) (*SemanticSearchResponse, error) {
	books, err := uc.bookRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return &SemanticSearchResponse{
			Items:  []*appbook.BookResponse{},
			Total:  0,
			Source: SourceOpenAI,
			Query:  req.Query,
		}, nil
	}

	// 逐本书查缓存,未命中的和查询文本拼成一次批量embedding调用
	vecs := make([][]float32, len(books))
	hashes := make([]string, len(books))
	var missTexts []string
	var missIdx []int
	for i, b := range books {
		text := b.EmbeddingText()
		hashes[i] = redis.HashKey("embed", text)
		if vec, hit := uc.cache.GetEmbedding(ctx, hashes[i]); hit {
			vecs[i] = vec
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	inputs := append(missTexts, req.Query)
	embedded, err := uc.model.Embed(ctx, inputs)
	if err != nil {
		return nil, err
	}
	queryVec := embedded[len(embedded)-1]
	for j, i := range missIdx {
		vecs[i] = embedded[j]
		uc.cache.SetEmbedding(ctx, hashes[i], vecs[i])
	}

	// 按相似度降序,相同分数保持原顺序
	type scored struct {
		b     *book.Book
		score float64
	}
	ranked := make([]scored, len(books))
	for i, b := range books {
		ranked[i] = scored{b: b, score: cosineSimilarity(queryVec, vecs[i])}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	topK := req.TopK
	if topK > len(ranked) {
		topK = len(ranked)
	}
	items := make([]*appbook.BookResponse, topK)
	for i := 0; i < topK; i++ {
		items[i] = appbook.ToBookResponse(ranked[i].b)
	}

	return &SemanticSearchResponse{
		Items:  items,
		Total:  int64(len(books)),
		Source: SourceOpenAI,
		Query:  req.Query,
	}, nil
}

// fallbackSearch 关键词降级路径
func (uc *SemanticSearchUseCase) fallbackSearch(ctx context.Context, req SemanticSearchRequest) (*SemanticSearchResponse, error) {
	books, total, err := uc.bookRepo.List(ctx, book.ListParams{
		Query:    req.Query,
		Page:     1,
		PageSize: req.TopK,
	})
	if err != nil {
		return nil, err
	}

	items := make([]*appbook.BookResponse, len(books))
	for i, b := range books {
		items[i] = appbook.ToBookResponse(b)
	}
	return &SemanticSearchResponse{
		Items:  items,
		Total:  total,
		Source: SourceFallback,
		Query:  req.Query,
	}, nil
}

// cosineSimilarity 余弦相似度,零向量返回0
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
