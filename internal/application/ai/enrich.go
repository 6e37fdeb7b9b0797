package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
)

// EnrichUseCase 元数据生成用例
// 模型可用时调用模型生成,不可用或调用失败时降级为确定性启发式
// 同样输入的结果进Redis缓存,重复请求不再消耗模型配额
type EnrichUseCase struct {
	model  ModelClient
	cache  Cache
	logger *zap.Logger
}

// NewEnrichUseCase 创建元数据生成用例
func NewEnrichUseCase(model ModelClient, cache Cache, logger *zap.Logger) *EnrichUseCase {
	return &EnrichUseCase{
		model:  model,
		cache:  cache,
		logger: logger,
	}
}

// EnrichRequest 元数据生成请求DTO
type EnrichRequest struct {
	Title       string
	Author      string
	Description *string
}

// EnrichResponse 元数据生成响应DTO
type EnrichResponse struct {
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags"`
	Keywords []string `json:"keywords"`
	Source   string   `json:"source"` // openai | fallback
}

// Execute 执行元数据生成用例
// 降级路径永不失败:无论模型状态如何,接口总能返回结果
func (uc *EnrichUseCase) Execute(ctx context.Context, req EnrichRequest) (*EnrichResponse, error) {
	desc := ""
	if req.Description != nil {
		desc = *req.Description
	}
	hash := redis.HashKey("enrich", req.Title, req.Author, desc)

	var cached EnrichResponse
	if hit, _ := uc.cache.GetEnrichment(ctx, hash, &cached); hit {
		return &cached, nil
	}

	if !uc.model.Enabled() {
		result := uc.fallback(req)
		uc.cache.SetEnrichment(ctx, hash, result)
		return result, nil
	}

	result, err := uc.enrichWithModel(ctx, req)
	if err != nil {
		uc.logger.Warn("元数据生成失败,使用降级启发式", zap.Error(err))
		result = uc.fallback(req)
	}
	uc.cache.SetEnrichment(ctx, hash, result)
	return result, nil
}

// enrichWithModel 模型生成路径
func (uc *EnrichUseCase) enrichWithModel(ctx context.Context, req EnrichRequest) (*EnrichResponse, error) {
	descPart := ""
	if req.Description != nil && *req.Description != "" {
		descPart = "\nDescription: " + *req.Description
	}
	prompt := fmt.Sprintf(
		"Generate library metadata for this book.\nTitle: %s\nAuthor: %s%s\n\n"+
			`Return JSON with exactly these keys: "summary" (string, 1-2 sentences), `+
			`"tags" (array of 3-5 lowercase strings), `+
			`"keywords" (array of 5-8 search-term strings).`,
		req.Title, req.Author, descPart,
	)
	system := "You are a library metadata specialist. " +
		"Generate accurate, concise metadata. " +
		"Respond with valid JSON only."

	raw, err := uc.model.ChatJSON(ctx, system, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Summary  string   `json:"summary"`
		Tags     []string `json:"tags"`
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("解析模型响应失败: %w", err)
	}
	if parsed.Summary == "" {
		parsed.Summary = fmt.Sprintf("A book by %s titled '%s'.", req.Author, req.Title)
	}
	if parsed.Tags == nil {
		parsed.Tags = []string{}
	}
	if parsed.Keywords == nil {
		parsed.Keywords = []string{}
	}

	return &EnrichResponse{
		Summary:  parsed.Summary,
		Tags:     parsed.Tags,
		Keywords: parsed.Keywords,
		Source:   SourceOpenAI,
	}, nil
}

// fallback 确定性启发式
// 不依赖外部服务,相同输入必然产出相同结果
func (uc *EnrichUseCase) fallback(req EnrichRequest) *EnrichResponse {
	// 摘要:有描述用描述(补齐句号),否则拼一句通用描述
	var summary string
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		summary = strings.TrimSpace(*req.Description)
		if !strings.HasSuffix(summary, ".") && !strings.HasSuffix(summary, "!") && !strings.HasSuffix(summary, "?") {
			summary += "."
		}
	} else {
		summary = fmt.Sprintf("A book by %s titled '%s'.", req.Author, req.Title)
	}

	// 标签:标题+作者里的前5个候选词
	tags := extractWords(req.Title+" "+req.Author, stopwords)
	if len(tags) > 5 {
		tags = tags[:5]
	}
	if tags == nil {
		tags = []string{}
	}

	// 关键词:标题前6个候选词,再补作者姓氏,总数不超过7
	keywords := extractWords(req.Title, stopwords)
	if len(keywords) > 6 {
		keywords = keywords[:6]
	}
	if parts := strings.Fields(strings.TrimSpace(req.Author)); len(parts) > 0 {
		last := strings.ToLower(parts[len(parts)-1])
		_, isStop := stopwords[last]
		if !isStop && len(last) >= 3 && !contains(keywords, last) {
			keywords = append(keywords, last)
		}
	}
	if len(keywords) > 7 {
		keywords = keywords[:7]
	}
	if keywords == nil {
		keywords = []string{}
	}

	return &EnrichResponse{
		Summary:  summary,
		Tags:     tags,
		Keywords: keywords,
		Source:   SourceFallback,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
