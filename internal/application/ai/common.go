package ai

import (
	"context"
	"regexp"
	"strings"
)

// ModelClient 模型客户端接口
// 由应用层定义接口便于Mock测试,生产实现是infrastructure/ai.Client
type ModelClient interface {
	// Enabled 模型调用是否可用,false时直接走确定性降级路径
	Enabled() bool
	// ChatJSON JSON模式对话补全
	ChatJSON(ctx context.Context, system, prompt string) (string, error)
	// Chat 普通对话补全
	Chat(ctx context.Context, system, prompt string, maxTokens int) (string, error)
	// Embed 批量计算文本向量,返回顺序与输入一致
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// Cache AI结果缓存接口
// 生产实现是redis.AICache;缓存故障一律按未命中处理,不影响主流程
type Cache interface {
	GetEnrichment(ctx context.Context, hash string, out interface{}) (bool, error)
	SetEnrichment(ctx context.Context, hash string, result interface{})
	GetEmbedding(ctx context.Context, hash string) ([]float32, bool)
	SetEmbedding(ctx context.Context, hash string, vec []float32)
}

// 来源标记:响应中告知客户端结果出自模型还是降级启发式
const (
	SourceOpenAI   = "openai"
	SourceFallback = "fallback"
)

// stopwords 元数据生成停用词
// 过于常见的词做标签/关键词没有区分度
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "from": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "be": {}, "been": {}, "being": {}, "its": {},
	"this": {}, "that": {},
}

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// extractWords 提取候选词
// 小写、至少3个字母、去停用词、按出现顺序去重
func extractWords(text string, stop map[string]struct{}) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(raw))
	var result []string
	for _, w := range raw {
		if _, isStop := stop[w]; isStop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		result = append(result, w)
	}
	return result
}
