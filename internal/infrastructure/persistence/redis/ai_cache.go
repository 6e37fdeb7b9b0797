package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AICache AI结果缓存
// 设计说明：
// 1. 元数据生成结果按输入哈希缓存,同一本书重复enrich不再调模型
// 2. 图书embedding按文本哈希缓存,语义检索只为新增/变更的书计费
// 3. 缓存读写失败一律静默降级为未命中,缓存不可用不能影响主流程
type AICache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAICache 创建AI缓存
func NewAICache(client *redis.Client, ttl time.Duration) *AICache {
	return &AICache{client: client, ttl: ttl}
}

// HashKey 计算输入文本的缓存键哈希
func HashKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GetEnrichment 读取缓存的元数据生成结果
// 未命中返回(false, nil)
func (c *AICache) GetEnrichment(ctx context.Context, hash string, out interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, enrichKey(hash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, nil // 缓存故障按未命中处理
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, nil
	}
	return true, nil
}

// SetEnrichment 写入元数据生成结果
func (c *AICache) SetEnrichment(ctx context.Context, hash string, result interface{}) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.client.Set(ctx, enrichKey(hash), raw, c.ttl)
}

// GetEmbedding 读取缓存的文本向量
func (c *AICache) GetEmbedding(ctx context.Context, hash string) ([]float32, bool) {
	raw, err := c.client.Get(ctx, embeddingKey(hash)).Bytes()
	if err != nil {
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, false
	}
	return vec, true
}

// SetEmbedding 写入文本向量
func (c *AICache) SetEmbedding(ctx context.Context, hash string, vec []float32) {
	raw, err := json.Marshal(vec)
	if err != nil {
		return
	}
	c.client.Set(ctx, embeddingKey(hash), raw, c.ttl)
}

func enrichKey(hash string) string {
	return fmt.Sprintf("ai:enrich:%s", hash)
}

func embeddingKey(hash string) string {
	return fmt.Sprintf("ai:embedding:%s", hash)
}
