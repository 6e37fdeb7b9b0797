package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// StateStore OAuth state存储
// 设计说明：
// 1. 登录跳转前生成一次性随机state,带TTL存入Redis
// 2. 回调时Consume原子地取出并删除（GETDEL）,每个state只能用一次
// 3. 伪造或过期的state取不到值,回调按未授权处理,防止登录CSRF
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore 创建state存储
func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	return &StateStore{client: client, ttl: ttl}
}

// Issue 生成并保存一个新state,值为目标提供商名
func (s *StateStore) Issue(ctx context.Context, provider string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", apperrors.Wrap(err, "生成state失败")
	}
	state := hex.EncodeToString(buf)

	key := stateKey(state)
	if err := s.client.Set(ctx, key, provider, s.ttl).Err(); err != nil {
		return "", apperrors.Wrap(err, "保存state失败")
	}
	return state, nil
}

// Consume 取出并删除state,校验其绑定的提供商
// state不存在/已过期/提供商不匹配都返回ErrInvalidState
func (s *StateStore) Consume(ctx context.Context, state, provider string) error {
	val, err := s.client.GetDel(ctx, stateKey(state)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrInvalidState
		}
		return apperrors.Wrap(err, "校验state失败")
	}
	if val != provider {
		return apperrors.ErrInvalidState
	}
	return nil
}

func stateKey(state string) string {
	return fmt.Sprintf("oauth:state:%s", state)
}
