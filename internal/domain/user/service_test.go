package user

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo 内存用户仓储,模拟邮箱唯一索引
type fakeRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*User
}

func newFakeRepo(users ...*User) *fakeRepo {
	r := &fakeRepo{users: make(map[string]*User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailDuplicate
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) FindByOAuth(ctx context.Context, provider, subject string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.OAuthProvider == provider && u.OAuthSubject == subject {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) List(ctx context.Context) ([]*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*User
	for _, u := range r.users {
		copied := *u
		all = append(all, &copied)
	}
	return all, nil
}

func (r *fakeRepo) UpdateRole(ctx context.Context, id string, role Role) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.Role = role
	copied := *u
	return &copied, nil
}

var testProfile = OAuthProfile{
	Provider: "google",
	Subject:  "sub-123",
	Email:    "alice@example.com",
	Name:     "Alice",
}

// TestGetOrCreate_New 测试首次登录创建MEMBER用户
func TestGetOrCreate_New(t *testing.T) {
	svc := NewService(newFakeRepo())

	u, err := svc.GetOrCreate(context.Background(), testProfile)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, RoleMember, u.Role)
	assert.Equal(t, "google", u.OAuthProvider)
	assert.Equal(t, "sub-123", u.OAuthSubject)
}

// TestGetOrCreate_Idempotent 测试同一身份多次登录命中同一用户
func TestGetOrCreate_Idempotent(t *testing.T) {
	svc := NewService(newFakeRepo())

	first, err := svc.GetOrCreate(context.Background(), testProfile)
	require.NoError(t, err)
	second, err := svc.GetOrCreate(context.Background(), testProfile)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

// TestGetOrCreate_LinkByEmail 测试种子账号按邮箱关联
// 预置的ADMIN账号没有OAuth身份,首次OAuth登录按邮箱匹配且保留原角色
func TestGetOrCreate_LinkByEmail(t *testing.T) {
	seeded := &User{
		ID:    "seed-1",
		Email: "alice@example.com",
		Name:  "Alice",
		Role:  RoleAdmin,
	}
	svc := NewService(newFakeRepo(seeded))

	u, err := svc.GetOrCreate(context.Background(), testProfile)
	require.NoError(t, err)

	assert.Equal(t, "seed-1", u.ID)
	assert.Equal(t, RoleAdmin, u.Role, "关联不改变既有角色")
}

// TestGetOrCreate_ConcurrentFirstLogin 测试并发首次登录不会重复建号
func TestGetOrCreate_ConcurrentFirstLogin(t *testing.T) {
	const concurrency = 20

	repo := newFakeRepo()
	svc := NewService(repo)

	var wg sync.WaitGroup
	ids := make([]string, concurrency)
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := svc.GetOrCreate(context.Background(), testProfile)
			if assert.NoError(t, err) {
				ids[i] = u.ID
			}
		}(i)
	}
	wg.Wait()

	// 全部请求拿到同一个用户
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// TestUpdateRole 测试角色更新
func TestUpdateRole(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	u, err := svc.GetOrCreate(context.Background(), testProfile)
	require.NoError(t, err)

	updated, err := svc.UpdateRole(context.Background(), u.ID, RoleLibrarian)
	require.NoError(t, err)
	assert.Equal(t, RoleLibrarian, updated.Role)

	// 非法角色被拒绝
	_, err = svc.UpdateRole(context.Background(), u.ID, Role("SUPERUSER"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	// 不存在的用户
	_, err = svc.UpdateRole(context.Background(), "missing", RoleMember)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
