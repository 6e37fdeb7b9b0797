package user

import (
	"context"
	"errors"
)

// Service 用户领域服务接口
type Service interface {
	// GetOrCreate 外部身份断言换取用户记录
	// 查找顺序:
	// 1. (provider, subject) 最可靠
	// 2. 邮箱:将种子/既有账号关联到首次OAuth登录
	// 3. 都没有则创建MEMBER新用户
	// 并发安全：两个首次登录同时创建时，第二个插入会撞唯一索引，
	// 此时捕获冲突并重新查询返回已存在的记录
	GetOrCreate(ctx context.Context, profile OAuthProfile) (*User, error)

	// List 查询全部用户（Admin）
	List(ctx context.Context) ([]*User, error)

	// UpdateRole 更新用户角色（Admin）
	UpdateRole(ctx context.Context, id string, role Role) (*User, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建用户领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// GetOrCreate 外部身份断言换取用户记录
func (s *service) GetOrCreate(ctx context.Context, profile OAuthProfile) (*User, error) {
	// 1. 按(provider, subject)查找
	u, err := s.repo.FindByOAuth(ctx, profile.Provider, profile.Subject)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	// 2. 按邮箱查找（关联种子账号）
	u, err = s.repo.FindByEmail(ctx, profile.Email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	// 3. 创建新用户
	u = NewUser(profile)
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailDuplicate) {
			// 并发首次登录：另一个请求抢先插入，重查返回它的结果
			return s.refetch(ctx, profile)
		}
		return nil, err
	}
	return u, nil
}

// refetch 唯一索引冲突后重新查询
func (s *service) refetch(ctx context.Context, profile OAuthProfile) (*User, error) {
	if u, err := s.repo.FindByOAuth(ctx, profile.Provider, profile.Subject); err == nil {
		return u, nil
	}
	return s.repo.FindByEmail(ctx, profile.Email)
}

// List 查询全部用户
func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// UpdateRole 更新用户角色
func (s *service) UpdateRole(ctx context.Context, id string, role Role) (*User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return s.repo.UpdateRole(ctx, id, role)
}
