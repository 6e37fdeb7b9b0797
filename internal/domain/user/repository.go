package user

import (
	"context"
)

// Repository 用户仓储接口（依赖倒置原则）
// 由domain层定义接口，infrastructure层实现，便于Mock测试
type Repository interface {
	// Create 创建用户
	// 邮箱或(provider, subject)唯一索引冲突时返回ErrEmailDuplicate
	Create(ctx context.Context, u *User) error

	// FindByID 根据ID查找用户
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail 根据邮箱查找用户
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByOAuth 根据(provider, subject)查找用户
	FindByOAuth(ctx context.Context, provider, subject string) (*User, error)

	// List 查询全部用户，按创建时间升序
	List(ctx context.Context) ([]*User, error)

	// UpdateRole 更新用户角色
	UpdateRole(ctx context.Context, id string, role Role) (*User, error)
}
