package user

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/user"
)

// ListUsersUseCase 用户列表用例(Admin)
type ListUsersUseCase struct {
	userService user.Service
}

// NewListUsersUseCase 创建用户列表用例
func NewListUsersUseCase(userService user.Service) *ListUsersUseCase {
	return &ListUsersUseCase{userService: userService}
}

// Execute 执行用户列表用例,按注册时间升序
func (uc *ListUsersUseCase) Execute(ctx context.Context) ([]*UserResponse, error) {
	users, err := uc.userService.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*UserResponse, len(users))
	for i, u := range users {
		items[i] = ToUserResponse(u)
	}
	return items, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
