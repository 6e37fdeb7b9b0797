package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/user"
)

// UpdateRoleUseCase 角色更新用例(Admin)
type UpdateRoleUseCase struct {
	userService user.Service
}

// NewUpdateRoleUseCase 创建角色更新用例
func NewUpdateRoleUseCase(userService user.Service) *UpdateRoleUseCase {
	return &UpdateRoleUseCase{userService: userService}
}

// UpdateRoleRequest 角色更新请求DTO
type UpdateRoleRequest struct {
	UserID string
	Role   string
}

// Execute 执行角色更新用例
// 角色变更即时生效:认证中间件每次请求都从数据库取最新角色,
// 不依赖Token内嵌角色,无需等Token过期
func (uc *UpdateRoleUseCase) Execute(ctx context.Context, req UpdateRoleRequest) (*UserResponse, error) {
	u, err := uc.userService.UpdateRole(ctx, req.UserID, user.Role(req.Role))
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}
