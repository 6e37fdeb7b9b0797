package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/pkg/jwt"
)

// LoginUseCase OAuth登录用例
// 回调验证通过后执行:外部身份断言换取本地用户并签发Token
type LoginUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(userService user.Service, jwtManager *jwt.Manager) *LoginUseCase {
	return &LoginUseCase{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

// LoginResponse 登录响应DTO
type LoginResponse struct {
	Token string        `json:"access_token"`
	Type  string        `json:"token_type"`
	User  *UserResponse `json:"user"`
}

// UserResponse 用户响应DTO
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Execute 执行登录用例
// get-or-create语义:同一外部身份多次登录命中同一用户,不会重复建号
func (uc *LoginUseCase) Execute(ctx context.Context, profile user.OAuthProfile) (*LoginResponse, error) {
	u, err := uc.userService.GetOrCreate(ctx, profile)
	if err != nil {
		return nil, err
	}

	token, err := uc.jwtManager.GenerateToken(u.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token: token,
		Type:  "bearer",
		User:  ToUserResponse(u),
	}, nil
}

// ToUserResponse 实体转响应DTO
func ToUserResponse(u *user.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: formatTime(u.CreatedAt),
	}
}
