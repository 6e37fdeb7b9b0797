package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/response"
)

// currentUserKey Context中当前用户的键
const currentUserKey = "current_user"

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token并验证
// 2. Token里只有用户ID,角色每次请求都从数据库取最新值
//    Admin改了谁的角色,下一个请求立刻生效,不用等Token过期
// 3. 将用户实体注入Context供Handler使用
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	userRepo   user.Repository
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, userRepo user.Repository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		userRepo:   userRepo,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从Header提取Token
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		// 2. 验证Token并解析Claims
		claims, err := m.jwtManager.ParseToken(parts[1])
		if err != nil {
			response.Error(c, err) // 自动处理ErrTokenExpired、ErrInvalidToken
			c.Abort()
			return
		}

		// 3. 按ID加载用户
		// 用户被删除时Token虽然还没过期也一律按未授权处理
		u, err := m.userRepo.FindByID(c.Request.Context(), claims.Subject)
		if err != nil {
			response.Error(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		// 4. 将用户实体注入Context
		c.Set(currentUserKey, u)
		c.Next()
	}
}

// RequireRoles 要求指定角色之一
// 必须在RequireAuth之后使用
func (m *AuthMiddleware) RequireRoles(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		for _, role := range roles {
			if u.Role == role {
				c.Next()
				return
			}
		}
		response.Error(c, apperrors.ErrForbidden)
		c.Abort()
	}
}

// CurrentUser 从Context获取当前登录用户,未登录返回nil
func CurrentUser(c *gin.Context) *user.User {
	if v, exists := c.Get(currentUserKey); exists {
		if u, ok := v.(*user.User); ok {
			return u
		}
	}
	return nil
}

// MustCurrentUser 从Context获取当前登录用户(不存在则panic)
// 用于已经通过RequireAuth中间件的Handler
func MustCurrentUser(c *gin.Context) *user.User {
	u := CurrentUser(c)
	if u == nil {
		panic("current user not found in context")
	}
	return u
}
