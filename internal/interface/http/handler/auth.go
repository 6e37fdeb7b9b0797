package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/oauth"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// AuthHandler 认证HTTP处理器
// 登录流程:
// 1. GET /auth/login/:provider 签发state并302到提供商授权页
// 2. 提供商回调 GET /auth/callback/:provider,验证state、换Token、get-or-create用户
// 3. 配置了前端地址时302回前端并携带token,否则直接返回JSON
type AuthHandler struct {
	registry     *oauth.Registry
	stateStore   *redis.StateStore
	loginUseCase *appuser.LoginUseCase
	frontendURL  string
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	registry *oauth.Registry,
	stateStore *redis.StateStore,
	loginUseCase *appuser.LoginUseCase,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		registry:     registry,
		stateStore:   stateStore,
		loginUseCase: loginUseCase,
		frontendURL:  cfg.OAuth.FrontendURL,
	}
}

// Login 发起OAuth登录
// @Summary      发起OAuth登录
// @Description  签发一次性state并重定向到提供商授权页
// @Tags         认证
// @Param        provider path string true "提供商" Enums(google, github)
// @Success      302
// @Failure      422 {object} response.Response "未知的提供商"
// @Failure      503 {object} response.Response "提供商未配置"
// @Router       /api/v1/auth/login/{provider} [get]
func (h *AuthHandler) Login(c *gin.Context) {
	provider, err := h.registry.Get(c.Param("provider"))
	if err != nil {
		response.Error(c, err)
		return
	}

	// state是一次性随机值,防CSRF和授权码注入
	state, err := h.stateStore.Issue(c.Request.Context(), provider.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// Callback OAuth回调
// @Summary      OAuth回调
// @Description  验证state、交换授权码并签发本地Token
// @Tags         认证
// @Param        provider path string true "提供商" Enums(google, github)
// @Param        code query string true "授权码"
// @Param        state query string true "state随机值"
// @Success      200 {object} response.Response{data=appuser.LoginResponse}
// @Failure      401 {object} response.Response "state校验失败"
// @Failure      422 {object} response.Response "未知的提供商"
// @Router       /api/v1/auth/callback/{provider} [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	provider, err := h.registry.Get(c.Param("provider"))
	if err != nil {
		response.Error(c, err)
		return
	}

	// state必须先验证再交换授权码
	state := c.Query("state")
	if err := h.stateStore.Consume(c.Request.Context(), state, provider.Name); err != nil {
		response.Error(c, err)
		return
	}

	profile, err := provider.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), *profile)
	if err != nil {
		response.Error(c, err)
		return
	}

	// SPA部署场景:带着token跳回前端,由前端存储并发起后续请求
	if h.frontendURL != "" {
		redirect := h.frontendURL + "/auth/callback?token=" + url.QueryEscape(result.Token)
		c.Redirect(http.StatusFound, redirect)
		return
	}

	response.Success(c, result)
}

// Me 当前用户信息
// @Summary      当前用户信息
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.UserResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	u := middleware.MustCurrentUser(c)
	response.Success(c, appuser.ToUserResponse(u))
}
