package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 支持的提供商全集（配置决定其中哪些实际启用）
const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// KnownProvider 判断是否为受支持的提供商名
func KnownProvider(name string) bool {
	return name == ProviderGoogle || name == ProviderGitHub
}

// Provider 一个已启用的OAuth提供商
type Provider struct {
	Name   string
	Config *oauth2.Config
	// fetchProfile 用授权后的HTTP客户端拉取用户profile
	fetchProfile func(ctx context.Context, client HTTPClient) (*user.OAuthProfile, error)
}

// Registry 启用的提供商集合
// 设计说明：进程启动时根据配置构建一次,之后只读:
// 路由和处理器显式持有它,不查全局状态
type Registry struct {
	providers map[string]*Provider
}

// NewRegistry 根据配置构建提供商注册表
// 只有client_id和client_secret都配置的提供商才会注册
func NewRegistry(cfg *config.Config) *Registry {
	providers := make(map[string]*Provider)
	callback := func(name string) string {
		return fmt.Sprintf("%s/api/v1/auth/callback/%s", cfg.OAuth.BackendURL, name)
	}

	if cfg.OAuth.Google.Enabled() {
		providers[ProviderGoogle] = &Provider{
			Name: ProviderGoogle,
			Config: &oauth2.Config{
				ClientID:     cfg.OAuth.Google.ClientID,
				ClientSecret: cfg.OAuth.Google.ClientSecret,
				Endpoint:     google.Endpoint,
				RedirectURL:  callback(ProviderGoogle),
				Scopes:       []string{"openid", "email", "profile"},
			},
			fetchProfile: fetchGoogleProfile,
		}
	}

	if cfg.OAuth.GitHub.Enabled() {
		providers[ProviderGitHub] = &Provider{
			Name: ProviderGitHub,
			Config: &oauth2.Config{
				ClientID:     cfg.OAuth.GitHub.ClientID,
				ClientSecret: cfg.OAuth.GitHub.ClientSecret,
				Endpoint:     github.Endpoint,
				RedirectURL:  callback(ProviderGitHub),
				Scopes:       []string{"read:user", "user:email"},
			},
			fetchProfile: fetchGitHubProfile,
		}
	}

	return &Registry{providers: providers}
}

// Get 按名称获取已启用的提供商
// 未知名称 → 参数错误;已知但未配置 → 服务不可用
func (r *Registry) Get(name string) (*Provider, error) {
	if !KnownProvider(name) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams,
			fmt.Sprintf("不支持的登录提供商: %s", name))
	}
	p, ok := r.providers[name]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeProviderDisabled,
			fmt.Sprintf("登录提供商 %s 未在本服务配置", name))
	}
	return p, nil
}

// Names 返回启用的提供商名列表
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// AuthCodeURL 生成授权跳转地址
func (p *Provider) AuthCodeURL(state string) string {
	return p.Config.AuthCodeURL(state)
}

// Exchange 用授权码换取token并拉取用户profile
func (p *Provider) Exchange(ctx context.Context, code string) (*user.OAuthProfile, error) {
	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "OAuth授权码交换失败")
	}
	return p.fetchProfile(ctx, p.Config.Client(ctx, token))
}
