package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// HTTPClient 拉取profile所需的最小HTTP接口（便于测试注入）
type HTTPClient interface {
	Get(url string) (*http.Response, error)
}

const (
	googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	githubUserURL     = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"
)

// fetchGoogleProfile 拉取Google userinfo
func fetchGoogleProfile(_ context.Context, client HTTPClient) (*user.OAuthProfile, error) {
	var info struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := getJSON(client, googleUserinfoURL, &info); err != nil {
		return nil, err
	}
	if info.Sub == "" || info.Email == "" {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "Google profile缺少必要字段")
	}

	name := info.Name
	if name == "" {
		// 没有姓名时用邮箱前缀兜底
		name = strings.SplitN(info.Email, "@", 2)[0]
	}

	return &user.OAuthProfile{
		Provider: ProviderGoogle,
		Subject:  info.Sub,
		Email:    info.Email,
		Name:     name,
	}, nil
}

// fetchGitHubProfile 拉取GitHub用户信息
// GitHub可能隐藏邮箱,此时回退到 /user/emails 找主要的已验证邮箱
func fetchGitHubProfile(_ context.Context, client HTTPClient) (*user.OAuthProfile, error) {
	var profile struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := getJSON(client, githubUserURL, &profile); err != nil {
		return nil, err
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}
	if name == "" {
		name = "GitHub User"
	}

	email := profile.Email
	if email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(client, githubEmailsURL, &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
		if email == "" {
			for _, e := range emails {
				if e.Verified {
					email = e.Email
					break
				}
			}
		}
		if email == "" {
			return nil, apperrors.New(apperrors.ErrCodeInvalidParams,
				"GitHub账号没有已验证的邮箱")
		}
	}

	return &user.OAuthProfile{
		Provider: ProviderGitHub,
		Subject:  fmt.Sprintf("%d", profile.ID),
		Email:    email,
		Name:     name,
	}, nil
}

// getJSON GET请求并解析JSON响应
func getJSON(client HTTPClient, url string, out interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return apperrors.Wrap(err, "拉取OAuth profile失败")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.New(apperrors.ErrCodeUnauthorized,
			fmt.Sprintf("OAuth provider返回状态 %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(err, "解析OAuth profile失败")
	}
	return nil
}
