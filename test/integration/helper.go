package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 这些测试需要一个完整运行的服务(Postgres + Redis + API):
//
//	LIBRARY_TEST_BASE_URL        服务地址,默认 http://localhost:8000
//	LIBRARY_TEST_LIBRARIAN_TOKEN 馆员Token(手动登录后取得)
//	LIBRARY_TEST_MEMBER_TOKEN    读者Token
//
// 服务不可达或Token未配置时测试自动跳过,不会误报失败

const healthTimeout = 2 * time.Second

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// BaseURL 服务基础地址
func BaseURL() string {
	if url := os.Getenv("LIBRARY_TEST_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:8000"
}

// APIBase API前缀
func APIBase() string {
	return BaseURL() + "/api/v1"
}

// RequireServer 服务不可达时跳过测试
func RequireServer(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: healthTimeout}
	resp, err := client.Get(BaseURL() + "/health")
	if err != nil {
		t.Skipf("服务不可达,跳过集成测试: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Skipf("健康检查返回%d,跳过集成测试", resp.StatusCode)
	}
}

// LibrarianToken 馆员Token,未配置时跳过
func LibrarianToken(t *testing.T) string {
	t.Helper()
	token := os.Getenv("LIBRARY_TEST_LIBRARIAN_TOKEN")
	if token == "" {
		t.Skip("未配置LIBRARY_TEST_LIBRARIAN_TOKEN,跳过")
	}
	return token
}

// MemberToken 读者Token,未配置时跳过
func MemberToken(t *testing.T) string {
	t.Helper()
	token := os.Getenv("LIBRARY_TEST_MEMBER_TOKEN")
	if token == "" {
		t.Skip("未配置LIBRARY_TEST_MEMBER_TOKEN,跳过")
	}
	return token
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// BookData 图书响应数据
type BookData struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Author string   `json:"author"`
	ISBN   *string  `json:"isbn"`
	Tags   []string `json:"tags"`
	Status string   `json:"status"`
}

// LoanData 借阅响应数据
type LoanData struct {
	ID           string  `json:"id"`
	BookID       string  `json:"book_id"`
	UserID       string  `json:"user_id"`
	Status       string  `json:"status"`
	CheckedOutAt string  `json:"checked_out_at"`
	ReturnedAt   *string `json:"returned_at"`
}

// DoJSON 发送请求并解析统一响应,返回HTTP状态码和响应体
func DoJSON(t *testing.T, method, url string, data interface{}, token string) (int, *Response) {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	// 204等无响应体的情况
	if len(raw) == 0 {
		return resp.StatusCode, &Response{}
	}

	var result Response
	require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	return resp.StatusCode, &result
}

// PostJSON 发送POST请求
func PostJSON(t *testing.T, url string, data interface{}, token string) (int, *Response) {
	return DoJSON(t, http.MethodPost, url, data, token)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string, token string) (int, *Response) {
	return DoJSON(t, http.MethodGet, url, nil, token)
}

// CreateTestBook 创建一本测试图书并返回数据
func CreateTestBook(t *testing.T, token string, title string) *BookData {
	t.Helper()
	status, resp := PostJSON(t, APIBase()+"/books", map[string]interface{}{
		"title":  title,
		"author": "Integration Test",
		"tags":   []string{"integration"},
	}, token)
	require.Equal(t, http.StatusCreated, status, "创建测试图书失败: %s", resp.Message)

	var data BookData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return &data
}
