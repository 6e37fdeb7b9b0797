package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/xiebiao/library/internal/infrastructure/config"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Client OpenAI客户端封装
// 设计说明：
// 1. 未配置API Key时Enabled()为false,上层改走确定性降级路径
// 2. 封装三种调用:JSON模式补全(元数据生成)、普通补全(问答)、批量embedding(语义检索)
// 3. 所有provider错误统一包成ErrCodeAIProvider;上层捕获后降级,不会传到客户端
type Client struct {
	api   *openai.Client
	model string
}

const embeddingModel = openai.SmallEmbedding3 // text-embedding-3-small

// NewClient 根据配置创建客户端
// 禁用时返回的Client非nil但Enabled()为false,调用方无需判空
func NewClient(cfg *config.Config) *Client {
	c := &Client{model: cfg.AI.OpenAIModel}
	if cfg.AI.Provider == "openai" && cfg.AI.OpenAIAPIKey != "" {
		c.api = openai.NewClient(cfg.AI.OpenAIAPIKey)
	}
	return c
}

// Enabled 模型调用是否可用
func (c *Client) Enabled() bool {
	return c.api != nil
}

// ChatJSON JSON模式的对话补全(响应保证是合法JSON对象)
func (c *Client) ChatJSON(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
		MaxTokens:   300,
	})
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeAIProvider, "AI服务调用失败").WithErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.ErrCodeAIProvider, "AI服务返回空响应")
	}
	return resp.Choices[0].Message.Content, nil
}

// Chat 普通对话补全
func (c *Client) Chat(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeAIProvider, "AI服务调用失败").WithErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.ErrCodeAIProvider, "AI服务返回空响应")
	}
	return resp.Choices[0].Message.Content, nil
}

// Embed 批量计算文本向量,返回顺序与输入一致
func (c *Client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: embeddingModel,
		Input: inputs,
	})
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeAIProvider, "embedding计算失败").WithErr(err)
	}
	if len(resp.Data) != len(inputs) {
		return nil, apperrors.New(apperrors.ErrCodeAIProvider, "embedding数量与输入不一致")
	}

	vecs := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}
