package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestAsk_FallbackListsRelevantBooks 测试降级回答列出检索结果
func TestAsk_FallbackListsRelevantBooks(t *testing.T) {
	repo := &fakeBookRepo{books: testBooks()}
	uc := NewAskUseCase(repo, &fakeModel{enabled: false}, zap.NewNop())

	result, err := uc.Execute(context.Background(), AskRequest{
		Question: "Do you have any books about Dune?",
	})
	require.NoError(t, err)

	assert.Equal(t, SourceFallback, result.Source)
	assert.Contains(t, result.Answer, "Based on our library catalog")
	assert.Contains(t, result.Answer, "Dune")
	require.Len(t, result.Books, 1)
	assert.Equal(t, "Dune", result.Books[0].Title)
}

// TestAsk_FallbackNoMatches 测试无命中的降级回答
func TestAsk_FallbackNoMatches(t *testing.T) {
	repo := &fakeBookRepo{books: testBooks()}
	uc := NewAskUseCase(repo, &fakeModel{enabled: false}, zap.NewNop())

	result, err := uc.Execute(context.Background(), AskRequest{
		Question: "quantum thermodynamics textbooks?",
	})
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "couldn't find any books")
	assert.Empty(t, result.Books)
}

// TestAsk_StatusLabels 测试降级回答标注在借状态
func TestAsk_StatusLabels(t *testing.T) {
	repo := &fakeBookRepo{books: testBooks()}
	uc := NewAskUseCase(repo, &fakeModel{enabled: false}, zap.NewNop())

	result, err := uc.Execute(context.Background(), AskRequest{
		Question: "Pride and Prejudice by Austen?",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Answer, "Currently borrowed")
}

// TestAsk_ModelGrounded 测试模型路径的上下文包含检索结果
func TestAsk_ModelGrounded(t *testing.T) {
	repo := &fakeBookRepo{books: testBooks()}
	model := &fakeModel{enabled: true, chatReply: "We have Dune by Frank Herbert."}
	uc := NewAskUseCase(repo, model, zap.NewNop())

	result, err := uc.Execute(context.Background(), AskRequest{
		Question: "Tell me about Dune",
	})
	require.NoError(t, err)

	assert.Equal(t, SourceOpenAI, result.Source)
	assert.Equal(t, "We have Dune by Frank Herbert.", result.Answer)
	// 回答引用的馆藏随响应返回
	require.Len(t, result.Books, 1)
	assert.Equal(t, "Dune", result.Books[0].Title)
}

// TestAsk_ModelErrorFallsBack 测试模型出错时降级
func TestAsk_ModelErrorFallsBack(t *testing.T) {
	repo := &fakeBookRepo{books: testBooks()}
	model := &fakeModel{enabled: true, err: errors.New("timeout")}
	uc := NewAskUseCase(repo, model, zap.NewNop())

	result, err := uc.Execute(context.Background(), AskRequest{Question: "Tell me about Dune"})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, result.Source)
}

// TestBuildCatalogContext 测试模型上下文格式
func TestBuildCatalogContext(t *testing.T) {
	books := testBooks()
	ctx := buildCatalogContext(books)

	lines := strings.Split(ctx, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `1. "Dune" by Frank Herbert`)
	assert.Contains(t, lines[0], "[tags: sci-fi]")
	assert.Contains(t, lines[0], "(n/a)")
	assert.Contains(t, lines[1], "[Borrowed]")

	assert.Equal(t, "No relevant books found in the catalog.", buildCatalogContext(nil))
}

// TestTruncate 测试摘录截断按码点进行
func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde", truncate("abcdefgh", 5))

	// 多字节字符不能被截成半个,结果必须仍是合法UTF-8
	got := truncate("基地系列是阿西莫夫的科幻经典", 4)
	assert.Equal(t, "基地系列", got)
	assert.True(t, utf8.ValidString(got))

	mixed := truncate("Dune 沙丘 by Frank Herbert", 7)
	assert.Equal(t, "Dune 沙丘", mixed)
	assert.True(t, utf8.ValidString(mixed))
}

// TestExtractWords 测试问句关键词提取
func TestExtractWords(t *testing.T) {
	words := extractWords("What books do you have about space exploration?", chatStopwords)
	assert.Equal(t, []string{"space", "exploration"}, words)

	// 全是停用词时返回空
	assert.Empty(t, extractWords("What do you have?", chatStopwords))
}
