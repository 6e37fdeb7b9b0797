package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/domain/book"
)

// maxContextBooks 送进模型上下文的馆藏条目上限
const maxContextBooks = 20

// chatStopwords 问句停用词
// 疑问词和口语填充词对馆藏检索没有区分度
var chatStopwords = map[string]struct{}{
	"what": {}, "which": {}, "where": {}, "when": {}, "who": {}, "how": {},
	"can": {}, "you": {}, "are": {}, "the": {}, "and": {}, "have": {},
	"has": {}, "for": {}, "that": {}, "with": {}, "your": {}, "this": {},
	"those": {}, "tell": {}, "list": {}, "show": {}, "give": {}, "find": {},
	"about": {}, "any": {}, "all": {}, "book": {}, "books": {}, "look": {},
	"like": {}, "want": {}, "need": {}, "does": {}, "did": {}, "was": {},
	"were": {}, "its": {}, "from": {}, "not": {}, "but": {}, "into": {},
}

// AskUseCase 馆藏问答用例
// 先检索后回答:模型只能看到检索出的真实馆藏,从根上杜绝编造书目
// 降级路径:不调模型,直接返回格式化的馆藏摘录
type AskUseCase struct {
	bookRepo book.Repository
	model    ModelClient
	logger   *zap.Logger
}

// NewAskUseCase 创建馆藏问答用例
func NewAskUseCase(bookRepo book.Repository, model ModelClient, logger *zap.Logger) *AskUseCase {
	return &AskUseCase{
		bookRepo: bookRepo,
		model:    model,
		logger:   logger,
	}
}

// AskRequest 问答请求DTO
type AskRequest struct {
	Question string
}

// AskResponse 问答响应DTO
// Books是本次回答引用的馆藏上下文,客户端可据此跳转详情
type AskResponse struct {
	Answer string                  `json:"answer"`
	Books  []*appbook.BookResponse `json:"books"`
	Source string                  `json:"source"` // openai | fallback
}

// Execute 执行问答用例
// 检索永远先于回答,无论走模型路径还是降级路径
func (uc *AskUseCase) Execute(ctx context.Context, req AskRequest) (*AskResponse, error) {
	books, err := uc.retrieve(ctx, req.Question)
	if err != nil {
		return nil, err
	}

	if !uc.model.Enabled() {
		return uc.fallbackAnswer(books), nil
	}

	resp, err := uc.modelAnswer(ctx, req.Question, books)
	if err != nil {
		uc.logger.Warn("馆藏问答失败,使用降级回答", zap.Error(err))
		return uc.fallbackAnswer(books), nil
	}
	return resp, nil
}

// retrieve 从问句提取关键词并检索馆藏
// 提取不到关键词时用最近入馆的图书作为上下文
func (uc *AskUseCase) retrieve(ctx context.Context, question string) ([]*book.Book, error) {
	keywords := extractWords(question, chatStopwords)
	return uc.bookRepo.FindByKeywords(ctx, keywords, maxContextBooks)
}

// modelAnswer 模型回答路径
func (uc *AskUseCase) modelAnswer(ctx context.Context, question string, books []*book.Book) (*AskResponse, error) {
	system := "You are a helpful library assistant. " +
		"You MUST answer using ONLY the books listed in the catalog below. " +
		"Do NOT mention, recommend, or reference any book not in this list. " +
		"If the question cannot be answered from the catalog, say so clearly. " +
		"Be concise and friendly.\n\n" +
		"Library Catalog (relevant results):\n" + buildCatalogContext(books)

	answer, err := uc.model.Chat(ctx, system, question, 500)
	if err != nil {
		return nil, err
	}

	return &AskResponse{
		Answer: strings.TrimSpace(answer),
		Books:  toBookResponses(books),
		Source: SourceOpenAI,
	}, nil
}

// fallbackAnswer 降级回答:格式化的馆藏摘录,最多列10条
func (uc *AskUseCase) fallbackAnswer(books []*book.Book) *AskResponse {
	if len(books) == 0 {
		return &AskResponse{
			Answer: "I couldn't find any books in our catalog relevant to your question. " +
				"Try browsing the full catalog at GET /api/v1/books.",
			Books:  []*appbook.BookResponse{},
			Source: SourceFallback,
		}
	}

	lines := []string{"Based on our library catalog, here are the most relevant results:"}
	for i, b := range books {
		if i >= 10 {
			break
		}
		statusLabel := "Available"
		if b.Status != book.StatusAvailable {
			statusLabel = "Currently borrowed"
		}
		descPart := ""
		if b.Description != nil && *b.Description != "" {
			descPart = fmt.Sprintf(" — %s...", truncate(*b.Description, 80))
		}
		lines = append(lines, fmt.Sprintf("%d. %q by %s [%s]%s", i+1, b.Title, b.Author, statusLabel, descPart))
	}

	return &AskResponse{
		Answer: strings.Join(lines, "\n"),
		Books:  toBookResponses(books),
		Source: SourceFallback,
	}
}

// buildCatalogContext 为模型拼接编号的馆藏清单
func buildCatalogContext(books []*book.Book) string {
	if len(books) == 0 {
		return "No relevant books found in the catalog."
	}
	var lines []string
	for i, b := range books {
		statusLabel := "Available"
		if b.Status != book.StatusAvailable {
			statusLabel = "Borrowed"
		}
		year := "n/a"
		if b.PublishedYear != nil {
			year = fmt.Sprintf("%d", *b.PublishedYear)
		}
		descPart := ""
		if b.Description != nil && *b.Description != "" {
			descPart = fmt.Sprintf(" — %s", truncate(*b.Description, 100))
		}
		tagsPart := ""
		if len(b.Tags) > 0 {
			tagsPart = fmt.Sprintf(" [tags: %s]", strings.Join(b.Tags, ", "))
		}
		lines = append(lines, fmt.Sprintf("%d. %q by %s (%s) [%s]%s%s",
			i+1, b.Title, b.Author, year, statusLabel, descPart, tagsPart))
	}
	return strings.Join(lines, "\n")
}

func toBookResponses(books []*book.Book) []*appbook.BookResponse {
	items := make([]*appbook.BookResponse, len(books))
	for i, b := range books {
		items[i] = appbook.ToBookResponse(b)
	}
	return items
}

// truncate 按码点截断描述摘录,不会撕裂多字节字符
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
