package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// ListBooksUseCase 图书列表用例
type ListBooksUseCase struct {
	bookRepo book.Repository
}

// NewListBooksUseCase 创建图书列表用例
func NewListBooksUseCase(bookRepo book.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{bookRepo: bookRepo}
}

// ListBooksRequest 列表请求DTO
// 过滤条件全部可选,同时提供时AND组合
type ListBooksRequest struct {
	Query    string // 标题/作者/ISBN/描述 关键词
	Author   string
	Tag      string
	Status   string // AVAILABLE / BORROWED,空表示不过滤
	Page     int
	PageSize int
}

// Execute 执行图书列表用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) ([]*BookResponse, int64, error) {
	status := book.Status(req.Status)
	if req.Status != "" && !status.Valid() {
		return nil, 0, book.ErrInvalidStatus
	}

	books, total, err := uc.bookRepo.List(ctx, book.ListParams{
		Query:    req.Query,
		Author:   req.Author,
		Tag:      req.Tag,
		Status:   status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	items := make([]*BookResponse, len(books))
	for i, b := range books {
		items[i] = ToBookResponse(b)
	}
	return items, total, nil
}
