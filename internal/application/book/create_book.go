package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// TxManager 事务管理器接口
// 由应用层定义接口便于Mock测试,生产实现是postgres.TxManager
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CreateBookUseCase 图书上架用例
type CreateBookUseCase struct {
	bookRepo book.Repository
}

// NewCreateBookUseCase 创建图书上架用例
func NewCreateBookUseCase(bookRepo book.Repository) *CreateBookUseCase {
	return &CreateBookUseCase{bookRepo: bookRepo}
}

// CreateBookRequest 上架请求DTO
type CreateBookRequest struct {
	Title         string
	Author        string
	ISBN          *string
	PublishedYear *int
	Description   *string
	Tags          []string
}

// BookResponse 图书响应DTO
type BookResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	ISBN          *string  `json:"isbn"`
	PublishedYear *int     `json:"published_year"`
	Description   *string  `json:"description"`
	Tags          []string `json:"tags"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// Execute 执行上架用例
// 新书总是AVAILABLE状态;ISBN冲突返回409
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookResponse, error) {
	b, err := book.NewBook(req.Title, req.Author, req.ISBN, req.PublishedYear, req.Description, req.Tags)
	if err != nil {
		return nil, err
	}

	if err := uc.bookRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	return ToBookResponse(b), nil
}

// ToBookResponse 实体转响应DTO
// tags保证非null(数据库text[]默认空数组,这里再兜一层)
func ToBookResponse(b *book.Book) *BookResponse {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return &BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		PublishedYear: b.PublishedYear,
		Description:   b.Description,
		Tags:          tags,
		Status:        string(b.Status),
		CreatedAt:     formatTime(b.CreatedAt),
		UpdatedAt:     formatTime(b.UpdatedAt),
	}
}
