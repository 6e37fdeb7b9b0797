package book

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
)

// GetBookUseCase 图书详情用例
type GetBookUseCase struct {
	bookRepo book.Repository
}

// NewGetBookUseCase 创建图书详情用例
func NewGetBookUseCase(bookRepo book.Repository) *GetBookUseCase {
	return &GetBookUseCase{bookRepo: bookRepo}
}

// Execute 执行图书详情用例
func (uc *GetBookUseCase) Execute(ctx context.Context, id string) (*BookResponse, error) {
	b, err := uc.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToBookResponse(b), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
