package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// UpdateBookUseCase 图书更新用例
type UpdateBookUseCase struct {
	bookRepo  book.Repository
	txManager TxManager
}

// NewUpdateBookUseCase 创建图书更新用例
func NewUpdateBookUseCase(bookRepo book.Repository, txManager TxManager) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookRepo:  bookRepo,
		txManager: txManager,
	}
}

// UpdateBookRequest 更新请求DTO
// 部分更新语义:nil表示"本次未提供,保持原值"
// status允许人工覆盖(应急用),正常情况下由借阅操作维护
type UpdateBookRequest struct {
	ID            string
	Title         *string
	Author        *string
	ISBN          *string
	PublishedYear *int
	Description   *string
	Tags          *[]string
	Status        *string
}

// Execute 执行图书更新用例
// 锁内读取→merge→保存;只有提供的字段被覆盖,其余保持原值
//
// 读取必须放在行锁内:保存会写回整行,
// 锁外读取的话,读和写之间并发提交的借出会把status悄悄改回去
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookResponse, error) {
	var result *BookResponse
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookRepo.LockByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		update := book.Update{
			Title:         req.Title,
			Author:        req.Author,
			ISBN:          req.ISBN,
			PublishedYear: req.PublishedYear,
			Description:   req.Description,
			Tags:          req.Tags,
		}
		if req.Status != nil {
			s := book.Status(*req.Status)
			update.Status = &s
		}
		if err := b.Apply(update); err != nil {
			return err
		}

		if err := uc.bookRepo.Update(txCtx, b); err != nil {
			return err
		}

		result = ToBookResponse(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
