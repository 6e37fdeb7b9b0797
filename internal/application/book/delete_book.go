package book

import (
	"context"
	"errors"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
)

// DeleteBookUseCase 图书删除用例
type DeleteBookUseCase struct {
	bookRepo  book.Repository
	loanRepo  loan.Repository
	txManager TxManager
}

// NewDeleteBookUseCase 创建图书删除用例
func NewDeleteBookUseCase(
	bookRepo book.Repository,
	loanRepo loan.Repository,
	txManager TxManager,
) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookRepo:  bookRepo,
		loanRepo:  loanRepo,
		txManager: txManager,
	}
}

// Execute 执行图书删除用例
// 规则:存在在借记录时拒绝删除(409);否则连同历史借阅一并删除
//
// 与借出用例竞争同一本书:
// 先锁定图书行再检查在借记录,与借出的锁互斥,
// 保证不会出现"检查时无在借记录,删除时恰好被借出"的窗口
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id string) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.bookRepo.LockByID(txCtx, id); err != nil {
			return err
		}

		// 锁内检查在借记录
		_, err := uc.loanRepo.FindActiveByBookID(txCtx, id)
		if err == nil {
			return book.ErrBookBorrowed
		}
		if !errors.Is(err, loan.ErrLoanNotFound) {
			return err
		}

		// 外键RESTRICT:必须先删历史借阅再删图书
		if err := uc.loanRepo.DeleteByBookID(txCtx, id); err != nil {
			return err
		}
		return uc.bookRepo.Delete(txCtx, id)
	})
}
