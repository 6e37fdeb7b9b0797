package loan

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/user"
)

// ReturnUseCase 归还用例
type ReturnUseCase struct {
	loanRepo  loan.Repository
	bookRepo  book.Repository
	txManager TxManager
}

// NewReturnUseCase 创建归还用例
func NewReturnUseCase(
	loanRepo loan.Repository,
	bookRepo book.Repository,
	txManager TxManager,
) *ReturnUseCase {
	return &ReturnUseCase{
		loanRepo:  loanRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
	}
}

// ReturnRequest 归还请求DTO
type ReturnRequest struct {
	LoanID   string    // 借阅记录ID(路径参数)
	UserID   string    // 当前用户ID(从JWT中提取)
	UserRole user.Role // 当前用户角色
}

// Execute 执行归还用例
// 规则:
// 1. 记录不存在或已归还 → 404(对外不区分两种情况,避免探测他人借阅历史)
// 2. MEMBER只能归还自己的借阅 → 403;LIBRARIAN/ADMIN可代还任意借阅
// 3. 归还是该记录唯一的状态转移,重复归还命中规则1
// 4. 图书回到AVAILABLE;图书已被删除时忽略(历史记录的归还依然成立)
func (uc *ReturnUseCase) Execute(ctx context.Context, req ReturnRequest) (*CheckoutResponse, error) {
	var result *loan.Loan
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		l, err := uc.loanRepo.FindActiveByID(txCtx, req.LoanID)
		if err != nil {
			return err
		}

		// 权限检查放在存在性检查之后:
		// 不存在的记录必须返回404而不是403,否则403会泄露"记录存在"这一信息
		if req.UserRole == user.RoleMember && l.UserID != req.UserID {
			return loan.ErrNotOwnLoan
		}

		if err := l.MarkReturned(time.Now()); err != nil {
			return err
		}
		if err := uc.loanRepo.Update(txCtx, l); err != nil {
			return err
		}

		// 图书回到在馆状态
		// 图书不存在时忽略,归还本身依然成立
		if err := uc.bookRepo.UpdateStatus(txCtx, l.BookID, book.StatusAvailable); err != nil {
			if !errors.Is(err, book.ErrBookNotFound) {
				return err
			}
		}

		result = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toCheckoutResponse(result), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
