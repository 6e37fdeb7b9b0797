package loan

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
)

// TxManager 事务管理器接口
// 由应用层定义接口便于Mock测试,生产实现是postgres.TxManager
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CheckoutUseCase 借出用例
// 这是整个项目最核心的用例
// 涉及:事务处理、并发控制、业务规则校验
type CheckoutUseCase struct {
	loanRepo  loan.Repository
	bookRepo  book.Repository
	txManager TxManager
}

// NewCheckoutUseCase 创建借出用例
func NewCheckoutUseCase(
	loanRepo loan.Repository,
	bookRepo book.Repository,
	txManager TxManager,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		loanRepo:  loanRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
	}
}

// CheckoutRequest 借出请求DTO
type CheckoutRequest struct {
	BookID string // 图书ID(路径参数)
	UserID string // 借阅人ID(从JWT中提取)
}

// CheckoutResponse 借出响应DTO
type CheckoutResponse struct {
	LoanID       string  `json:"id"`
	BookID       string  `json:"book_id"`
	UserID       string  `json:"user_id"`
	Status       string  `json:"status"`
	CheckedOutAt string  `json:"checked_out_at"`
	ReturnedAt   *string `json:"returned_at"`
}

// Execute 执行借出用例
//
// 核心问题:并发重复借出
// 场景:一本书只有一册,100人同时点借出
// 错误实现:
//  1. 查询图书状态 → AVAILABLE
//  2. 判断可不可借 → 可借
//  3. 创建借阅记录并置为BORROWED
//     结果:100个请求都通过了步骤2,同一本书出现多条在借记录
//
// 正确实现:悲观锁 + 数据库唯一约束双层保障
//  1. SELECT FOR UPDATE 锁定图书行,串行化同一本书上的并发借出
//  2. 锁内检查状态,已借出则返回409
//  3. 创建借阅记录:loans(book_id) WHERE status='OUT'部分唯一索引兜底,
//     即使锁被绕过(例如有人绕开应用直写数据库),索引冲突依然保证不变式
//  4. 图书置为BORROWED
//  5. COMMIT释放锁
func (uc *CheckoutUseCase) Execute(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	var result *loan.Loan
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 步骤1:锁定图书行
		// LockByID执行:SELECT * FROM books WHERE id = ? FOR UPDATE
		// 其他事务必须等待当前事务COMMIT或ROLLBACK后才能访问该行
		b, err := uc.bookRepo.LockByID(txCtx, req.BookID)
		if err != nil {
			return err
		}

		// 步骤2:锁内检查状态
		// 必须在锁定后检查,否则并发请求都会看到AVAILABLE
		if b.Status != book.StatusAvailable {
			return loan.ErrBookAlreadyBorrowed
		}

		// 步骤3:创建借阅记录
		// 部分唯一索引冲突会被仓储层翻译为ErrBookAlreadyBorrowed
		newLoan := loan.NewLoan(req.BookID, req.UserID)
		if err := uc.loanRepo.Create(txCtx, newLoan); err != nil {
			return err
		}

		// 步骤4:图书置为BORROWED
		if err := uc.bookRepo.UpdateStatus(txCtx, req.BookID, book.StatusBorrowed); err != nil {
			return err
		}

		result = newLoan
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toCheckoutResponse(result), nil
}

func toCheckoutResponse(l *loan.Loan) *CheckoutResponse {
	return &CheckoutResponse{
		LoanID:       l.ID,
		BookID:       l.BookID,
		UserID:       l.UserID,
		Status:       string(l.Status),
		CheckedOutAt: formatTime(l.CheckedOutAt),
		ReturnedAt:   formatTimePtr(l.ReturnedAt),
	}
}
