package loan

import (
	"context"
)

// ListParams 借阅列表查询参数
type ListParams struct {
	UserID   string // 非空时只查该用户的借阅（MEMBER可见性过滤）
	Page     int    // 页码（从1开始）
	PageSize int    // 每页数量（1-100）
}

// Repository 借阅仓储接口
type Repository interface {
	// Create 创建借阅记录（status=OUT）
	// 部分唯一索引 uq_active_loan_per_book 冲突时返回ErrBookAlreadyBorrowed
	// 这是并发借出的最后一道防线
	Create(ctx context.Context, l *Loan) error

	// FindActiveByID 按ID查找OUT状态的借阅
	// 记录不存在或已归还都返回ErrLoanNotFound
	FindActiveByID(ctx context.Context, id string) (*Loan, error)

	// FindActiveByBookID 查找某本书的在借记录（删除图书前的检查）
	FindActiveByBookID(ctx context.Context, bookID string) (*Loan, error)

	// Update 保存借阅记录（归还时写status/returned_at）
	Update(ctx context.Context, l *Loan) error

	// List 分页查询借阅列表,按借出时间降序
	// 返回当页数据和过滤后的总数
	List(ctx context.Context, params ListParams) ([]*Loan, int64, error)

	// DeleteByBookID 删除某本书的全部历史借阅（删除图书的级联步骤,FK为RESTRICT）
	DeleteByBookID(ctx context.Context, bookID string) error
}
