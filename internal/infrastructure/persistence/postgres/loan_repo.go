package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// loanRepository 借阅仓储实现(PostgreSQL)
// 设计说明:
// 1. Create/Update/DeleteByBookID都可能参与事务,统一走getDB(ctx)
// 2. Create是核心不变式的最后一道防线:部分唯一索引冲突 → ErrBookAlreadyBorrowed
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository 创建借阅仓储
func NewLoanRepository(db *gorm.DB) loan.Repository {
	return &loanRepository{db: db}
}

// Create 创建借阅记录
func (r *loanRepository) Create(ctx context.Context, l *loan.Loan) error {
	model := toLoanModel(l)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		// uq_active_loan_per_book兜底:两个事务都通过了状态检查时,
		// 第二个的插入在这里被唯一索引拦下,对外表现与状态检查失败一致
		if isDuplicateError(err) {
			return loan.ErrBookAlreadyBorrowed
		}
		return apperrors.Wrap(err, "创建借阅记录失败")
	}

	l.ID = model.ID
	return nil
}

// FindActiveByID 按ID查找OUT状态的借阅
// 已归还和不存在的ID都返回ErrLoanNotFound,刻意不区分
func (r *loanRepository) FindActiveByID(ctx context.Context, id string) (*loan.Loan, error) {
	var model LoanModel
	err := getDB(ctx, r.db).
		Where("id = ? AND status = ?", id, string(loan.StatusOut)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}
	return toLoanEntity(&model), nil
}

// FindActiveByBookID 查找某本书的在借记录
func (r *loanRepository) FindActiveByBookID(ctx context.Context, bookID string) (*loan.Loan, error) {
	var model LoanModel
	err := getDB(ctx, r.db).
		Where("book_id = ? AND status = ?", bookID, string(loan.StatusOut)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}
	return toLoanEntity(&model), nil
}

// Update 保存借阅记录（归还）
func (r *loanRepository) Update(ctx context.Context, l *loan.Loan) error {
	if err := getDB(ctx, r.db).Save(toLoanModel(l)).Error; err != nil {
		return apperrors.Wrap(err, "更新借阅记录失败")
	}
	return nil
}

// List 分页查询借阅列表,按借出时间降序
func (r *loanRepository) List(ctx context.Context, params loan.ListParams) ([]*loan.Loan, int64, error) {
	var models []LoanModel
	var total int64

	query := r.db.WithContext(ctx).Model(&LoanModel{})

	// MEMBER可见性过滤:只看自己的借阅
	if params.UserID != "" {
		query = query.Where("user_id = ?", params.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Order("checked_out_at DESC").
		Limit(params.PageSize).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅列表失败")
	}

	loans := make([]*loan.Loan, len(models))
	for i := range models {
		loans[i] = toLoanEntity(&models[i])
	}
	return loans, total, nil
}

// DeleteByBookID 删除某本书的全部历史借阅
// 删除图书的级联步骤,必须在事务内、删除图书之前执行
func (r *loanRepository) DeleteByBookID(ctx context.Context, bookID string) error {
	if err := getDB(ctx, r.db).Where("book_id = ?", bookID).Delete(&LoanModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除借阅记录失败")
	}
	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toLoanEntity GORM模型 → 领域实体
func toLoanEntity(model *LoanModel) *loan.Loan {
	return &loan.Loan{
		ID:           model.ID,
		BookID:       model.BookID,
		UserID:       model.UserID,
		CheckedOutAt: model.CheckedOutAt,
		ReturnedAt:   model.ReturnedAt,
		Status:       loan.Status(model.Status),
	}
}

// toLoanModel 领域实体 → GORM模型
func toLoanModel(l *loan.Loan) *LoanModel {
	return &LoanModel{
		ID:           l.ID,
		BookID:       l.BookID,
		UserID:       l.UserID,
		CheckedOutAt: l.CheckedOutAt,
		ReturnedAt:   l.ReturnedAt,
		Status:       string(l.Status),
	}
}
