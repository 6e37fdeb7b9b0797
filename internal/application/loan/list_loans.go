package loan

import (
	"context"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/user"
)

// ListLoansUseCase 借阅列表用例
type ListLoansUseCase struct {
	loanRepo loan.Repository
}

// NewListLoansUseCase 创建借阅列表用例
func NewListLoansUseCase(loanRepo loan.Repository) *ListLoansUseCase {
	return &ListLoansUseCase{loanRepo: loanRepo}
}

// ListLoansRequest 借阅列表请求DTO
type ListLoansRequest struct {
	UserID   string    // 当前用户ID
	UserRole user.Role // 当前用户角色
	Page     int
	PageSize int
}

// Execute 执行借阅列表用例
// 可见性规则:MEMBER只能看到自己的借阅,LIBRARIAN/ADMIN看到全部
// 过滤在查询层完成,不是查全量后内存裁剪
func (uc *ListLoansUseCase) Execute(ctx context.Context, req ListLoansRequest) ([]*CheckoutResponse, int64, error) {
	params := loan.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.UserRole == user.RoleMember {
		params.UserID = req.UserID
	}

	loans, total, err := uc.loanRepo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*CheckoutResponse, len(loans))
	for i, l := range loans {
		items[i] = toCheckoutResponse(l)
	}
	return items, total, nil
}
