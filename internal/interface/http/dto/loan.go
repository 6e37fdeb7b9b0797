package dto

// CheckoutRequest 借出请求
type CheckoutRequest struct {
	BookID string `json:"book_id" binding:"required"`
}

// ReturnRequest 归还请求
type ReturnRequest struct {
	LoanID string `json:"loan_id" binding:"required"`
}

// ListLoansRequest 借阅列表查询参数
// 分页参数不能加omitempty,见ListBooksRequest
type ListLoansRequest struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}
