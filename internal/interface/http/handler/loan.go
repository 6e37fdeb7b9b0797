package handler

import (
	"github.com/gin-gonic/gin"

	apploan "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// LoanHandler 借阅HTTP处理器
type LoanHandler struct {
	checkoutUseCase  *apploan.CheckoutUseCase
	returnUseCase    *apploan.ReturnUseCase
	listLoansUseCase *apploan.ListLoansUseCase
}

// NewLoanHandler 创建借阅处理器
func NewLoanHandler(
	checkoutUseCase *apploan.CheckoutUseCase,
	returnUseCase *apploan.ReturnUseCase,
	listLoansUseCase *apploan.ListLoansUseCase,
) *LoanHandler {
	return &LoanHandler{
		checkoutUseCase:  checkoutUseCase,
		returnUseCase:    returnUseCase,
		listLoansUseCase: listLoansUseCase,
	}
}

// Checkout 借出图书
// @Summary      借出图书
// @Description  借阅人是当前登录用户;并发借同一本书只有一人成功
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CheckoutRequest true "借出参数"
// @Success      201 {object} response.Response{data=apploan.CheckoutResponse}
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "图书已被借出"
// @Router       /api/v1/loans/checkout [post]
func (h *LoanHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithErr(err))
		return
	}

	u := middleware.MustCurrentUser(c)
	result, err := h.checkoutUseCase.Execute(c.Request.Context(), apploan.CheckoutRequest{
		BookID: req.BookID,
		UserID: u.ID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Return 归还图书
// @Summary      归还图书
// @Description  MEMBER只能还自己的借阅,馆员/管理员可代还;重复归还返回404
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ReturnRequest true "归还参数"
// @Success      200 {object} response.Response{data=apploan.CheckoutResponse}
// @Failure      403 {object} response.Response "不能归还他人的借阅"
// @Failure      404 {object} response.Response "在借记录不存在"
// @Router       /api/v1/loans/return [post]
func (h *LoanHandler) Return(c *gin.Context) {
	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithErr(err))
		return
	}

	u := middleware.MustCurrentUser(c)
	result, err := h.returnUseCase.Execute(c.Request.Context(), apploan.ReturnRequest{
		LoanID:   req.LoanID,
		UserID:   u.ID,
		UserRole: u.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListLoans 借阅列表
// @Summary      借阅列表
// @Description  MEMBER只能看到自己的借阅,馆员/管理员看到全部
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/loans [get]
func (h *LoanHandler) ListLoans(c *gin.Context) {
	var req dto.ListLoansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithErr(err))
		return
	}

	u := middleware.MustCurrentUser(c)
	items, total, err := h.listLoansUseCase.Execute(c.Request.Context(), apploan.ListLoansRequest{
		UserID:   u.ID,
		UserRole: u.Role,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, items, total, req.Page, req.PageSize)
}
