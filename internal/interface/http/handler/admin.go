package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// AdminHandler 管理端HTTP处理器(仅ADMIN)
type AdminHandler struct {
	listUsersUseCase  *appuser.ListUsersUseCase
	updateRoleUseCase *appuser.UpdateRoleUseCase
}

// NewAdminHandler 创建管理端处理器
func NewAdminHandler(
	listUsersUseCase *appuser.ListUsersUseCase,
	updateRoleUseCase *appuser.UpdateRoleUseCase,
) *AdminHandler {
	return &AdminHandler{
		listUsersUseCase:  listUsersUseCase,
		updateRoleUseCase: updateRoleUseCase,
	}
}

// ListUsers 用户列表
// @Summary      用户列表
// @Tags         管理端
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appuser.UserResponse}
// @Failure      403 {object} response.Response "仅ADMIN可访问"
// @Router       /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	items, err := h.listUsersUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// UpdateRole 更新用户角色
// @Summary      更新用户角色
// @Description  角色变更下一个请求立即生效
// @Tags         管理端
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "用户ID"
// @Param        request body dto.UpdateRoleRequest true "新角色"
// @Success      200 {object} response.Response{data=appuser.UserResponse}
// @Failure      403 {object} response.Response "仅ADMIN可访问"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/admin/users/{id}/role [patch]
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithErr(err))
		return
	}

	result, err := h.updateRoleUseCase.Execute(c.Request.Context(), appuser.UpdateRoleRequest{
		UserID: c.Param("id"),
		Role:   req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
