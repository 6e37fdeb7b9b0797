package dto

// UpdateRoleRequest 角色更新请求(Admin)
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN LIBRARIAN MEMBER"`
}
