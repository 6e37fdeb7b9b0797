package user

import (
	"time"
)

// Role 用户角色
type Role string

const (
	RoleAdmin     Role = "ADMIN"     // 管理员：用户管理 + 馆员全部权限
	RoleLibrarian Role = "LIBRARIAN" // 馆员：管理馆藏、代还任意借阅
	RoleMember    Role = "MEMBER"    // 普通读者：借书、还自己的书
)

// Valid 判断角色取值是否合法
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLibrarian, RoleMember:
		return true
	}
	return false
}

// User 用户实体
// 设计说明:
// 1. 账号由OAuth登录时自动创建（get-or-create），没有密码字段
// 2. (OAuthProvider, OAuthSubject) 是外部身份的备用查找键，两者同时存在时唯一
// 3. 角色只能由Admin通过角色更新接口修改
type User struct {
	ID            string // UUID
	Email         string // 全局唯一
	Name          string
	Role          Role
	OAuthProvider string // 为空表示尚未关联OAuth身份（种子账号首次登录前）
	OAuthSubject  string
	CreatedAt     time.Time
}

// OAuthProfile 外部身份断言
// OAuth回调成功后由提供商profile构造，是get-or-create的输入
type OAuthProfile struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

// NewUser 由外部身份创建新用户（工厂方法）
// 首次OAuth登录默认角色为MEMBER
func NewUser(p OAuthProfile) *User {
	return &User{
		Email:         p.Email,
		Name:          p.Name,
		Role:          RoleMember,
		OAuthProvider: p.Provider,
		OAuthSubject:  p.Subject,
	}
}

// CanManageCatalog 是否可以管理馆藏（上架、修改、删除图书）
func (u *User) CanManageCatalog() bool {
	return u.Role == RoleAdmin || u.Role == RoleLibrarian
}
