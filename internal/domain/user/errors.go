package user

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")

	// ErrEmailDuplicate 邮箱已存在（并发首次登录时由唯一索引触发）
	ErrEmailDuplicate = apperrors.New(apperrors.ErrCodeConflict, "邮箱已被注册")

	// ErrInvalidRole 非法的角色取值
	ErrInvalidRole = apperrors.New(apperrors.ErrCodeInvalidParams, "非法的角色")
)
