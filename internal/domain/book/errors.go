package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "相同ISBN的图书已存在")

	// ErrTitleAuthorRequired 标题/作者必填
	ErrTitleAuthorRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "标题和作者不能为空")

	// ErrInvalidStatus 非法的图书状态
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "非法的图书状态")

	// ErrBookBorrowed 图书当前已借出,禁止删除
	ErrBookBorrowed = apperrors.New(apperrors.ErrCodeDeleteBlocked, "图书当前已借出,无法删除")
)
