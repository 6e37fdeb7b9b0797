package loan

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrLoanNotFound 借阅记录不存在
	// 已归还的记录同样返回该错误,对调用方刻意不区分"从未存在"与"已归还"
	ErrLoanNotFound = apperrors.New(apperrors.ErrCodeLoanNotFound, "在借记录不存在")

	// ErrBookAlreadyBorrowed 图书已被借出
	// 行锁内状态检查失败,或部分唯一索引兜底拦截并发借出时返回
	ErrBookAlreadyBorrowed = apperrors.New(apperrors.ErrCodeBookBorrowed, "图书已被借出")

	// ErrNotOwnLoan MEMBER只能归还自己的借阅
	ErrNotOwnLoan = apperrors.New(apperrors.ErrCodeNotOwnLoan, "不能归还他人的借阅")
)
