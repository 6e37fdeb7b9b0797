package postgres

import (
	"context"

	"gorm.io/gorm"
)

// txKey context中事务DB的键（非导出类型,避免跨包冲突）
type txKey struct{}

// TxManager 事务管理器
// 设计说明:
// 1. 封装GORM的Transaction方法:fn返回error时自动ROLLBACK,返回nil时自动COMMIT
// 2. 事务DB通过context传递,各Repository用getDB(ctx)加入同一事务
//
// 使用示例（借出）:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    b, err := bookRepo.LockByID(ctx, bookID) // SELECT FOR UPDATE
//	    if err != nil {
//	        return err
//	    }
//	    if b.Status == book.StatusBorrowed {
//	        return loan.ErrBookAlreadyBorrowed
//	    }
//	    if err := loanRepo.Create(ctx, l); err != nil {
//	        return err // 部分唯一索引冲突也在这里兜底
//	    }
//	    return bookRepo.UpdateStatus(ctx, bookID, book.StatusBorrowed)
//	})
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// getDB 从context获取事务DB,没有则回退到默认连接
func getDB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
