package loan

import (
	"time"
)

// Status 借阅状态
// 状态机只有一条转移: OUT → RETURNED（终态）
// 一条借阅记录永远不会回到OUT
type Status string

const (
	StatusOut      Status = "OUT"      // 在借
	StatusReturned Status = "RETURNED" // 已归还
)

// Loan 借阅记录实体
// 核心不变式：任一图书同一时刻最多存在一条OUT状态的记录
// 双层保障：
// 1. 应用层在图书行锁内check-then-act
// 2. 数据库层 loans(book_id) WHERE status='OUT' 部分唯一索引兜底
type Loan struct {
	ID           string // UUID
	BookID       string
	UserID       string
	CheckedOutAt time.Time
	ReturnedAt   *time.Time
	Status       Status
}

// NewLoan 创建借阅记录（借出时）
func NewLoan(bookID, userID string) *Loan {
	return &Loan{
		BookID:       bookID,
		UserID:       userID,
		CheckedOutAt: time.Now(),
		Status:       StatusOut,
	}
}

// MarkReturned 归还（唯一的状态转移,只允许执行一次）
func (l *Loan) MarkReturned(now time.Time) error {
	if l.Status != StatusOut {
		return ErrLoanNotFound
	}
	l.Status = StatusReturned
	l.ReturnedAt = &now
	return nil
}
