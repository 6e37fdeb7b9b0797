package loan

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xiebiao/library/internal/domain/book"
	domloan "github.com/xiebiao/library/internal/domain/loan"
)

// fakeTxManager 内存事务管理器
// 用互斥锁串行化事务,模拟数据库行锁对并发借出的串行化效果
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// fakeBookRepo 内存图书仓储
type fakeBookRepo struct {
	mu    sync.Mutex
	books map[string]*book.Book
}

func newFakeBookRepo(books ...*book.Book) *fakeBookRepo {
	r := &fakeBookRepo{books: make(map[string]*book.Book)}
	for _, b := range books {
		r.books[b.ID] = b
	}
	return r
}

func (r *fakeBookRepo) Create(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id string) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[b.ID]; !ok {
		return book.ErrBookNotFound
	}
	copied := *b
	r.books[b.ID] = &copied
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return book.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	return all, int64(len(all)), nil
}

func (r *fakeBookRepo) FindAll(ctx context.Context) ([]*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*book.Book
	for _, b := range r.books {
		copied := *b
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (r *fakeBookRepo) FindByKeywords(ctx context.Context, keywords []string, limit int) ([]*book.Book, error) {
	return r.FindAll(ctx)
}

func (r *fakeBookRepo) LockByID(ctx context.Context, id string) (*book.Book, error) {
	// 事务已由fakeTxManager串行化,这里等价于FindByID
	return r.FindByID(ctx, id)
}

func (r *fakeBookRepo) UpdateStatus(ctx context.Context, id string, status book.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	b.Status = status
	return nil
}

// fakeLoanRepo 内存借阅仓储
// Create模拟部分唯一索引:同一本书已有OUT记录时返回ErrBookAlreadyBorrowed
type fakeLoanRepo struct {
	mu    sync.Mutex
	seq   int
	loans map[string]*domloan.Loan
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: make(map[string]*domloan.Loan)}
}

func (r *fakeLoanRepo) Create(ctx context.Context, l *domloan.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.loans {
		if existing.BookID == l.BookID && existing.Status == domloan.StatusOut {
			return domloan.ErrBookAlreadyBorrowed
		}
	}
	r.seq++
	l.ID = fmt.Sprintf("loan-%d", r.seq)
	copied := *l
	r.loans[l.ID] = &copied
	return nil
}

func (r *fakeLoanRepo) FindActiveByID(ctx context.Context, id string) (*domloan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.loans[id]
	if !ok || l.Status != domloan.StatusOut {
		return nil, domloan.ErrLoanNotFound
	}
	copied := *l
	return &copied, nil
}

func (r *fakeLoanRepo) FindActiveByBookID(ctx context.Context, bookID string) (*domloan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.loans {
		if l.BookID == bookID && l.Status == domloan.StatusOut {
			copied := *l
			return &copied, nil
		}
	}
	return nil, domloan.ErrLoanNotFound
}

func (r *fakeLoanRepo) Update(ctx context.Context, l *domloan.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loans[l.ID]; !ok {
		return domloan.ErrLoanNotFound
	}
	copied := *l
	r.loans[l.ID] = &copied
	return nil
}

func (r *fakeLoanRepo) List(ctx context.Context, params domloan.ListParams) ([]*domloan.Loan, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var filtered []*domloan.Loan
	for _, l := range r.loans {
		if params.UserID != "" && l.UserID != params.UserID {
			continue
		}
		copied := *l
		filtered = append(filtered, &copied)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CheckedOutAt.After(filtered[j].CheckedOutAt)
	})

	total := int64(len(filtered))
	start := (params.Page - 1) * params.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + params.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

func (r *fakeLoanRepo) DeleteByBookID(ctx context.Context, bookID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.loans {
		if l.BookID == bookID {
			delete(r.loans, id)
		}
	}
	return nil
}

// newTestBook 测试用图书
func newTestBook(id string, status book.Status) *book.Book {
	return &book.Book{
		ID:     id,
		Title:  "Dune",
		Author: "Frank Herbert",
		Status: status,
	}
}
