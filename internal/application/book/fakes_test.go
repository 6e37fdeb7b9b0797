package book

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
)

// fakeTxManager 内存事务管理器
// before不为空时在事务体执行前调用,模拟抢先提交的并发事务
type fakeTxManager struct {
	mu     sync.Mutex
	before func()
}

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.before != nil {
		m.before()
	}
	return fn(ctx)
}

// fakeBookRepo 内存图书仓储,模拟ISBN唯一索引
type fakeBookRepo struct {
	mu    sync.Mutex
	seq   int
	books map[string]*book.Book
}

func newFakeBookRepo(books ...*book.Book) *fakeBookRepo {
	r := &fakeBookRepo{books: make(map[string]*book.Book)}
	for _, b := range books {
		r.books[b.ID] = b
	}
	return r
}

func (r *fakeBookRepo) isbnTaken(b *book.Book) bool {
	if b.ISBN == nil {
		return false
	}
	for _, existing := range r.books {
		if existing.ID != b.ID && existing.ISBN != nil && *existing.ISBN == *b.ISBN {
			return true
		}
	}
	return false
}

func (r *fakeBookRepo) Create(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isbnTaken(b) {
		return book.ErrISBNDuplicate
	}
	r.seq++
	b.ID = fmt.Sprintf("book-%d", r.seq)
	copied := *b
	r.books[b.ID] = &copied
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
	if r.isbnTaken(b) {
		return book.ErrISBNDuplicate
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
	all, _ := r.FindAll(ctx)
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

// fakeLoanRepo 删除用例需要的最小借阅仓储
type fakeLoanRepo struct {
	mu     sync.Mutex
	active map[string]*loan.Loan // bookID → 在借记录
	all    map[string][]*loan.Loan
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{
		active: make(map[string]*loan.Loan),
		all:    make(map[string][]*loan.Loan),
	}
}

func (r *fakeLoanRepo) addLoan(l *loan.Loan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.Status == loan.StatusOut {
		r.active[l.BookID] = l
	}
	r.all[l.BookID] = append(r.all[l.BookID], l)
}

func (r *fakeLoanRepo) Create(ctx context.Context, l *loan.Loan) error {
	r.addLoan(l)
	return nil
}

func (r *fakeLoanRepo) FindActiveByID(ctx context.Context, id string) (*loan.Loan, error) {
	return nil, loan.ErrLoanNotFound
}

func (r *fakeLoanRepo) FindActiveByBookID(ctx context.Context, bookID string) (*loan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.active[bookID]; ok {
		return l, nil
	}
	return nil, loan.ErrLoanNotFound
}

func (r *fakeLoanRepo) Update(ctx context.Context, l *loan.Loan) error {
	return nil
}

func (r *fakeLoanRepo) List(ctx context.Context, params loan.ListParams) ([]*loan.Loan, int64, error) {
	return nil, 0, nil
}

func (r *fakeLoanRepo) DeleteByBookID(ctx context.Context, bookID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, bookID)
	delete(r.all, bookID)
	return nil
}

func (r *fakeLoanRepo) historyCount(bookID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.all[bookID])
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
