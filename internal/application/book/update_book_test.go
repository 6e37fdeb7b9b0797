package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
)

func seedBook(t *testing.T) (*fakeBookRepo, string) {
	t.Helper()
	repo := newFakeBookRepo()
	created, err := NewCreateBookUseCase(repo).Execute(context.Background(), CreateBookRequest{
		Title:         "Dune",
		Author:        "Frank Herbert",
		ISBN:          strPtr("9780441013593"),
		PublishedYear: intPtr(1965),
		Description:   strPtr("Sci-fi classic"),
		Tags:          []string{"sci-fi", "classic"},
	})
	require.NoError(t, err)
	return repo, created.ID
}

// TestCreateBook 测试图书上架
func TestCreateBook(t *testing.T) {
	repo := newFakeBookRepo()
	uc := NewCreateBookUseCase(repo)

	result, err := uc.Execute(context.Background(), CreateBookRequest{
		Title:  "Dune",
		Author: "Frank Herbert",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, string(book.StatusAvailable), result.Status)
	assert.NotNil(t, result.Tags, "tags应序列化为[]而不是null")
}

// TestCreateBook_ISBNDuplicate 测试ISBN冲突
func TestCreateBook_ISBNDuplicate(t *testing.T) {
	repo, _ := seedBook(t)
	uc := NewCreateBookUseCase(repo)

	_, err := uc.Execute(context.Background(), CreateBookRequest{
		Title:  "Dune Again",
		Author: "Someone Else",
		ISBN:   strPtr("9780441013593"),
	})
	assert.ErrorIs(t, err, book.ErrISBNDuplicate)
}

// TestUpdateBook_PartialMerge 测试部分更新只覆盖提供的字段
func TestUpdateBook_PartialMerge(t *testing.T) {
	repo, id := seedBook(t)
	uc := NewUpdateBookUseCase(repo, &fakeTxManager{})

	result, err := uc.Execute(context.Background(), UpdateBookRequest{
		ID:          id,
		Description: strPtr("Updated description"),
	})
	require.NoError(t, err)

	// 提供的字段被覆盖
	require.NotNil(t, result.Description)
	assert.Equal(t, "Updated description", *result.Description)
	// 未提供的字段保持原值
	assert.Equal(t, "Dune", result.Title)
	assert.Equal(t, "Frank Herbert", result.Author)
	require.NotNil(t, result.ISBN)
	assert.Equal(t, "9780441013593", *result.ISBN)
	assert.Equal(t, []string{"sci-fi", "classic"}, result.Tags)
}

// TestUpdateBook_ClearTags 测试显式清空标签
func TestUpdateBook_ClearTags(t *testing.T) {
	repo, id := seedBook(t)
	uc := NewUpdateBookUseCase(repo, &fakeTxManager{})

	empty := []string{}
	result, err := uc.Execute(context.Background(), UpdateBookRequest{
		ID:   id,
		Tags: &empty,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Tags)
}

// TestUpdateBook_NotFound 测试更新不存在的图书
func TestUpdateBook_NotFound(t *testing.T) {
	repo := newFakeBookRepo()
	uc := NewUpdateBookUseCase(repo, &fakeTxManager{})

	_, err := uc.Execute(context.Background(), UpdateBookRequest{
		ID:    "missing",
		Title: strPtr("New Title"),
	})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

// TestUpdateBook_PreservesConcurrentStatusChange 测试不带status的更新不回滚并发借出
// 借出在更新事务拿到行锁之前提交:更新必须基于锁内读到的最新状态merge,
// 否则整行写回会把BORROWED悄悄改回AVAILABLE
func TestUpdateBook_PreservesConcurrentStatusChange(t *testing.T) {
	repo, id := seedBook(t)
	tx := &fakeTxManager{
		before: func() {
			require.NoError(t, repo.UpdateStatus(context.Background(), id, book.StatusBorrowed))
		},
	}
	uc := NewUpdateBookUseCase(repo, tx)

	result, err := uc.Execute(context.Background(), UpdateBookRequest{
		ID:          id,
		Description: strPtr("Updated description"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(book.StatusBorrowed), result.Status)
	stored, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, book.StatusBorrowed, stored.Status, "并发借出的状态不能被更新覆盖")
	require.NotNil(t, stored.Description)
	assert.Equal(t, "Updated description", *stored.Description)
}

// TestUpdateBook_StatusOverride 测试人工覆盖状态
func TestUpdateBook_StatusOverride(t *testing.T) {
	repo, id := seedBook(t)
	uc := NewUpdateBookUseCase(repo, &fakeTxManager{})

	borrowed := string(book.StatusBorrowed)
	result, err := uc.Execute(context.Background(), UpdateBookRequest{
		ID:     id,
		Status: &borrowed,
	})
	require.NoError(t, err)
	assert.Equal(t, string(book.StatusBorrowed), result.Status)
}
