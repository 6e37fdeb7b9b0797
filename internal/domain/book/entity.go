package book

import (
	"time"
)

// Status 图书状态
// 派生字段：由借阅台账维护（借出→BORROWED，归还→AVAILABLE）
// 除借阅操作外，只有管理端的图书更新接口可以人工覆盖（应急用，不保证一致性）
type Status string

const (
	StatusAvailable Status = "AVAILABLE" // 在馆可借
	StatusBorrowed  Status = "BORROWED"  // 已借出
)

// Valid 判断状态取值是否合法
func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusBorrowed
}

// Book 图书实体（聚合根）
// 设计说明:
// 1. Title和Author必填；ISBN可选，存在时全局唯一
// 2. 可选字段用指针表达"未填写"，与部分更新的merge语义保持一致
// 3. UpdatedAt在每次变更时刷新
type Book struct {
	ID            string // UUID
	Title         string
	Author        string
	ISBN          *string
	PublishedYear *int
	Description   *string
	Tags          []string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 创建新图书（工厂方法）
// 调用方保证title和author非空（DTO层校验）
func NewBook(title, author string, isbn *string, publishedYear *int, description *string, tags []string) (*Book, error) {
	if title == "" || author == "" {
		return nil, ErrTitleAuthorRequired
	}
	return &Book{
		Title:         title,
		Author:        author,
		ISBN:          isbn,
		PublishedYear: publishedYear,
		Description:   description,
		Tags:          tags,
		Status:        StatusAvailable,
	}, nil
}

// Update 部分更新载荷
// 与完整实体区分开：nil表示"本次请求未提供该字段，保持原值"
// Tags用*[]string以区分"未提供"与"显式清空"
type Update struct {
	Title         *string
	Author        *string
	ISBN          *string
	PublishedYear *int
	Description   *string
	Tags          *[]string
	Status        *Status
}

// Apply 按字段merge更新（只覆盖提供的字段）
func (b *Book) Apply(u Update) error {
	if u.Title != nil {
		if *u.Title == "" {
			return ErrTitleAuthorRequired
		}
		b.Title = *u.Title
	}
	if u.Author != nil {
		if *u.Author == "" {
			return ErrTitleAuthorRequired
		}
		b.Author = *u.Author
	}
	if u.ISBN != nil {
		b.ISBN = u.ISBN
	}
	if u.PublishedYear != nil {
		b.PublishedYear = u.PublishedYear
	}
	if u.Description != nil {
		b.Description = u.Description
	}
	if u.Tags != nil {
		b.Tags = *u.Tags
	}
	if u.Status != nil {
		if !u.Status.Valid() {
			return ErrInvalidStatus
		}
		b.Status = *u.Status
	}
	return nil
}

// EmbeddingText 拼接用于语义检索的文本表示
// 组合标题、作者、描述和标签
func (b *Book) EmbeddingText() string {
	text := b.Title + " by " + b.Author
	if b.Description != nil && *b.Description != "" {
		text += ". " + *b.Description
	}
	if len(b.Tags) > 0 {
		text += ". "
		for i, t := range b.Tags {
			if i > 0 {
				text += " "
			}
			text += t
		}
	}
	return text
}
