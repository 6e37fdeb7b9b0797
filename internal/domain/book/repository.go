package book

import (
	"context"
)

// ListParams 列表查询参数
// 所有过滤条件彼此独立、同时生效（AND组合）
type ListParams struct {
	Query    string // 关键词（标题/作者/ISBN/描述 模糊匹配,大小写不敏感）
	Author   string // 作者模糊匹配
	Tag      string // 标签精确匹配（命中tags数组任一元素）
	Status   Status // 状态精确匹配,空值表示不过滤
	Page     int    // 页码（从1开始）
	PageSize int    // 每页数量（1-100）
}

// Repository 图书仓储接口（依赖倒置原则）
// 设计说明:
// 1. 由domain层定义接口，infrastructure层实现
// 2. LockByID/UpdateStatus/Delete参与事务时从context提取事务DB
type Repository interface {
	// Create 创建图书
	// ISBN唯一索引冲突时返回ErrISBNDuplicate
	Create(ctx context.Context, b *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id string) (*Book, error)

	// Update 保存图书全部字段（merge后的实体）
	// ISBN唯一索引冲突时返回ErrISBNDuplicate
	Update(ctx context.Context, b *Book) error

	// Delete 删除图书
	Delete(ctx context.Context, id string) error

	// List 分页查询图书列表,按创建时间降序
	// 返回当页数据和过滤后的总数
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// FindAll 查询全部图书（语义检索用,小馆藏全量进内存）
	FindAll(ctx context.Context) ([]*Book, error)

	// FindByKeywords 关键词OR匹配（标题/作者/描述）,按创建时间降序取limit条
	// 问答检索用;keywords为空时返回最近入馆的limit条
	FindByKeywords(ctx context.Context, keywords []string, limit int) ([]*Book, error)

	// LockByID 悲观锁查询图书（SELECT FOR UPDATE）
	// 借出/删除用:锁定行直到事务提交,串行化同一本书上的并发操作
	LockByID(ctx context.Context, id string) (*Book, error)

	// UpdateStatus 更新图书状态
	// 图书不存在时返回ErrBookNotFound（归还路径会忽略该错误）
	UpdateStatus(ctx context.Context, id string, status Status) error
}
