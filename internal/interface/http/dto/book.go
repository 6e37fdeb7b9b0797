package dto

// CreateBookRequest 图书上架请求
type CreateBookRequest struct {
	Title         string   `json:"title" binding:"required,min=1,max=500"`
	Author        string   `json:"author" binding:"required,min=1,max=200"`
	ISBN          *string  `json:"isbn" binding:"omitempty,max=20"`
	PublishedYear *int     `json:"published_year" binding:"omitempty,min=0,max=3000"`
	Description   *string  `json:"description"`
	Tags          []string `json:"tags"`
}

// UpdateBookRequest 图书更新请求
// 部分更新:省略的字段保持原值,显式传null的指针字段同样视为未提供
// tags传[]可以清空标签
type UpdateBookRequest struct {
	Title         *string   `json:"title" binding:"omitempty,min=1,max=500"`
	Author        *string   `json:"author" binding:"omitempty,min=1,max=200"`
	ISBN          *string   `json:"isbn" binding:"omitempty,max=20"`
	PublishedYear *int      `json:"published_year" binding:"omitempty,min=0,max=3000"`
	Description   *string   `json:"description"`
	Tags          *[]string `json:"tags"`
	Status        *string   `json:"status" binding:"omitempty,oneof=AVAILABLE BORROWED"`
}

// ListBooksRequest 图书列表查询参数
// 分页参数不能加omitempty:显式传0会被当成"未提供"跳过min校验,
// 零值一路漏到分页计算里除零
type ListBooksRequest struct {
	Query    string `form:"q"`
	Author   string `form:"author"`
	Tag      string `form:"tag"`
	Status   string `form:"status" binding:"omitempty,oneof=AVAILABLE BORROWED"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
}
