package dto

// EnrichRequest 元数据生成请求
type EnrichRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=500"`
	Author      string  `json:"author" binding:"required,min=1,max=200"`
	Description *string `json:"description"`
}

// SemanticSearchRequest 语义检索查询参数
type SemanticSearchRequest struct {
	Query string `form:"q" binding:"required,min=1,max=500"`
	TopK  int    `form:"top_k,default=10" binding:"min=1,max=50"`
}

// AskRequest 馆藏问答请求
type AskRequest struct {
	Question string `json:"question" binding:"required,min=1,max=500"`
}
