package handler

import (
	"github.com/gin-gonic/gin"

	appai "github.com/xiebiao/library/internal/application/ai"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// AIHandler 智能功能HTTP处理器
// 三个接口都带确定性降级路径,模型不可用时照常响应,source字段标记来源
type AIHandler struct {
	enrichUseCase *appai.EnrichUseCase
	searchUseCase *appai.SemanticSearchUseCase
	askUseCase    *appai.AskUseCase
}

// NewAIHandler 创建智能功能处理器
func NewAIHandler(
	enrichUseCase *appai.EnrichUseCase,
	searchUseCase *appai.SemanticSearchUseCase,
	askUseCase *appai.AskUseCase,
) *AIHandler {
	return &AIHandler{
		enrichUseCase: enrichUseCase,
		searchUseCase: searchUseCase,
		askUseCase:    askUseCase,
	}
}

// Enrich 元数据生成
// @Summary      元数据生成
// @Description  为录入中的图书生成摘要/标签/关键词
// @Tags         智能
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.EnrichRequest true "图书基本信息"
// @Success      200 {object} response.Response{data=appai.EnrichResponse}
// @Failure      403 {object} response.Response "角色不允许"
// @Failure      422 {object} response.Response "参数错误"
// @Router       /api/v1/books/enrich [post]
func (h *AIHandler) Enrich(c *gin.Context) {
	var req dto.EnrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithErr(err))
		return
	}

	result, err := h.enrichUseCase.Execute(c.Request.Context(), appai.EnrichRequest{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SemanticSearch 语义检索
// @Summary      语义检索
// @Description  按语义相似度排序返回top-k;模型不可用时退化为关键词检索
// @Tags         智能
// @Produce      json
// @Param        q query string true "查询语句"
// @Param        top_k query int false "返回数量" default(10)
// @Success      200 {object} response.Response{data=appai.SemanticSearchResponse}
// @Failure      422 {object} response.Response "参数错误"
// @Router       /api/v1/books/ai-search [get]
func (h *AIHandler) SemanticSearch(c *gin.Context) {
	var req dto.SemanticSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithErr(err))
		return
	}

	result, err := h.searchUseCase.Execute(c.Request.Context(), appai.SemanticSearchRequest{
		Query: req.Query,
		TopK:  req.TopK,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Ask 馆藏问答
// @Summary      馆藏问答
// @Description  基于真实馆藏回答问题,不会编造不存在的书
// @Tags         智能
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AskRequest true "问题"
// @Success      200 {object} response.Response{data=appai.AskResponse}
// @Failure      422 {object} response.Response "参数错误"
// @Router       /api/v1/books/ask [post]
func (h *AIHandler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithErr(err))
		return
	}

	result, err := h.askUseCase.Execute(c.Request.Context(), appai.AskRequest{
		Question: req.Question,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
