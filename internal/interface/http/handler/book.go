package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/wenjun/bookshop/internal/application/book"
	"github.com/wenjun/bookshop/internal/interface/http/dto"
	"github.com/wenjun/bookshop/internal/interface/http/middleware"
	"github.com/wenjun/bookshop/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	publishBookUseCase *appbook.PublishBookUseCase
	listBooksUseCase   *appbook.ListBooksUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	publishBookUseCase *appbook.PublishBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
) *BookHandler {
	return &BookHandler{
		publishBookUseCase: publishBookUseCase,
		listBooksUseCase:   listBooksUseCase,
	}
}

// ListBooks 浏览图书目录
// @Summary      图书目录
// @Description  公开接口:分页浏览在售图书,支持关键词搜索与排序,返回当前成交价
// @Tags         图书
// @Produce      json
// @Param        page query int false "页码(默认1)"
// @Param        page_size query int false "每页数量(默认20,最大100)"
// @Param        keyword query string false "搜索关键词(标题/作者/出版社)"
// @Param        sort_by query string false "排序(price_asc/price_desc/created_at_desc)"
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 会员目录只展示在售图书
	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:          req.Page,
		PageSize:      req.PageSize,
		Keyword:       req.Keyword,
		SortBy:        req.SortBy,
		OnlyAvailable: true,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// PublishBook 上架图书(店员接口)
// @Summary      上架图书
// @Description  店员上架新书;普通会员调用返回403
// @Tags         店员
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "非店员"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/v1/staff/books [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 获取当前登录店员ID(RequireStaff已确认角色)
	staffID := middleware.MustGetMemberID(c)

	// 3. 调用应用层用例
	result, err := h.publishBookUseCase.Execute(c.Request.Context(), appbook.PublishBookRequest{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		Price:       req.Price,
		Stock:       req.Stock,
		CoverURL:    req.CoverURL,
		Description: req.Description,
		StaffID:     staffID,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	// 4. 构建HTTP响应(新书上架即为标价,无促销)
	response.Success(c, &dto.BookResponse{
		ID:             result.ID,
		ISBN:           result.ISBN,
		Title:          result.Title,
		Author:         result.Author,
		Publisher:      result.Publisher,
		Price:          result.Price,
		EffectivePrice: result.Price,
		OnSale:         false,
		Stock:          result.Stock,
		Available:      true,
		CoverURL:       result.CoverURL,
		Description:    result.Description,
		CreatedAt:      result.CreatedAt,
	})
}
