package book

import (
	"context"
	"time"

	"github.com/wenjun/bookshop/internal/domain/book"
)

// ListBooksUseCase 图书目录查询用例
// 设计说明:
// 1. 支持分页、搜索、排序
// 2. 列表查询不返回description字段(减少数据传输量)
// 3. 返回当前成交价(含促销折扣),会员浏览时所见即所得
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建目录查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 目录查询请求DTO
type ListBooksRequest struct {
	Page          int    // 页码(从1开始)
	PageSize      int    // 每页数量
	Keyword       string // 搜索关键词(搜索标题、作者、出版社)
	SortBy        string // 排序方式(price_asc, price_desc, created_at_desc)
	OnlyAvailable bool   // 仅在售图书(会员目录为true,店员管理页为false)
}

// BookListItem 列表项DTO(不含description)
type BookListItem struct {
	ID             uint   `json:"id"`
	ISBN           string `json:"isbn"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	Publisher      string `json:"publisher"`
	Price          int64  `json:"price"`           // 标价(分)
	EffectivePrice int64  `json:"effective_price"` // 当前成交价(分,含促销)
	OnSale         bool   `json:"on_sale"`
	Stock          int    `json:"stock"`
	Available      bool   `json:"available"`
	CoverURL       string `json:"cover_url"`
	CreatedAt      string `json:"created_at"`
}

// ListBooksResponse 目录查询响应DTO
type ListBooksResponse struct {
	List       []BookListItem `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Execute 执行目录查询用例
// 学习要点:
// 1. 参数默认值处理(page默认1, pageSize默认20)
// 2. 参数范围限制(pageSize最大100)
// 3. 调用Repository的List方法执行查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 1. 参数默认值与范围限制
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20 // 默认每页20条
	}
	if req.PageSize > 100 {
		req.PageSize = 100 // 最大每页100条
	}

	// 2. 构建Repository查询参数
	params := book.ListParams{
		Page:          req.Page,
		PageSize:      req.PageSize,
		Keyword:       req.Keyword,
		SortBy:        req.SortBy,
		OnlyAvailable: req.OnlyAvailable,
	}

	// 3. 调用领域服务查询
	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	// 4. 转换为DTO(成交价按当前时间计算)
	now := time.Now()
	list := make([]BookListItem, len(books))
	for i, b := range books {
		list[i] = BookListItem{
			ID:             b.ID,
			ISBN:           b.ISBN,
			Title:          b.Title,
			Author:         b.Author,
			Publisher:      b.Publisher,
			Price:          b.Price,
			EffectivePrice: b.EffectivePrice(now),
			OnSale:         b.OnSale,
			Stock:          b.Stock,
			Available:      b.Available,
			CoverURL:       b.CoverURL,
			CreatedAt:      b.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	// 5. 计算总页数
	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}
