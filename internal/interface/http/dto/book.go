package dto

// PublishBookRequest HTTP层图书上架请求(店员接口)
type PublishBookRequest struct {
	ISBN        string `json:"isbn" binding:"required"`
	Title       string `json:"title" binding:"required,max=200"`
	Author      string `json:"author" binding:"required,max=100"`
	Publisher   string `json:"publisher" binding:"required,max=100"`
	Price       int64  `json:"price" binding:"required,min=1,max=999999"` // 标价(分)
	Stock       int    `json:"stock" binding:"min=0"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url"`
	Description string `json:"description" binding:"max=5000"`
}

// ListBooksRequest 目录查询参数(query string)
type ListBooksRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Keyword  string `form:"keyword"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc created_at_desc"`
}

// BookResponse 图书详情响应
type BookResponse struct {
	ID             uint   `json:"id"`
	ISBN           string `json:"isbn"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	Publisher      string `json:"publisher"`
	Price          int64  `json:"price"`           // 标价(分)
	EffectivePrice int64  `json:"effective_price"` // 当前成交价(分)
	OnSale         bool   `json:"on_sale"`
	Stock          int    `json:"stock"`
	Available      bool   `json:"available"`
	CoverURL       string `json:"cover_url"`
	Description    string `json:"description"`
	CreatedAt      string `json:"created_at"`
}
