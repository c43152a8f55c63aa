package dto

// PlaceOrderRequest HTTP层下单请求
type PlaceOrderRequest struct {
	Items []PlaceOrderItem `json:"items" binding:"required,min=1,max=50,dive"`
}

// PlaceOrderItem 下单明细项
// 单条目数量上限999:挡住明显异常的请求
type PlaceOrderItem struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1,max=999"`
}

// PlaceOrderResponse 下单响应
type PlaceOrderResponse struct {
	OrderID            uint   `json:"order_id"`
	ClaimCode          string `json:"claim_code"` // 取书码,会员凭此到店取书
	Total              int64  `json:"total"`
	TotalYuan          string `json:"total_yuan"`
	FivePercentApplied bool   `json:"five_percent_applied"`
	TenPercentApplied  bool   `json:"ten_percent_applied"`
	Status             string `json:"status"`
	CreatedAt          string `json:"created_at"`
}

// FulfillOrderRequest HTTP层核销请求(店员接口)
type FulfillOrderRequest struct {
	ClaimCode string `json:"claim_code" binding:"required"`
}

// FulfillOrderResponse 核销响应
type FulfillOrderResponse struct {
	OrderID     uint   `json:"order_id"`
	MemberName  string `json:"member_name"`
	LineCount   int    `json:"line_count"`
	Total       int64  `json:"total"`
	TotalYuan   string `json:"total_yuan"`
	FulfilledAt string `json:"fulfilled_at"`
}

// ListOrdersRequest 订单历史查询参数
type ListOrdersRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// AnnouncementsRequest 店内公告查询参数
type AnnouncementsRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// AnnouncementItem 一条店内公告
type AnnouncementItem struct {
	Message    string `json:"message"`
	OccurredAt string `json:"occurred_at"`
}
