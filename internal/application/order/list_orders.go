package order

import (
	"context"

	"github.com/wenjun/bookshop/internal/domain/order"
)

// ListOrdersUseCase 订单历史查询用例
// 会员查看自己的订单列表,分页,时间倒序
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建订单历史查询用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// ListOrdersRequest 查询请求DTO
type ListOrdersRequest struct {
	MemberID uint // 会员ID(从JWT中提取)
	Page     int
	PageSize int
}

// OrderListItem 订单列表项DTO
type OrderListItem struct {
	OrderID            uint                `json:"order_id"`
	ClaimCode          string              `json:"claim_code"`
	Total              int64               `json:"total"`
	TotalYuan          string              `json:"total_yuan"`
	Status             string              `json:"status"`
	FivePercentApplied bool                `json:"five_percent_applied"`
	TenPercentApplied  bool                `json:"ten_percent_applied"`
	Items              []OrderListItemLine `json:"items"`
	CreatedAt          string              `json:"created_at"`
}

// OrderListItemLine 订单明细行DTO
type OrderListItemLine struct {
	BookID    uint  `json:"book_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"` // 下单时单价快照(分)
}

// ListOrdersResponse 查询响应DTO
type ListOrdersResponse struct {
	List       []OrderListItem `json:"list"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// Execute 执行查询
func (uc *ListOrdersUseCase) Execute(ctx context.Context, req ListOrdersRequest) (*ListOrdersResponse, error) {
	// 分页参数兜底
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	orders, total, err := uc.orderRepo.ListByMemberID(ctx, req.MemberID, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	list := make([]OrderListItem, len(orders))
	for i, o := range orders {
		lines := make([]OrderListItemLine, len(o.Items))
		for j, item := range o.Items {
			lines[j] = OrderListItemLine{
				BookID:    item.BookID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			}
		}
		list[i] = OrderListItem{
			OrderID:            o.ID,
			ClaimCode:          o.ClaimCode,
			Total:              o.Total,
			TotalYuan:          formatPrice(o.Total),
			Status:             o.Status.String(),
			FivePercentApplied: o.FivePercentApplied,
			TenPercentApplied:  o.TenPercentApplied,
			Items:              lines,
			CreatedAt:          o.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListOrdersResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}
