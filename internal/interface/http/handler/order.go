package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/wenjun/bookshop/internal/application/order"
	"github.com/wenjun/bookshop/internal/interface/http/dto"
	"github.com/wenjun/bookshop/internal/interface/http/middleware"
	"github.com/wenjun/bookshop/pkg/response"
)

// OrderHandler 订单HTTP处理器(会员侧)
// 下单、取消、订单历史;核销在StaffHandler
type OrderHandler struct {
	placeOrderUseCase  *apporder.PlaceOrderUseCase
	cancelOrderUseCase *apporder.CancelOrderUseCase
	listOrdersUseCase  *apporder.ListOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	placeOrderUseCase *apporder.PlaceOrderUseCase,
	cancelOrderUseCase *apporder.CancelOrderUseCase,
	listOrdersUseCase *apporder.ListOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		placeOrderUseCase:  placeOrderUseCase,
		cancelOrderUseCase: cancelOrderUseCase,
		listOrdersUseCase:  listOrdersUseCase,
	}
}

// PlaceOrder 下单
// @Summary      下单
// @Description  会员提交订单,返回取书码;按不同图书条目数自动套用95折/9折;下单不扣库存
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PlaceOrderRequest true "订单明细"
// @Success      200 {object} response.Response{data=dto.PlaceOrderResponse} "下单成功"
// @Failure      400 {object} response.Response "参数错误/明细重复/库存不足"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 获取当前登录会员ID
	memberID := middleware.MustGetMemberID(c)

	// 3. HTTP层DTO → 应用层DTO
	items := make([]apporder.PlaceOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.PlaceOrderItem{
			BookID:   item.BookID,
			Quantity: item.Quantity,
		}
	}

	// 4. 调用应用层用例
	result, err := h.placeOrderUseCase.Execute(c.Request.Context(), apporder.PlaceOrderRequest{
		MemberID: memberID,
		Items:    items,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	// 5. 返回取书码等信息
	response.Success(c, &dto.PlaceOrderResponse{
		OrderID:            result.OrderID,
		ClaimCode:          result.ClaimCode,
		Total:              result.Total,
		TotalYuan:          result.TotalYuan,
		FivePercentApplied: result.FivePercentApplied,
		TenPercentApplied:  result.TenPercentApplied,
		Status:             result.Status,
		CreatedAt:          result.CreatedAt,
	})
}

// CancelOrder 取消订单
// @Summary      取消订单
// @Description  会员取消自己的待取书订单;他人订单与不存在的订单统一返回404
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response "取消成功"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      422 {object} response.Response "订单状态不允许取消"
// @Router       /api/v1/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	// 1. 解析路径参数
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || orderID == 0 {
		response.ErrorWithCode(c, 40900, "订单ID格式错误")
		return
	}

	// 2. 获取当前登录会员ID
	memberID := middleware.MustGetMemberID(c)

	// 3. 调用应用层用例(归属校验在用例内完成)
	if err := h.cancelOrderUseCase.Execute(c.Request.Context(), memberID, uint(orderID)); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "订单已取消", nil)
}

// ListOrders 订单历史
// @Summary      订单历史
// @Description  会员分页查看自己的订单,时间倒序,含取书码与价格快照
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码(默认1)"
// @Param        page_size query int false "每页数量(默认20,最大100)"
// @Success      200 {object} response.Response{data=response.PageData}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	memberID := middleware.MustGetMemberID(c)

	result, err := h.listOrdersUseCase.Execute(c.Request.Context(), apporder.ListOrdersRequest{
		MemberID: memberID,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}
