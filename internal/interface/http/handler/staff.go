package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/wenjun/bookshop/internal/application/order"
	"github.com/wenjun/bookshop/internal/interface/http/dto"
	"github.com/wenjun/bookshop/internal/interface/http/middleware"
	"github.com/wenjun/bookshop/pkg/response"
)

// StaffHandler 店员柜台HTTP处理器
// 核销是库存扣减的唯一入口,路由上必须挂RequireStaff
type StaffHandler struct {
	fulfillOrderUseCase *apporder.FulfillOrderUseCase
}

// NewStaffHandler 创建店员处理器
func NewStaffHandler(fulfillOrderUseCase *apporder.FulfillOrderUseCase) *StaffHandler {
	return &StaffHandler{
		fulfillOrderUseCase: fulfillOrderUseCase,
	}
}

// FulfillOrder 核销订单(会员到店取书)
// @Summary      核销订单
// @Description  店员凭会员出示的取书码核销;原子扣减全部条目库存,任一不足整单失败;重复核销被拒
// @Tags         店员
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.FulfillOrderRequest true "取书码"
// @Success      200 {object} response.Response{data=dto.FulfillOrderResponse} "核销成功"
// @Failure      400 {object} response.Response "参数错误/库存不足"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "非店员"
// @Failure      404 {object} response.Response "取书码无效或订单已取消"
// @Failure      409 {object} response.Response "订单已核销"
// @Router       /api/v1/staff/orders/fulfill [post]
func (h *StaffHandler) FulfillOrder(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.FulfillOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 获取当前店员ID(RequireStaff已确认角色)
	staffID := middleware.MustGetMemberID(c)

	// 3. 调用核销用例
	result, err := h.fulfillOrderUseCase.Execute(c.Request.Context(), apporder.FulfillOrderRequest{
		StaffID:   staffID,
		ClaimCode: req.ClaimCode,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	// 4. 返回核销结果(店员据此与会员核对)
	response.SuccessWithMessage(c, result.Message, &dto.FulfillOrderResponse{
		OrderID:     result.OrderID,
		MemberName:  result.MemberName,
		LineCount:   result.LineCount,
		Total:       result.Total,
		TotalYuan:   result.TotalYuan,
		FulfilledAt: result.FulfilledAt,
	})
}
