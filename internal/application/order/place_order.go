package order

import (
	"context"
	"fmt"
	"time"

	"github.com/wenjun/bookshop/internal/domain/book"
	"github.com/wenjun/bookshop/internal/domain/discount"
	"github.com/wenjun/bookshop/internal/domain/member"
	"github.com/wenjun/bookshop/internal/domain/order"
	"github.com/wenjun/bookshop/internal/infrastructure/notification"
	apperrors "github.com/wenjun/bookshop/pkg/errors"
	"github.com/wenjun/bookshop/pkg/metrics"
	"github.com/wenjun/bookshop/pkg/tracing"
)

// TxManager 事务执行接口(mysql.TxManager实现)
// 定义在应用层便于单测用假实现替换
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier 通知入队接口(notification.Dispatcher实现)
// Enqueue必须是非阻塞、永不失败的:通知属于best-effort副作用
type Notifier interface {
	Enqueue(ev interface{})
}

// PlaceOrderUseCase 下单用例
// 教学要点:这是整个项目最核心的用例之一
// 流程:校验明细 → 价格快照 → 套用折扣 → 生成取书码 → 持久化 → 异步通知
//
// 与核销的关键区别:下单不扣库存
// 库存只在店员核销(会员到店取书)时扣减,下单只做劝导性库存检查,
// 挡掉明显无法履约的订单,真正的库存闸门在核销事务里
type PlaceOrderUseCase struct {
	orderRepo  order.Repository
	bookRepo   book.Repository
	memberRepo member.Repository
	policy     *discount.Policy
	txManager  TxManager
	notifier   Notifier
}

// NewPlaceOrderUseCase 创建下单用例
func NewPlaceOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	memberRepo member.Repository,
	policy *discount.Policy,
	txManager TxManager,
	notifier Notifier,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		orderRepo:  orderRepo,
		bookRepo:   bookRepo,
		memberRepo: memberRepo,
		policy:     policy,
		txManager:  txManager,
		notifier:   notifier,
	}
}

// PlaceOrderRequest 下单请求DTO
type PlaceOrderRequest struct {
	MemberID uint             // 下单会员ID(从JWT中提取)
	Items    []PlaceOrderItem // 订单明细
}

// PlaceOrderItem 订单明细项
type PlaceOrderItem struct {
	BookID   uint // 图书ID
	Quantity int  // 购买数量
}

// PlaceOrderResponse 下单响应DTO
type PlaceOrderResponse struct {
	OrderID            uint   `json:"order_id"`
	ClaimCode          string `json:"claim_code"`
	Total              int64  `json:"total"`
	TotalYuan          string `json:"total_yuan"`
	FivePercentApplied bool   `json:"five_percent_applied"`
	TenPercentApplied  bool   `json:"ten_percent_applied"`
	Status             string `json:"status"`
	CreatedAt          string `json:"created_at"`
}

// Execute 执行下单用例
//
// 教学重点:价格快照与折扣计算
// 1. 单价取"下单时刻的实际成交价"(EffectivePrice,含促销窗口判断)
//    写入OrderItem快照——图书之后改价不影响已生成订单
// 2. 折扣档位按"不同图书条目数"计算(len(items)),与数量无关:
//    同一本书买10本只算1个条目
// 3. 档位互斥:≥10条目打9折,≥5条目打95折,不叠加
// 4. 通知在事务提交之后入队:失败的通知绝不回滚已成立的订单
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "bookshop", "PlaceOrder")
	defer span.End()

	start := time.Now()

	// 1. 参数校验
	if len(req.Items) == 0 {
		return nil, order.ErrInvalidOrderItems
	}
	seen := make(map[uint]bool, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, order.ErrInvalidQuantity
		}
		// 同一图书多个条目会扭曲折扣档位,强制合并
		if seen[item.BookID] {
			return nil, order.ErrDuplicateBookLine
		}
		seen[item.BookID] = true
	}

	// 2. 解析会员(事件通知需要邮箱与姓名)
	m, err := uc.memberRepo.FindByID(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}

	// 使用事务执行下单流程
	// 教学要点:订单头+明细的写入必须原子
	var result *order.Order
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		now := time.Now()

		// ========================================
		// 步骤1:逐条目校验图书并做价格快照
		// ========================================
		// 下单不扣库存,因此无需SELECT FOR UPDATE——
		// 这里的库存检查是劝导性的,核销事务才是最终闸门
		orderItems := make([]order.OrderItem, len(req.Items))
		for i, item := range req.Items {
			b, err := uc.bookRepo.FindByID(txCtx, item.BookID)
			if err != nil {
				return err
			}

			if !b.Available {
				return apperrors.Newf(apperrors.ErrCodeInvalidItem, "图书《%s》已下架", b.Title)
			}
			if b.Stock < item.Quantity {
				return apperrors.Newf(apperrors.ErrCodeInsufficientStock,
					"图书《%s》库存不足,当前库存:%d,需要:%d", b.Title, b.Stock, item.Quantity)
			}

			// 教学要点:使用"下单时刻的成交价"而非前端传递的价格
			// 防止改价攻击,同时促销窗口内自动享受折扣价
			orderItems[i] = order.OrderItem{
				BookID:    item.BookID,
				Quantity:  item.Quantity,
				UnitPrice: b.EffectivePrice(now),
			}
		}

		// ========================================
		// 步骤2:计算折后总金额
		// ========================================
		var itemsTotal int64
		for _, item := range orderItems {
			itemsTotal += item.UnitPrice * int64(item.Quantity)
		}
		total, fivePct, tenPct := uc.policy.Apply(itemsTotal, len(orderItems))

		// ========================================
		// 步骤3:生成取书码并持久化订单
		// ========================================
		claimCode := order.GenerateClaimCode()
		newOrder := order.NewOrder(claimCode, req.MemberID, orderItems, total, fivePct, tenPct)

		if err := uc.orderRepo.Create(txCtx, newOrder); err != nil {
			return err
		}

		result = newOrder
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 4. 事务已提交:记录指标,通知入队(fire-and-forget)
	metrics.OrdersPlaced.Inc()
	metrics.PlacementDuration.Observe(time.Since(start).Seconds())

	uc.notifier.Enqueue(notification.OrderPlacedEvent{
		OrderID:     result.ID,
		MemberID:    m.ID,
		MemberEmail: m.Email,
		MemberName:  m.FullName,
		ClaimCode:   result.ClaimCode,
		LineCount:   result.DistinctLineCount(),
		Total:       result.Total,
		PlacedAt:    result.CreatedAt,
	})

	// 构建响应DTO
	return &PlaceOrderResponse{
		OrderID:            result.ID,
		ClaimCode:          result.ClaimCode,
		Total:              result.Total,
		TotalYuan:          formatPrice(result.Total),
		FivePercentApplied: result.FivePercentApplied,
		TenPercentApplied:  result.TenPercentApplied,
		Status:             result.Status.String(),
		CreatedAt:          result.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}
