package order

import (
	"context"
	"fmt"
	"time"

	"github.com/wenjun/bookshop/internal/domain/book"
	"github.com/wenjun/bookshop/internal/domain/member"
	"github.com/wenjun/bookshop/internal/domain/order"
	"github.com/wenjun/bookshop/internal/infrastructure/notification"
	"github.com/wenjun/bookshop/pkg/metrics"
	"github.com/wenjun/bookshop/pkg/tracing"
)

// FulfillOrderUseCase 核销(取书)用例
// 教学重点:库存扣减的唯一入口,防超卖的完整流程
//
// 核心问题:并发核销与库存竞争
// 场景1:两个店员同时核销同一取书码
//   防线1:状态检查(存在时间窗口,不够)
//   防线2:processed_orders.order_id的UNIQUE索引(最终防线)
// 场景2:两张订单争夺同一本书的最后库存
//   防线:SELECT FOR UPDATE锁行 + 条件UPDATE(stock >= ?)
//
// all-or-nothing:任一条目库存不足,整个事务回滚,不留部分扣减
type FulfillOrderUseCase struct {
	orderRepo  order.Repository
	bookRepo   book.Repository
	memberRepo member.Repository
	txManager  TxManager
	notifier   Notifier
}

// NewFulfillOrderUseCase 创建核销用例
func NewFulfillOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	memberRepo member.Repository,
	txManager TxManager,
	notifier Notifier,
) *FulfillOrderUseCase {
	return &FulfillOrderUseCase{
		orderRepo:  orderRepo,
		bookRepo:   bookRepo,
		memberRepo: memberRepo,
		txManager:  txManager,
		notifier:   notifier,
	}
}

// FulfillOrderRequest 核销请求DTO
type FulfillOrderRequest struct {
	StaffID   uint   // 核销店员ID(从JWT中提取,须为staff角色)
	ClaimCode string // 会员出示的取书码
}

// FulfillOrderResponse 核销响应DTO
type FulfillOrderResponse struct {
	OrderID     uint   `json:"order_id"`
	MemberName  string `json:"member_name"`
	LineCount   int    `json:"line_count"`
	Total       int64  `json:"total"`
	TotalYuan   string `json:"total_yuan"`
	Message     string `json:"message"`
	FulfilledAt string `json:"fulfilled_at"`
}

// Execute 执行核销用例
//
// 事务内步骤:
// 1. 按取书码查订单(无匹配→订单不存在)
// 2. 已取消的订单对核销而言等同不存在
// 3. 已核销(状态或核销记录)→拒绝重复核销
// 4. 逐条目锁定图书行并原子扣减库存(任一失败整体回滚)
// 5. 状态置为已核销+写核销记录(UNIQUE索引兜底并发)
func (uc *FulfillOrderUseCase) Execute(ctx context.Context, req FulfillOrderRequest) (*FulfillOrderResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "bookshop", "FulfillOrder")
	defer span.End()

	start := time.Now()

	if req.ClaimCode == "" {
		return nil, order.ErrOrderNotFound
	}

	var (
		result      *order.Order
		processedAt time.Time
	)
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:按取书码查订单
		// ========================================
		ord, err := uc.orderRepo.FindByClaimCode(txCtx, req.ClaimCode)
		if err != nil {
			return err // 无匹配→ErrOrderNotFound,不改变任何状态
		}

		// ========================================
		// 步骤2:状态检查
		// ========================================
		// 已取消订单对核销而言等同不存在(不暴露取书码曾经有效)
		if ord.IsCancelled() {
			return order.ErrOrderNotFound
		}
		if ord.IsFulfilled() {
			return order.ErrAlreadyFulfilled
		}
		// 核销记录二次确认(状态与记录可能因历史数据不一致)
		processed, err := uc.orderRepo.HasProcessed(txCtx, ord.ID)
		if err != nil {
			return err
		}
		if processed {
			return order.ErrAlreadyFulfilled
		}

		// ========================================
		// 步骤3:扣减库存(防超卖核心)
		// ========================================
		// 教学要点:先FOR UPDATE锁行做all-or-nothing预检,
		// 再逐条目条件UPDATE扣减——预检挡住大多数不足场景并给出
		// 友好错误,条件UPDATE保证即使预检与扣减间有竞争也不会超卖
		for _, item := range ord.Items {
			b, err := uc.bookRepo.LockByID(txCtx, item.BookID)
			if err != nil {
				return err
			}
			if err := b.DecrStock(item.Quantity); err != nil {
				// 任一条目不足,整体回滚,已扣减的条目一并恢复
				return err
			}
		}
		for _, item := range ord.Items {
			if err := uc.bookRepo.DeductStock(txCtx, item.BookID, item.Quantity); err != nil {
				return err
			}
		}

		// ========================================
		// 步骤4:状态流转+核销记录
		// ========================================
		if err := ord.Fulfill(); err != nil {
			return err
		}
		if err := uc.orderRepo.Update(txCtx, ord); err != nil {
			return err
		}

		processedAt = time.Now()
		// UNIQUE索引是并发重复核销的最终防线:
		// 另一店员先提交时,这里的INSERT返回ErrAlreadyFulfilled并回滚
		if err := uc.orderRepo.CreateProcessed(txCtx, &order.ProcessedOrder{
			OrderID:     ord.ID,
			StaffID:     req.StaffID,
			ProcessedAt: processedAt,
		}); err != nil {
			return err
		}

		result = ord
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 事务已提交:记录指标,通知入队(fire-and-forget)
	metrics.OrdersFulfilled.Inc()
	metrics.FulfillmentDuration.Observe(time.Since(start).Seconds())

	// 会员信息查询失败只影响通知内容,不影响核销结果
	memberName, memberEmail := "", ""
	if m, err := uc.memberRepo.FindByID(ctx, result.MemberID); err == nil {
		memberName = m.FullName
		memberEmail = m.Email
	}

	uc.notifier.Enqueue(notification.OrderFulfilledEvent{
		OrderID:     result.ID,
		MemberID:    result.MemberID,
		MemberEmail: memberEmail,
		MemberName:  memberName,
		ClaimCode:   result.ClaimCode,
		StaffID:     req.StaffID,
		FulfilledAt: processedAt,
	})

	return &FulfillOrderResponse{
		OrderID:     result.ID,
		MemberName:  memberName,
		LineCount:   result.DistinctLineCount(),
		Total:       result.Total,
		TotalYuan:   formatPrice(result.Total),
		Message:     fmt.Sprintf("核销成功:订单%d,共%d种图书,金额%s元", result.ID, result.DistinctLineCount(), formatPrice(result.Total)),
		FulfilledAt: processedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
