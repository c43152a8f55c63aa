package notification

import (
	"time"
)

// 事件路由键(RabbitMQ Topic Exchange)
const (
	RoutingKeyOrderPlaced    = "order.placed"
	RoutingKeyOrderFulfilled = "order.fulfilled"
)

// OrderPlacedEvent 下单成功事件
// 事务提交后由通知分发器异步投递:
// 1. 确认邮件(发给下单会员)
// 2. 店内公告(Redis广播日志)
// 3. 实时推送(RabbitMQ事件)
type OrderPlacedEvent struct {
	OrderID     uint      `json:"order_id"`
	MemberID    uint      `json:"member_id"`
	MemberEmail string    `json:"member_email"`
	MemberName  string    `json:"member_name"`
	ClaimCode   string    `json:"claim_code"`
	LineCount   int       `json:"line_count"` // 不同图书条目数
	Total       int64     `json:"total"`      // 折后总金额(分)
	PlacedAt    time.Time `json:"placed_at"`
}

// OrderFulfilledEvent 订单核销事件
type OrderFulfilledEvent struct {
	OrderID     uint      `json:"order_id"`
	MemberID    uint      `json:"member_id"`
	MemberEmail string    `json:"member_email"`
	MemberName  string    `json:"member_name"`
	ClaimCode   string    `json:"claim_code"`
	StaffID     uint      `json:"staff_id"`
	FulfilledAt time.Time `json:"fulfilled_at"`
}
