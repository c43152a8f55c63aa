package order

import (
	"time"
)

// OrderStatus 订单状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 定义为类型别名,便于添加方法
// 3. 状态流转:Pending是唯一的非终态,核销或取消后不可再变更
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 1 // 待取书(下单成功,等待到店核销)
	OrderStatusFulfilled OrderStatus = 2 // 已核销(店员已发书,库存已扣减)
	OrderStatusCancelled OrderStatus = 3 // 已取消
)

// String 实现Stringer接口(方便日志输出)
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "待取书"
	case OrderStatusFulfilled:
		return "已核销"
	case OrderStatusCancelled:
		return "已取消"
	default:
		return "未知状态"
	}
}

// Order 订单实体(聚合根)
// 教学要点:
// 1. Order是聚合根,OrderItem是子实体
// 2. ClaimCode是取书码(UUID,全局唯一且不可猜测),会员凭此到店取书
// 3. Total是折后总金额(分),冗余存储(避免重复计算,防止改价攻击)
// 4. 折扣标记(FivePercentApplied/TenPercentApplied)互斥,记录下单时命中的档位
type Order struct {
	ID                 uint
	MemberID           uint        // 下单会员ID
	ClaimCode          string      // 取书码(业务主键,全局唯一)
	Total              int64       // 折后总金额(分),冗余字段
	Status             OrderStatus // 订单状态
	FivePercentApplied bool        // 是否命中95折(5-9个不同条目)
	TenPercentApplied  bool        // 是否命中9折(10个及以上不同条目)
	Items              []OrderItem // 订单明细(聚合内的子实体)
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OrderItem 订单明细项
// 教学要点:
// 1. 不是独立聚合根,必须通过Order访问
// 2. UnitPrice记录"下单时的实际成交单价"(历史价格快照,含促销折扣)
//    图书之后改价或促销结束,不影响已生成的订单金额
// 3. 不直接关联Book对象,只保存BookID(避免跨聚合引用)
type OrderItem struct {
	ID        uint
	OrderID   uint  // 所属订单ID
	BookID    uint  // 图书ID
	Quantity  int   // 购买数量
	UnitPrice int64 // 下单时的单价快照(分)
}

// ProcessedOrder 核销记录
// 教学要点:
// 1. 每张订单最多核销一次:processed_orders.order_id上的UNIQUE索引
//    是并发核销的最终防线(状态检查存在时间窗口)
// 2. 记录核销店员与时间,便于审计
type ProcessedOrder struct {
	ID          uint
	OrderID     uint // 被核销的订单ID(UNIQUE)
	StaffID     uint // 核销店员ID
	ProcessedAt time.Time
}

// NewOrder 创建新订单(工厂方法)
// 教学要点:
// 1. 工厂方法封装创建逻辑,保证实体的有效性
// 2. 取书码由外部传入(claim_code.go使用UUID生成)
// 3. 初始状态为Pending(待取书)
func NewOrder(claimCode string, memberID uint, items []OrderItem, total int64, fivePct, tenPct bool) *Order {
	now := time.Now()
	return &Order{
		ClaimCode:          claimCode,
		MemberID:           memberID,
		Total:              total,
		Status:             OrderStatusPending,
		FivePercentApplied: fivePct,
		TenPercentApplied:  tenPct,
		Items:              items,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
// 教学要点:状态机设计,防止非法状态跳转
// 例如:已取消的订单不能再核销
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusFulfilled, OrderStatusCancelled}, // 待取书→已核销/已取消
		OrderStatusFulfilled: {},                                           // 已核销→终态
		OrderStatusCancelled: {},                                           // 已取消→终态
	}

	allowedTargets, exists := transitions[o.Status]
	if !exists {
		return false
	}

	for _, allowed := range allowedTargets {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
// 教学要点:
// 1. 先检查是否可以转换(业务规则校验)
// 2. 转换成功更新UpdatedAt(审计追踪)
func (o *Order) TransitionTo(target OrderStatus) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// Fulfill 核销订单(领域行为)
func (o *Order) Fulfill() error {
	return o.TransitionTo(OrderStatusFulfilled)
}

// Cancel 取消订单(领域行为)
func (o *Order) Cancel() error {
	return o.TransitionTo(OrderStatusCancelled)
}

// IsCancelled 是否已取消
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsFulfilled 是否已核销
func (o *Order) IsFulfilled() bool {
	return o.Status == OrderStatusFulfilled
}

// CalculateItemsTotal 计算明细原价小计(未扣折扣)
// 教学要点:
// 1. 根据OrderItem的快照单价实时计算
// 2. 下单用例以此为基数套用折扣档位
func (o *Order) CalculateItemsTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// DistinctLineCount 不同条目数
// 折扣档位按"不同图书条目数"计算,与每条目的数量无关:
// 买10本同一种书只算1个条目,不触发折扣
func (o *Order) DistinctLineCount() int {
	return len(o.Items)
}

// IsOwnedBy 检查订单是否属于指定会员
// 教学要点:权限校验,防止会员访问他人订单
func (o *Order) IsOwnedBy(memberID uint) bool {
	return o.MemberID == memberID
}
