package order

import (
	"context"
)

// Repository 订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
type Repository interface {
	// Create 创建订单(包含订单明细)
	// 教学要点:订单和明细必须在同一事务中创建
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含订单明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByClaimCode 根据取书码查找订单(包含订单明细)
	// 核销入口:取书码无匹配时返回ErrOrderNotFound
	FindByClaimCode(ctx context.Context, claimCode string) (*Order, error)

	// Update 更新订单(主要用于状态更新)
	Update(ctx context.Context, order *Order) error

	// ListByMemberID 查询会员的订单列表
	// 教学要点:支持分页,避免一次性查询大量数据
	ListByMemberID(ctx context.Context, memberID uint, page, pageSize int) ([]*Order, int64, error)

	// CountFulfilledByMember 统计会员的已核销订单数
	// 忠实读者资格判定用:只读,已取消订单天然不计入(状态互斥)
	CountFulfilledByMember(ctx context.Context, memberID uint) (int64, error)

	// CreateProcessed 写入核销记录
	// order_id上的UNIQUE索引保证一张订单最多核销一次,
	// 并发重复核销时返回ErrAlreadyFulfilled
	CreateProcessed(ctx context.Context, processed *ProcessedOrder) error

	// HasProcessed 查询订单是否已有核销记录
	HasProcessed(ctx context.Context, orderID uint) (bool, error)
}
