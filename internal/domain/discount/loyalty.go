package discount

import (
	"context"
)

// FulfilledCounter 已核销订单计数接口
// 由order.Repository实现(CountFulfilledByMember),
// 这里只声明最小依赖,避免discount包反向依赖order包
type FulfilledCounter interface {
	CountFulfilledByMember(ctx context.Context, memberID uint) (int64, error)
}

// LoyaltyConfig 忠实读者资格配置
type LoyaltyConfig struct {
	RequiredFulfilledOrders int64 // 达标所需的已核销订单数(默认10)
}

// DefaultLoyaltyConfig 默认忠实读者配置
func DefaultLoyaltyConfig() LoyaltyConfig {
	return LoyaltyConfig{RequiredFulfilledOrders: 10}
}

// LoyaltyChecker 忠实读者资格判定
// 设计说明:
// 1. 纯读操作:资格每次查询时实时计算,不落库、不打快照
//    同一会员在订单数据不变时重复查询结果恒定
// 2. 只统计已核销订单:已取消订单状态互斥,天然不计入
type LoyaltyChecker struct {
	cfg     LoyaltyConfig
	counter FulfilledCounter
}

// NewLoyaltyChecker 创建忠实读者判定器
func NewLoyaltyChecker(cfg LoyaltyConfig, counter FulfilledCounter) *LoyaltyChecker {
	if cfg.RequiredFulfilledOrders <= 0 {
		cfg.RequiredFulfilledOrders = DefaultLoyaltyConfig().RequiredFulfilledOrders
	}
	return &LoyaltyChecker{cfg: cfg, counter: counter}
}

// Check 判定会员是否为忠实读者
// 返回(是否达标, 当前已核销订单数, 达标所需订单数)
func (c *LoyaltyChecker) Check(ctx context.Context, memberID uint) (bool, int64, int64, error) {
	count, err := c.counter.CountFulfilledByMember(ctx, memberID)
	if err != nil {
		return false, 0, c.cfg.RequiredFulfilledOrders, err
	}
	return count >= c.cfg.RequiredFulfilledOrders, count, c.cfg.RequiredFulfilledOrders, nil
}
