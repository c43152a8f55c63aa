package member

import (
	"context"

	"github.com/wenjun/bookshop/internal/domain/discount"
)

// LoyaltyUseCase 忠实读者资格查询用例
// 设计说明:
// 1. 纯读操作:资格每次查询实时计算,不落库
// 2. 判定标准:已核销订单数达到配置阈值
// 3. 已取消订单不计入(状态互斥)
type LoyaltyUseCase struct {
	checker *discount.LoyaltyChecker
}

// NewLoyaltyUseCase 创建忠实读者查询用例
func NewLoyaltyUseCase(checker *discount.LoyaltyChecker) *LoyaltyUseCase {
	return &LoyaltyUseCase{checker: checker}
}

// LoyaltyResponse 忠实读者资格响应
type LoyaltyResponse struct {
	Eligible        bool  `json:"eligible"`         // 是否为忠实读者
	FulfilledOrders int64 `json:"fulfilled_orders"` // 当前已核销订单数
	RequiredOrders  int64 `json:"required_orders"`  // 达标所需订单数
}

// Execute 查询指定会员的忠实读者资格
func (uc *LoyaltyUseCase) Execute(ctx context.Context, memberID uint) (*LoyaltyResponse, error) {
	eligible, count, required, err := uc.checker.Check(ctx, memberID)
	if err != nil {
		return nil, err
	}

	return &LoyaltyResponse{
		Eligible:        eligible,
		FulfilledOrders: count,
		RequiredOrders:  required,
	}, nil
}
