package order

import (
	"context"

	"github.com/wenjun/bookshop/internal/domain/order"
	"github.com/wenjun/bookshop/pkg/metrics"
)

// CancelOrderUseCase 取消订单用例
// 业务规则:
// 1. 只能取消自己的订单(他人订单等同不存在,不泄露存在性)
// 2. 只有待取书状态可取消:已核销→拒绝,已取消→幂等拒绝
// 3. 取消不涉及库存:下单从未扣过库存,无需恢复
type CancelOrderUseCase struct {
	orderRepo order.Repository
	txManager TxManager
}

// NewCancelOrderUseCase 创建取消用例
func NewCancelOrderUseCase(orderRepo order.Repository, txManager TxManager) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo: orderRepo,
		txManager: txManager,
	}
}

// Execute 执行取消
// 教学要点:读-改-写放在事务里,防止与并发核销交错——
// 核销事务持有订单相关行锁提交后,这里读到的必然是已核销状态
func (uc *CancelOrderUseCase) Execute(ctx context.Context, memberID, orderID uint) error {
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		ord, err := uc.orderRepo.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}

		// 他人订单等同不存在
		if !ord.IsOwnedBy(memberID) {
			return order.ErrOrderNotFound
		}

		// 状态机拒绝非Pending的取消(含重复取消)
		if err := ord.Cancel(); err != nil {
			return err
		}

		return uc.orderRepo.Update(txCtx, ord)
	})

	if err != nil {
		return err
	}

	metrics.OrdersCancelled.Inc()
	return nil
}
