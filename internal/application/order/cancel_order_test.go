package order

import (
	"context"
	"testing"

	"github.com/wenjun/bookshop/internal/domain/order"
)

// TestCancelOrder_PendingOwnOrder 取消自己的待取书订单
func TestCancelOrder_PendingOwnOrder(t *testing.T) {
	f := newFulfillFixture(t, 1, 2, 10)
	cancel := NewCancelOrderUseCase(f.orderRepo, &fakeTxManager{})

	if err := cancel.Execute(context.Background(), 42, f.orderID); err != nil {
		t.Fatalf("取消失败: %v", err)
	}

	stored, _ := f.orderRepo.FindByID(context.Background(), f.orderID)
	if !stored.IsCancelled() {
		t.Error("订单状态应为已取消")
	}

	// 下单未扣库存,取消也不应动库存
	if got := f.bookRepo.stockOf(1); got != 10 {
		t.Errorf("取消不应影响库存, 实际%d", got)
	}
}

// TestCancelOrder_NotOwner 他人订单等同不存在
func TestCancelOrder_NotOwner(t *testing.T) {
	f := newFulfillFixture(t, 1, 1, 10)
	cancel := NewCancelOrderUseCase(f.orderRepo, &fakeTxManager{})

	err := cancel.Execute(context.Background(), 99, f.orderID)
	if err != order.ErrOrderNotFound {
		t.Errorf("他人订单期望ErrOrderNotFound, 实际%v", err)
	}

	stored, _ := f.orderRepo.FindByID(context.Background(), f.orderID)
	if stored.Status != order.OrderStatusPending {
		t.Error("他人的取消尝试不应改变订单状态")
	}
}

// TestCancelOrder_UnknownOrder 不存在的订单
func TestCancelOrder_UnknownOrder(t *testing.T) {
	f := newFulfillFixture(t, 1, 1, 10)
	cancel := NewCancelOrderUseCase(f.orderRepo, &fakeTxManager{})

	if err := cancel.Execute(context.Background(), 42, 9999); err != order.ErrOrderNotFound {
		t.Errorf("期望ErrOrderNotFound, 实际%v", err)
	}
}

// TestCancelOrder_FulfilledOrder 已核销订单不可取消
func TestCancelOrder_FulfilledOrder(t *testing.T) {
	f := newFulfillFixture(t, 1, 1, 10)
	cancel := NewCancelOrderUseCase(f.orderRepo, &fakeTxManager{})

	if _, err := f.fulfill.Execute(context.Background(), FulfillOrderRequest{StaffID: 7, ClaimCode: f.claimCode}); err != nil {
		t.Fatalf("核销失败: %v", err)
	}

	err := cancel.Execute(context.Background(), 42, f.orderID)
	if err != order.ErrInvalidStatusTransition {
		t.Errorf("已核销订单取消期望状态错误, 实际%v", err)
	}

	stored, _ := f.orderRepo.FindByID(context.Background(), f.orderID)
	if !stored.IsFulfilled() {
		t.Error("失败的取消不应改变已核销状态")
	}
}

// TestCancelOrder_AlreadyCancelled 重复取消被拒
func TestCancelOrder_AlreadyCancelled(t *testing.T) {
	f := newFulfillFixture(t, 1, 1, 10)
	cancel := NewCancelOrderUseCase(f.orderRepo, &fakeTxManager{})

	if err := cancel.Execute(context.Background(), 42, f.orderID); err != nil {
		t.Fatalf("首次取消失败: %v", err)
	}

	err := cancel.Execute(context.Background(), 42, f.orderID)
	if err != order.ErrInvalidStatusTransition {
		t.Errorf("重复取消期望状态错误, 实际%v", err)
	}
}

// TestListOrders 订单历史分页查询
func TestListOrders(t *testing.T) {
	f := newFulfillFixture(t, 1, 1, 100)

	// 会员42共2单(fixture一单+这里一单)
	if _, err := f.place.Execute(context.Background(), PlaceOrderRequest{
		MemberID: 42,
		Items:    []PlaceOrderItem{{BookID: 1, Quantity: 2}},
	}); err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	list := NewListOrdersUseCase(f.orderRepo)
	resp, err := list.Execute(context.Background(), ListOrdersRequest{MemberID: 42})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Total != 2 || len(resp.List) != 2 {
		t.Errorf("期望2单, 实际total=%d,len=%d", resp.Total, len(resp.List))
	}

	// 他人看不到
	other, err := list.Execute(context.Background(), ListOrdersRequest{MemberID: 99})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if other.Total != 0 {
		t.Errorf("其他会员应看不到订单, 实际%d", other.Total)
	}
}
