package order

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/wenjun/bookshop/internal/domain/book"
	"github.com/wenjun/bookshop/internal/domain/discount"
	"github.com/wenjun/bookshop/internal/domain/member"
	"github.com/wenjun/bookshop/internal/domain/order"
	"github.com/wenjun/bookshop/internal/infrastructure/notification"
	apperrors "github.com/wenjun/bookshop/pkg/errors"
)

func testMember() *member.Member {
	return &member.Member{
		ID:       42,
		Email:    "reader@example.com",
		FullName: "张三",
		Role:     member.RoleMember,
	}
}

// makeBooks 生成n本库存充足的书,ID从1开始,单价price分
func makeBooks(n int, price int64) []*book.Book {
	books := make([]*book.Book, n)
	for i := 0; i < n; i++ {
		b := book.NewBook(
			fmt.Sprintf("97871112138%02d", i), fmt.Sprintf("图书%d", i+1),
			"作者", "出版社", price, 100, "", "", 1,
		)
		b.ID = uint(i + 1)
		books[i] = b
	}
	return books
}

func newPlaceUseCase(bookRepo *fakeBookRepo, orderRepo *fakeOrderRepo, notifier *fakeNotifier) *PlaceOrderUseCase {
	return NewPlaceOrderUseCase(
		orderRepo,
		bookRepo,
		newFakeMemberRepo(testMember()),
		discount.NewPolicy(discount.DefaultConfig()),
		&fakeTxManager{},
		notifier,
	)
}

// TestPlaceOrder_NoDiscount 4个条目不打折
func TestPlaceOrder_NoDiscount(t *testing.T) {
	bookRepo := newFakeBookRepo(makeBooks(4, 1000)...)
	orderRepo := newFakeOrderRepo()
	uc := newPlaceUseCase(bookRepo, orderRepo, &fakeNotifier{})

	req := PlaceOrderRequest{MemberID: 42}
	for i := 1; i <= 4; i++ {
		req.Items = append(req.Items, PlaceOrderItem{BookID: uint(i), Quantity: 1})
	}

	resp, err := uc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}
	if resp.Total != 4000 {
		t.Errorf("期望原价4000, 实际%d", resp.Total)
	}
	if resp.FivePercentApplied || resp.TenPercentApplied {
		t.Error("4个条目不应命中任何折扣档位")
	}
}

// TestPlaceOrder_MixedPriceTotal 不同单价、不同数量的合计
func TestPlaceOrder_MixedPriceTotal(t *testing.T) {
	books := makeBooks(2, 0)
	books[0].Price = 500 // 5.00元
	books[1].Price = 750 // 7.50元
	bookRepo := newFakeBookRepo(books...)
	orderRepo := newFakeOrderRepo()
	uc := newPlaceUseCase(bookRepo, orderRepo, &fakeNotifier{})

	// 5.00*2 + 7.50*2 = 25.00元
	resp, err := uc.Execute(context.Background(), PlaceOrderRequest{
		MemberID: 42,
		Items: []PlaceOrderItem{
			{BookID: 1, Quantity: 2},
			{BookID: 2, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}
	if resp.Total != 2500 {
		t.Errorf("期望合计2500, 实际%d", resp.Total)
	}
	if resp.TotalYuan != "25.00" {
		t.Errorf("期望25.00元, 实际%s", resp.TotalYuan)
	}
	if resp.FivePercentApplied || resp.TenPercentApplied {
		t.Error("2个条目不应命中任何折扣档位")
	}
}

// TestPlaceOrder_FivePercentTier 5个条目命中95折
func TestPlaceOrder_FivePercentTier(t *testing.T) {
	bookRepo := newFakeBookRepo(makeBooks(5, 1000)...)
	orderRepo := newFakeOrderRepo()
	uc := newPlaceUseCase(bookRepo, orderRepo, &fakeNotifier{})

	req := PlaceOrderRequest{MemberID: 42}
	for i := 1; i <= 5; i++ {
		req.Items = append(req.Items, PlaceOrderItem{BookID: uint(i), Quantity: 1})
	}

	resp, err := uc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}
	// 5000 * 95 / 100 = 4750
	if resp.Total != 4750 {
		t.Errorf("期望折后4750, 实际%d", resp.Total)
	}
	if !resp.FivePercentApplied || resp.TenPercentApplied {
		t.Errorf("期望只命中95折, 实际(five=%v,ten=%v)", resp.FivePercentApplied, resp.TenPercentApplied)
	}
}

// TestPlaceOrder_TenPercentTier 10个条目命中9折且不叠加95折
func TestPlaceOrder_TenPercentTier(t *testing.T) {
	bookRepo := newFakeBookRepo(makeBooks(10, 1000)...)
	orderRepo := newFakeOrderRepo()
	uc := newPlaceUseCase(bookRepo, orderRepo, &fakeNotifier{})

	req := PlaceOrderRequest{MemberID: 42}
	for i := 1; i <= 10; i++ {
		req.Items = append(req.Items, PlaceOrderItem{BookID: uint(i), Quantity: 1})
	}

	resp, err := uc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}
	// 10000 * 90 / 100 = 9000
	if resp.Total != 9000 {
		t.Errorf("期望折后9000, 实际%d", resp.Total)
	}
	if resp.FivePercentApplied || !resp.TenPercentApplied {
		t.Errorf("期望只命中9折, 实际(five=%v,ten=%v)", resp.FivePercentApplied, resp.TenPercentApplied)
	}
}

// TestPlaceOrder_QuantityDoesNotCountAsLines 同一本书买10本只算1个条目
func TestPlaceOrder_QuantityDoesNotCountAsLines(t *testing.T) {
	bookRepo := newFakeBookRepo(makeBooks(1, 1000)...)
	orderRepo := newFakeOrderRepo()
	uc := newPlaceUseCase(bookRepo, orderRepo, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), PlaceOrderRequest{
		MemberID: 42,
		Items:    []PlaceOrderItem{{BookID: 1, Quantity: 10}},
	})
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}
	if resp.Total != 10000 {
		t.Errorf("期望原价10000(不触发折扣), 实际%d", resp.Total)
	}
	if resp.FivePercentApplied || resp.TenPercentApplied {
		t.Error("数量不计入条目数,不应命中折扣")
	}
}

// TestPlaceOrder_PriceSnapshot 下单后改价不影响订单金额
func TestPlaceOrder_PriceSnapshot(t *testing.T) {
	books := makeBooks(1, 2500)
	bookRepo := newFakeBookRepo(books...)
	orderRepo := newFakeOrderRepo()
	uc := newPlaceUseCase(bookRepo, orderRepo, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), PlaceOrderRequest{
		MemberID: 42,
		Items:    []PlaceOrderItem{{BookID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	// 图书涨价
	books[0].Price = 9900
	_ = bookRepo.Update(context.Background(), books[0])

	stored, err := orderRepo.FindByID(context.Background(), resp.OrderID)
	if err != nil {
		t.Fatalf("查询订单失败: %v", err)
	}
	if stored.Total != 5000 {
		t.Errorf("改价不应影响已生成订单, 期望5000, 实际%d", stored.Total)
	}
	if stored.Items[0].UnitPrice != 2500 {
		t.Errorf("明细应保留下单时单价快照2500, 实际%d", stored.Items[0].UnitPrice)
	}
}

// TestPlaceOrder_SalePriceSnapshot 促销期下单按折扣价做快照
func TestPlaceOrder_SalePriceSnapshot(t *testing.T) {
	books := makeBooks(1, 10000)
	if err := books[0].StartSale(20, nil, nil); err != nil {
		t.Fatalf("设置促销失败: %v", err)
	}
	bookRepo := newFakeBookRepo(books...)
	orderRepo := newFakeOrderRepo()
	uc := newPlaceUseCase(bookRepo, orderRepo, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), PlaceOrderRequest{
		MemberID: 42,
		Items:    []PlaceOrderItem{{BookID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}
	if resp.Total != 8000 {
		t.Errorf("促销期下单应按8折价8000, 实际%d", resp.Total)
	}
}

// TestPlaceOrder_Validation 非法请求被拒绝
func TestPlaceOrder_Validation(t *testing.T) {
	bookRepo := newFakeBookRepo(makeBooks(2, 1000)...)
	orderRepo := newFakeOrderRepo()
	uc := newPlaceUseCase(bookRepo, orderRepo, &fakeNotifier{})

	// 空明细
	if _, err := uc.Execute(context.Background(), PlaceOrderRequest{MemberID: 42}); err != order.ErrInvalidOrderItems {
		t.Errorf("空明细期望ErrInvalidOrderItems, 实际%v", err)
	}

	// 数量为0
	_, err := uc.Execute(context.Background(), PlaceOrderRequest{
		MemberID: 42,
		Items:    []PlaceOrderItem{{BookID: 1, Quantity: 0}},
	})
	if err != order.ErrInvalidQuantity {
		t.Errorf("数量0期望ErrInvalidQuantity, 实际%v", err)
	}

	// 同一图书重复条目
	_, err = uc.Execute(context.Background(), PlaceOrderRequest{
		MemberID: 42,
		Items: []PlaceOrderItem{
			{BookID: 1, Quantity: 1},
			{BookID: 1, Quantity: 2},
		},
	})
	if err != order.ErrDuplicateBookLine {
		t.Errorf("重复条目期望ErrDuplicateBookLine, 实际%v", err)
	}

	// 未知图书
	_, err = uc.Execute(context.Background(), PlaceOrderRequest{
		MemberID: 42,
		Items:    []PlaceOrderItem{{BookID: 99, Quantity: 1}},
	})
	if err != book.ErrBookNotFound {
		t.Errorf("未知图书期望ErrBookNotFound, 实际%v", err)
	}

	// 未知会员
	_, err = uc.Execute(context.Background(), PlaceOrderRequest{
		MemberID: 777,
		Items:    []PlaceOrderItem{{BookID: 1, Quantity: 1}},
	})
	if apperrors.CodeOf(err) != apperrors.ErrCodeMemberNotFound {
		t.Errorf("未知会员期望会员不存在错误, 实际%v", err)
	}
}

// TestPlaceOrder_RejectsUnavailableAndOutOfStock 下架/缺货图书拒单
func TestPlaceOrder_RejectsUnavailableAndOutOfStock(t *testing.T) {
	books := makeBooks(2, 1000)
	books[0].Available = false
	books[1].Stock = 1
	bookRepo := newFakeBookRepo(books...)
	orderRepo := newFakeOrderRepo()
	uc := newPlaceUseCase(bookRepo, orderRepo, &fakeNotifier{})

	// 下架图书
	_, err := uc.Execute(context.Background(), PlaceOrderRequest{
		MemberID: 42,
		Items:    []PlaceOrderItem{{BookID: 1, Quantity: 1}},
	})
	if apperrors.CodeOf(err) != apperrors.ErrCodeInvalidItem {
		t.Errorf("下架图书期望条目无效错误, 实际%v", err)
	}

	// 库存不足
	_, err = uc.Execute(context.Background(), PlaceOrderRequest{
		MemberID: 42,
		Items:    []PlaceOrderItem{{BookID: 2, Quantity: 5}},
	})
	if apperrors.CodeOf(err) != apperrors.ErrCodeInsufficientStock {
		t.Errorf("库存不足期望库存错误, 实际%v", err)
	}

	// 拒单不产生订单与通知
	if len(orderRepo.orders) != 0 {
		t.Error("拒单不应产生订单")
	}
}

// TestPlaceOrder_DoesNotDeductStock 下单不扣库存
func TestPlaceOrder_DoesNotDeductStock(t *testing.T) {
	bookRepo := newFakeBookRepo(makeBooks(1, 1000)...)
	orderRepo := newFakeOrderRepo()
	uc := newPlaceUseCase(bookRepo, orderRepo, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), PlaceOrderRequest{
		MemberID: 42,
		Items:    []PlaceOrderItem{{BookID: 1, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}
	if got := bookRepo.stockOf(1); got != 100 {
		t.Errorf("下单不应扣库存, 期望100, 实际%d", got)
	}
}

// TestPlaceOrder_UniqueClaimCodes 每张订单的取书码唯一
func TestPlaceOrder_UniqueClaimCodes(t *testing.T) {
	bookRepo := newFakeBookRepo(makeBooks(1, 1000)...)
	orderRepo := newFakeOrderRepo()
	uc := newPlaceUseCase(bookRepo, orderRepo, &fakeNotifier{})

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		resp, err := uc.Execute(context.Background(), PlaceOrderRequest{
			MemberID: 42,
			Items:    []PlaceOrderItem{{BookID: 1, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("第%d次下单失败: %v", i+1, err)
		}
		if resp.ClaimCode == "" || seen[resp.ClaimCode] {
			t.Fatalf("取书码为空或重复: %q", resp.ClaimCode)
		}
		seen[resp.ClaimCode] = true
	}
}

// TestPlaceOrder_NotificationEnqueued 下单成功后事件入队
func TestPlaceOrder_NotificationEnqueued(t *testing.T) {
	bookRepo := newFakeBookRepo(makeBooks(5, 1000)...)
	orderRepo := newFakeOrderRepo()
	notifier := &fakeNotifier{}
	uc := newPlaceUseCase(bookRepo, orderRepo, notifier)

	req := PlaceOrderRequest{MemberID: 42}
	for i := 1; i <= 5; i++ {
		req.Items = append(req.Items, PlaceOrderItem{BookID: uint(i), Quantity: 1})
	}

	resp, err := uc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	if notifier.count() != 1 {
		t.Fatalf("期望入队1个事件, 实际%d", notifier.count())
	}
	ev, ok := notifier.events[0].(notification.OrderPlacedEvent)
	if !ok {
		t.Fatalf("期望OrderPlacedEvent, 实际%T", notifier.events[0])
	}
	if ev.OrderID != resp.OrderID || ev.ClaimCode != resp.ClaimCode ||
		ev.MemberEmail != "reader@example.com" || ev.LineCount != 5 || ev.Total != 4750 {
		t.Errorf("事件内容不符: %+v", ev)
	}
	if ev.PlacedAt.After(time.Now()) {
		t.Error("事件时间不应晚于当前时间")
	}

	// 失败的下单不入队
	_, _ = uc.Execute(context.Background(), PlaceOrderRequest{MemberID: 42})
	if notifier.count() != 1 {
		t.Error("失败的下单不应入队事件")
	}
}
