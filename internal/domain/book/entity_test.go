package book

import (
	"testing"
	"time"
)

// TestEffectivePrice_NoSale 未促销按标价
func TestEffectivePrice_NoSale(t *testing.T) {
	b := NewBook("9787111213826", "Go程序设计语言", "Donovan", "机械工业出版社", 8900, 10, "", "", 1)

	if got := b.EffectivePrice(time.Now()); got != 8900 {
		t.Errorf("期望标价8900, 实际%d", got)
	}
}

// TestEffectivePrice_SaleWindow 促销窗口内按折扣价,窗口外按标价
func TestEffectivePrice_SaleWindow(t *testing.T) {
	b := NewBook("9787111213826", "Go程序设计语言", "Donovan", "机械工业出版社", 10000, 10, "", "", 1)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	if err := b.StartSale(20, &start, &end); err != nil {
		t.Fatalf("设置促销失败: %v", err)
	}

	cases := []struct {
		name string
		now  time.Time
		want int64
	}{
		{"窗口前", time.Date(2026, 5, 31, 23, 59, 59, 0, time.UTC), 10000},
		{"窗口内", time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC), 8000},
		{"窗口后", time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), 10000},
	}
	for _, tc := range cases {
		if got := b.EffectivePrice(tc.now); got != tc.want {
			t.Errorf("%s: 期望%d, 实际%d", tc.name, tc.want, got)
		}
	}
}

// TestEffectivePrice_OpenEndedWindow 窗口端点为nil表示不限制
func TestEffectivePrice_OpenEndedWindow(t *testing.T) {
	b := NewBook("9787111213826", "Go程序设计语言", "Donovan", "机械工业出版社", 10000, 10, "", "", 1)
	if err := b.StartSale(10, nil, nil); err != nil {
		t.Fatalf("设置促销失败: %v", err)
	}

	if got := b.EffectivePrice(time.Now()); got != 9000 {
		t.Errorf("期望折后9000, 实际%d", got)
	}

	b.EndSale()
	if got := b.EffectivePrice(time.Now()); got != 10000 {
		t.Errorf("结束促销后期望标价10000, 实际%d", got)
	}
}

// TestStartSale_InvalidPercent 折扣百分比越界
func TestStartSale_InvalidPercent(t *testing.T) {
	b := NewBook("9787111213826", "Go程序设计语言", "Donovan", "机械工业出版社", 10000, 10, "", "", 1)

	for _, percent := range []int{0, -5, 101} {
		if err := b.StartSale(percent, nil, nil); err != ErrInvalidDiscount {
			t.Errorf("percent=%d: 期望ErrInvalidDiscount, 实际%v", percent, err)
		}
	}
}

// TestDecrStock 库存扣减规则
func TestDecrStock(t *testing.T) {
	b := NewBook("9787111213826", "Go程序设计语言", "Donovan", "机械工业出版社", 8900, 3, "", "", 1)

	if err := b.DecrStock(2); err != nil {
		t.Fatalf("扣减2本应成功: %v", err)
	}
	if b.Stock != 1 {
		t.Errorf("期望剩余1本, 实际%d", b.Stock)
	}

	// 库存不足
	if err := b.DecrStock(2); err != ErrInsufficientStock {
		t.Errorf("期望ErrInsufficientStock, 实际%v", err)
	}
	if b.Stock != 1 {
		t.Errorf("失败的扣减不应改变库存, 实际%d", b.Stock)
	}

	// 非法数量
	if err := b.DecrStock(0); err != ErrInvalidQuantity {
		t.Errorf("期望ErrInvalidQuantity, 实际%v", err)
	}
}

// TestCanPurchase 下单前可购性预检
func TestCanPurchase(t *testing.T) {
	b := NewBook("9787111213826", "Go程序设计语言", "Donovan", "机械工业出版社", 8900, 5, "", "", 1)

	if err := b.CanPurchase(5); err != nil {
		t.Errorf("库存5买5应允许: %v", err)
	}
	if err := b.CanPurchase(6); err != ErrInsufficientStock {
		t.Errorf("库存5买6期望ErrInsufficientStock, 实际%v", err)
	}

	b.Available = false
	if err := b.CanPurchase(1); err != ErrBookUnavailable {
		t.Errorf("下架图书期望ErrBookUnavailable, 实际%v", err)
	}
}
