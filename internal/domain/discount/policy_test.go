package discount

import (
	"context"
	"errors"
	"testing"
)

// TestApply_TierBoundaries 折扣档位边界
func TestApply_TierBoundaries(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	cases := []struct {
		name      string
		total     int64
		lines     int
		want      int64
		wantFive  bool
		wantTen   bool
	}{
		{"1条目无折扣", 10000, 1, 10000, false, false},
		{"4条目无折扣", 10000, 4, 10000, false, false},
		{"5条目95折", 10000, 5, 9500, true, false},
		{"9条目95折", 10000, 9, 9500, true, false},
		{"10条目9折", 10000, 10, 9000, false, true},
		{"15条目仍9折", 10000, 15, 9000, false, true},
	}

	for _, tc := range cases {
		got, five, ten := p.Apply(tc.total, tc.lines)
		if got != tc.want || five != tc.wantFive || ten != tc.wantTen {
			t.Errorf("%s: 期望(%d,%v,%v), 实际(%d,%v,%v)",
				tc.name, tc.want, tc.wantFive, tc.wantTen, got, five, ten)
		}
	}
}

// TestApply_ExclusiveTiers 高档位不叠加低档位:10条目只打9折不打95折
func TestApply_ExclusiveTiers(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	total, five, ten := p.Apply(20000, 12)
	if total != 18000 {
		t.Errorf("期望折后18000(只打9折), 实际%d", total)
	}
	if five || !ten {
		t.Errorf("期望标记(five=false,ten=true), 实际(%v,%v)", five, ten)
	}
}

// TestApply_IntegerDivision 整数除法向下取整,分为最小单位
func TestApply_IntegerDivision(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	// 2500分(25元)两个条目:不足5条目,原价
	if total, _, _ := p.Apply(2500, 2); total != 2500 {
		t.Errorf("2条目期望原价2500, 实际%d", total)
	}

	// 999分5条目:999*95/100=949.05 → 949
	if total, _, _ := p.Apply(999, 5); total != 949 {
		t.Errorf("期望向下取整到949, 实际%d", total)
	}
}

// TestApply_CustomThresholds 阈值来自配置
func TestApply_CustomThresholds(t *testing.T) {
	p := NewPolicy(Config{
		FivePercentMinLines: 3,
		TenPercentMinLines:  6,
		FivePercent:         5,
		TenPercent:          10,
	})

	if total, five, _ := p.Apply(10000, 3); total != 9500 || !five {
		t.Errorf("自定义阈值3条目应95折, 实际%d", total)
	}
	if total, _, ten := p.Apply(10000, 6); total != 9000 || !ten {
		t.Errorf("自定义阈值6条目应9折, 实际%d", total)
	}
}

// TestNewPolicy_InvalidConfigFallback 非法配置回退默认值
func TestNewPolicy_InvalidConfigFallback(t *testing.T) {
	p := NewPolicy(Config{}) // 全零值

	if total, _, ten := p.Apply(10000, 10); total != 9000 || !ten {
		t.Errorf("零值配置应回退默认档位, 实际%d", total)
	}
}

// fakeCounter 内存版已核销订单计数
type fakeCounter struct {
	counts map[uint]int64
	err    error
}

func (f *fakeCounter) CountFulfilledByMember(ctx context.Context, memberID uint) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[memberID], nil
}

// TestLoyaltyChecker 忠实读者资格判定
func TestLoyaltyChecker(t *testing.T) {
	counter := &fakeCounter{counts: map[uint]int64{1: 9, 2: 10, 3: 25}}
	checker := NewLoyaltyChecker(LoyaltyConfig{RequiredFulfilledOrders: 10}, counter)

	cases := []struct {
		memberID  uint
		want      bool
		wantCount int64
	}{
		{1, false, 9},  // 差1单
		{2, true, 10},  // 恰好达标
		{3, true, 25},  // 超额
		{4, false, 0},  // 无订单
	}
	for _, tc := range cases {
		eligible, count, required, err := checker.Check(context.Background(), tc.memberID)
		if err != nil {
			t.Fatalf("会员%d: 判定失败: %v", tc.memberID, err)
		}
		if eligible != tc.want || count != tc.wantCount || required != 10 {
			t.Errorf("会员%d: 期望(%v,%d,10), 实际(%v,%d,%d)",
				tc.memberID, tc.want, tc.wantCount, eligible, count, required)
		}
	}
}

// TestLoyaltyChecker_Idempotent 数据不变时重复查询结果恒定
func TestLoyaltyChecker_Idempotent(t *testing.T) {
	counter := &fakeCounter{counts: map[uint]int64{1: 12}}
	checker := NewLoyaltyChecker(DefaultLoyaltyConfig(), counter)

	first, _, _, _ := checker.Check(context.Background(), 1)
	for i := 0; i < 5; i++ {
		again, _, _, _ := checker.Check(context.Background(), 1)
		if again != first {
			t.Fatal("订单数据不变时,资格判定结果应恒定")
		}
	}
}

// TestLoyaltyChecker_CounterError 底层查询失败时上抛错误
func TestLoyaltyChecker_CounterError(t *testing.T) {
	boom := errors.New("db down")
	checker := NewLoyaltyChecker(DefaultLoyaltyConfig(), &fakeCounter{err: boom})

	_, _, _, err := checker.Check(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Errorf("期望透传底层错误, 实际%v", err)
	}
}
