// Package discount 折扣与忠实读者策略
//
// 设计说明:
// 1. 折扣档位按订单内"不同图书条目数"计算,与每条目的购买数量无关
// 2. 档位互斥:命中高档位(9折)时不再叠加低档位(95折)
// 3. 阈值与折扣率从配置注入,便于运营调整而不改代码
package discount

// Config 折扣策略配置
// 默认值:5个不同条目打95折,10个及以上打9折
type Config struct {
	FivePercentMinLines int // 95折最低条目数(默认5)
	TenPercentMinLines  int // 9折最低条目数(默认10)
	FivePercent         int // 低档折扣百分比(默认5,即95折)
	TenPercent          int // 高档折扣百分比(默认10,即9折)
}

// DefaultConfig 默认折扣配置
func DefaultConfig() Config {
	return Config{
		FivePercentMinLines: 5,
		TenPercentMinLines:  10,
		FivePercent:         5,
		TenPercent:          10,
	}
}

// Policy 折扣策略
type Policy struct {
	cfg Config
}

// NewPolicy 创建折扣策略
// 配置值不合法(非正数)时回退到默认值,保证策略始终可用
func NewPolicy(cfg Config) *Policy {
	def := DefaultConfig()
	if cfg.FivePercentMinLines <= 0 {
		cfg.FivePercentMinLines = def.FivePercentMinLines
	}
	if cfg.TenPercentMinLines <= 0 {
		cfg.TenPercentMinLines = def.TenPercentMinLines
	}
	if cfg.FivePercent <= 0 || cfg.FivePercent > 100 {
		cfg.FivePercent = def.FivePercent
	}
	if cfg.TenPercent <= 0 || cfg.TenPercent > 100 {
		cfg.TenPercent = def.TenPercent
	}
	return &Policy{cfg: cfg}
}

// Apply 计算折后总金额
//
// 参数:
//   - itemsTotal: 明细小计(分),已含图书促销价快照
//   - lineCount: 不同图书条目数
//
// 返回:
//   - total: 折后总金额(分),整数除法向下取整
//   - fivePct: 是否命中95折档位
//   - tenPct: 是否命中9折档位(两标记互斥)
//
// 金额计算用int64分+整数运算,避免浮点误差:
// total * (100 - percent) / 100
func (p *Policy) Apply(itemsTotal int64, lineCount int) (total int64, fivePct, tenPct bool) {
	switch {
	case lineCount >= p.cfg.TenPercentMinLines:
		return itemsTotal * int64(100-p.cfg.TenPercent) / 100, false, true
	case lineCount >= p.cfg.FivePercentMinLines:
		return itemsTotal * int64(100-p.cfg.FivePercent) / 100, true, false
	default:
		return itemsTotal, false, false
	}
}
