// Package retry 提供带退避的有限重试
//
// 本项目中的用途：通知分发器的投递重试。
// 订单事务提交后,邮件/广播/推送属于best-effort副作用：
// 投递失败不回滚订单、不上抛给调用方,而是在分发器内部按退避策略重试,
// 重试耗尽后记录日志与指标,由告警发现
//
// 设计要点：
// 1. 被重试的操作必须幂等（重复投递同一封确认邮件可接受,重复扣库存不可接受）
// 2. 退避指数增长并设上限,避免打爆刚恢复的下游
// 3. context取消立即停止,不做最后一次尝试
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy 重试策略
type Policy struct {
	MaxAttempts    int           // 最大尝试次数（含首次）,<=0按1处理
	InitialBackoff time.Duration // 首次重试前的等待时间
	MaxBackoff     time.Duration // 退避上限
	Multiplier     float64       // 退避倍率（建议2.0）
}

// DefaultPolicy 默认策略：3次尝试,100ms起步,2倍退避,上限5s
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Multiplier:     2.0,
	}
}

// Do 按策略执行fn直到成功或尝试耗尽
//
// 返回：
// - nil: 某次尝试成功
// - ctx.Err(): 等待期间context被取消
// - 最后一次尝试的错误（包装了尝试次数）: 尝试耗尽
func (p Policy) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	backoff := p.InitialBackoff
	var lastErr error

	for i := 0; i < attempts; i++ {
		if i > 0 {
			// 重试前退避等待,context取消立即返回
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}

			// 指数退避,封顶MaxBackoff
			backoff = time.Duration(float64(backoff) * p.Multiplier)
			if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
				backoff = p.MaxBackoff
			}
		}

		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("重试耗尽[%s],共尝试%d次: %w", name, attempts, lastErr)
}
