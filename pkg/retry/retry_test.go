package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestDo_SucceedsFirstAttempt 首次成功不重试
func TestDo_SucceedsFirstAttempt(t *testing.T) {
	p := Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond, Multiplier: 2}

	calls := 0
	err := p.Do(context.Background(), "email", func(ctx context.Context) error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("期望成功, 实际: %v", err)
	}
	if calls != 1 {
		t.Errorf("期望调用1次, 实际%d次", calls)
	}
}

// TestDo_RecoverAfterFailures 失败后重试直至成功
func TestDo_RecoverAfterFailures(t *testing.T) {
	p := Policy{MaxAttempts: 5, InitialBackoff: time.Millisecond, Multiplier: 2}

	calls := 0
	err := p.Do(context.Background(), "broadcast", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("redis unreachable")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("期望第3次成功, 实际: %v", err)
	}
	if calls != 3 {
		t.Errorf("期望调用3次, 实际%d次", calls)
	}
}

// TestDo_Exhausted 尝试耗尽返回最后错误
func TestDo_Exhausted(t *testing.T) {
	p := Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond, Multiplier: 2}

	sentinel := errors.New("amqp channel closed")
	calls := 0
	err := p.Do(context.Background(), "push", func(ctx context.Context) error {
		calls++
		return sentinel
	})

	if calls != 3 {
		t.Errorf("期望调用3次, 实际%d次", calls)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("期望包装原始错误, 实际: %v", err)
	}
}

// TestDo_ContextCancelled 等待期间取消立即停止
func TestDo_ContextCancelled(t *testing.T) {
	p := Policy{MaxAttempts: 10, InitialBackoff: time.Hour, Multiplier: 2}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, "email", func(ctx context.Context) error {
			calls++
			return errors.New("fail")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("期望context.Canceled, 实际: %v", err)
		}
		if calls != 1 {
			t.Errorf("取消后不应继续重试, 调用了%d次", calls)
		}
	case <-time.After(time.Second):
		t.Fatal("取消后Do未及时返回")
	}
}
