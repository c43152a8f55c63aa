package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wenjun/bookshop/internal/infrastructure/persistence/redis"
)

// fakeEmailSender 记录发送的邮件
type fakeEmailSender struct {
	mu    sync.Mutex
	sent  []string
	fails int // 前fails次调用返回错误
}

func (f *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails > 0 {
		f.fails--
		return errors.New("smtp timeout")
	}
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeEmailSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeBroadcast 内存版公告日志
type fakeBroadcast struct {
	mu      sync.Mutex
	entries []redis.BroadcastEntry
}

func (f *fakeBroadcast) Append(ctx context.Context, entry redis.BroadcastEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeBroadcast) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// fakePublisher 记录发布的事件
type fakePublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakePublisher) Publish(routingKey string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, routingKey)
	return nil
}

func (f *fakePublisher) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

func placedEvent() OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:     1,
		MemberID:    42,
		MemberEmail: "reader@example.com",
		MemberName:  "张三",
		ClaimCode:   "d9f7b2a4-3c1e-4f6a-9b8d-2e5c7a1f0b3d",
		LineCount:   5,
		Total:       9500,
		PlacedAt:    time.Now(),
	}
}

// waitUntil 轮询等待条件成立(分发是异步的)
func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("等待超时,条件未成立")
}

// TestDispatcher_AllChannels 下单事件投递到三个渠道
func TestDispatcher_AllChannels(t *testing.T) {
	email := &fakeEmailSender{}
	broadcast := &fakeBroadcast{}
	publisher := &fakePublisher{}
	d := NewDispatcher(email, broadcast, publisher, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(placedEvent())

	waitUntil(t, time.Second, func() bool {
		return email.sentCount() == 1 && broadcast.count() == 1 && len(publisher.published()) == 1
	})

	if keys := publisher.published(); keys[0] != RoutingKeyOrderPlaced {
		t.Errorf("期望发布order.placed事件, 实际%v", keys)
	}
}

// TestDispatcher_EmailRetry 邮件首次失败后重试成功
func TestDispatcher_EmailRetry(t *testing.T) {
	email := &fakeEmailSender{fails: 2} // 前2次失败,第3次成功(默认策略3次尝试)
	broadcast := &fakeBroadcast{}
	d := NewDispatcher(email, broadcast, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(placedEvent())

	waitUntil(t, 2*time.Second, func() bool {
		return email.sentCount() == 1
	})
}

// TestDispatcher_ChannelIsolation 推送渠道故障不影响邮件与公告
func TestDispatcher_ChannelIsolation(t *testing.T) {
	email := &fakeEmailSender{}
	broadcast := &fakeBroadcast{}
	publisher := &fakePublisher{err: errors.New("amqp connection refused")}
	d := NewDispatcher(email, broadcast, publisher, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	ev := OrderFulfilledEvent{
		OrderID:     2,
		MemberID:    42,
		MemberEmail: "reader@example.com",
		MemberName:  "张三",
		ClaimCode:   "d9f7b2a4-3c1e-4f6a-9b8d-2e5c7a1f0b3d",
		StaffID:     7,
		FulfilledAt: time.Now(),
	}
	d.Enqueue(ev)

	// MQ重试耗尽,但邮件与公告正常送达
	waitUntil(t, 3*time.Second, func() bool {
		return email.sentCount() == 1 && broadcast.count() == 1
	})
}

// TestDispatcher_EnqueueNeverBlocks 队列满时Enqueue不阻塞
func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	email := &fakeEmailSender{}
	d := NewDispatcher(email, &fakeBroadcast{}, nil, zerolog.Nop())
	// 故意不Start:worker不消费,队列必然塞满

	done := make(chan struct{})
	go func() {
		for i := 0; i < queueSize*2; i++ {
			d.Enqueue(placedEvent())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("队列满时Enqueue不应阻塞调用方")
	}
}

// TestDispatcher_DrainOnShutdown 取消后排空已入队事件
func TestDispatcher_DrainOnShutdown(t *testing.T) {
	email := &fakeEmailSender{}
	broadcast := &fakeBroadcast{}
	d := NewDispatcher(email, broadcast, nil, zerolog.Nop())

	// 先入队再启动,确保事件在队列中
	for i := 0; i < 3; i++ {
		d.Enqueue(placedEvent())
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()
	d.Wait()

	if email.sentCount() != 3 {
		t.Errorf("关闭前应排空队列, 期望投递3封邮件, 实际%d", email.sentCount())
	}
}
