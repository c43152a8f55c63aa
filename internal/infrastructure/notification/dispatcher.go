package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wenjun/bookshop/internal/infrastructure/persistence/redis"
	"github.com/wenjun/bookshop/pkg/circuitbreaker"
	"github.com/wenjun/bookshop/pkg/metrics"
	"github.com/wenjun/bookshop/pkg/mq"
	"github.com/wenjun/bookshop/pkg/retry"
)

// EventPublisher 事件发布接口(pkg/mq.Publisher实现)
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// BroadcastAppender 公告追加接口(redis.BroadcastLog实现)
type BroadcastAppender interface {
	Append(ctx context.Context, entry redis.BroadcastEntry) error
}

// Dispatcher 通知分发器
// 设计说明:
// 1. 订单事务提交后,用例层调用Enqueue把事件丢进缓冲channel立即返回
//    ——通知是best-effort副作用,投递失败绝不影响已提交的订单
// 2. 独立worker goroutine串行消费,按渠道投递:
//    - email: 确认邮件(熔断器保护,网关故障时快速失败)
//    - broadcast: 店内公告(Redis List)
//    - push: 实时推送(RabbitMQ事件)
// 3. 每个渠道独立重试,单渠道失败不影响其他渠道
// 4. 重试耗尽只记录日志+失败指标,由告警发现
type Dispatcher struct {
	emailSender EmailSender
	emailCB     *circuitbreaker.CircuitBreaker
	broadcast   BroadcastAppender
	publisher   EventPublisher // 可为nil(MQ未配置时降级)
	policy      retry.Policy
	logger      zerolog.Logger

	events chan interface{}
	done   chan struct{}
}

// queueSize 事件缓冲大小
// 队列满时Enqueue丢弃事件并记录(宁可丢通知,不能阻塞下单)
const queueSize = 256

// NewDispatcher 创建通知分发器
func NewDispatcher(
	emailSender EmailSender,
	broadcast BroadcastAppender,
	publisher EventPublisher,
	logger zerolog.Logger,
) *Dispatcher {
	// 邮件路径熔断:连续5次失败打开,30秒后半开探测
	cb := circuitbreaker.NewCircuitBreaker("email", circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		logger.Warn().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("邮件熔断器状态变更")
	})

	return &Dispatcher{
		emailSender: emailSender,
		emailCB:     cb,
		broadcast:   broadcast,
		publisher:   publisher,
		policy:      retry.DefaultPolicy(),
		logger:      logger,
		events:      make(chan interface{}, queueSize),
		done:        make(chan struct{}),
	}
}

// Start 启动分发worker(非阻塞)
// ctx取消后worker排空已入队事件并退出
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		defer close(d.done)
		for {
			select {
			case <-ctx.Done():
				// 排空剩余事件后退出
				for {
					select {
					case ev := <-d.events:
						d.dispatch(context.Background(), ev)
					default:
						return
					}
				}
			case ev := <-d.events:
				d.dispatch(ctx, ev)
			}
		}
	}()
}

// Wait 等待worker退出(优雅关闭用)
func (d *Dispatcher) Wait() {
	<-d.done
}

// Enqueue 事件入队(非阻塞,永不失败)
// 教学要点:调用点在订单事务提交之后——
// 队列满时丢弃事件并记录,绝不反向阻塞或影响写路径
func (d *Dispatcher) Enqueue(ev interface{}) {
	select {
	case d.events <- ev:
	default:
		d.logger.Warn().
			Interface("event", ev).
			Msg("通知队列已满,丢弃事件")
		metrics.NotificationFailures.WithLabelValues("queue").Inc()
	}
}

// dispatch 按事件类型分发到各渠道
func (d *Dispatcher) dispatch(ctx context.Context, ev interface{}) {
	switch e := ev.(type) {
	case OrderPlacedEvent:
		subject, body := OrderPlacedEmail(e)
		d.sendEmail(ctx, e.MemberEmail, subject, body)
		d.appendBroadcast(ctx, redis.BroadcastEntry{
			Message:    redis.FormatOrderPlaced(e.MemberName, e.LineCount, e.Total),
			OccurredAt: e.PlacedAt,
		})
		d.publish(ctx, RoutingKeyOrderPlaced, e)
	case OrderFulfilledEvent:
		subject, body := OrderFulfilledEmail(e)
		d.sendEmail(ctx, e.MemberEmail, subject, body)
		d.appendBroadcast(ctx, redis.BroadcastEntry{
			Message:    redis.FormatOrderFulfilled(e.MemberName, e.ClaimCode),
			OccurredAt: e.FulfilledAt,
		})
		d.publish(ctx, RoutingKeyOrderFulfilled, e)
	default:
		d.logger.Error().Interface("event", ev).Msg("未知事件类型")
	}
}

// sendEmail 邮件渠道:熔断器包裹+重试
func (d *Dispatcher) sendEmail(ctx context.Context, to, subject, body string) {
	err := d.policy.Do(ctx, "email", func(ctx context.Context) error {
		return d.emailCB.Execute(func() error {
			return d.emailSender.Send(ctx, to, subject, body)
		})
	})
	if err != nil {
		d.logger.Error().Err(err).Str("to", to).Msg("确认邮件投递失败")
		metrics.NotificationFailures.WithLabelValues("email").Inc()
	}
}

// appendBroadcast 公告渠道
func (d *Dispatcher) appendBroadcast(ctx context.Context, entry redis.BroadcastEntry) {
	if d.broadcast == nil {
		return
	}
	err := d.policy.Do(ctx, "broadcast", func(ctx context.Context) error {
		return d.broadcast.Append(ctx, entry)
	})
	if err != nil {
		d.logger.Error().Err(err).Msg("店内公告写入失败")
		metrics.NotificationFailures.WithLabelValues("broadcast").Inc()
	}
}

// publish 实时推送渠道(MQ未配置时静默跳过)
func (d *Dispatcher) publish(ctx context.Context, routingKey string, message interface{}) {
	if d.publisher == nil {
		return
	}
	err := d.policy.Do(ctx, "push", func(ctx context.Context) error {
		return d.publisher.Publish(routingKey, message)
	})
	if err != nil {
		d.logger.Error().Err(err).Str("routing_key", routingKey).Msg("事件推送失败")
		metrics.NotificationFailures.WithLabelValues("push").Inc()
	}
}

// 编译期断言:pkg/mq.Publisher满足EventPublisher接口
var _ EventPublisher = (*mq.Publisher)(nil)
