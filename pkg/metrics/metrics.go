// Package metrics 提供基于Prometheus的业务指标收集
//
// 核心概念：
// - Counter（计数器）：只增不减的累计值,如下单总数、核销总数
// - Histogram（直方图）：观测值的分布,如下单耗时（自动计算P50/P90/P99）
//
// 指标暴露：
// main中注册 /metrics 端点（promhttp.Handler）,Prometheus定时抓取
//
// 教学要点：
// - 指标名以业务动作命名,单位写进名字（_total、_seconds）
// - 通知投递失败通过notification_failures_total观测,失败不影响下单主流程,
//   但必须可被告警发现
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersPlaced 下单成功总数
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookshop_orders_placed_total",
		Help: "Total number of successfully placed orders",
	})

	// OrdersFulfilled 核销成功总数
	OrdersFulfilled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookshop_orders_fulfilled_total",
		Help: "Total number of fulfilled orders",
	})

	// OrdersCancelled 取消订单总数
	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookshop_orders_cancelled_total",
		Help: "Total number of cancelled orders",
	})

	// PlacementDuration 下单耗时分布（秒）
	PlacementDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookshop_order_placement_duration_seconds",
		Help:    "Order placement latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// FulfillmentDuration 核销耗时分布（秒）
	FulfillmentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookshop_order_fulfillment_duration_seconds",
		Help:    "Order fulfillment latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// NotificationFailures 通知投递失败总数,按通道区分
	// label: channel = email | broadcast | push
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshop_notification_failures_total",
		Help: "Total number of failed best-effort notification deliveries",
	}, []string{"channel"})
)
