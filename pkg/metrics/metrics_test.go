package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestCounters 验证计数器注册且可递增
func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(OrdersPlaced)
	OrdersPlaced.Inc()
	after := testutil.ToFloat64(OrdersPlaced)

	if after != before+1 {
		t.Errorf("期望计数+1, 之前%v 之后%v", before, after)
	}
}

// TestNotificationFailuresLabels 验证按通道区分的失败计数
func TestNotificationFailuresLabels(t *testing.T) {
	NotificationFailures.WithLabelValues("email").Inc()
	NotificationFailures.WithLabelValues("email").Inc()
	NotificationFailures.WithLabelValues("push").Inc()

	if got := testutil.ToFloat64(NotificationFailures.WithLabelValues("email")); got < 2 {
		t.Errorf("期望email通道失败计数>=2, 实际%v", got)
	}
	if got := testutil.ToFloat64(NotificationFailures.WithLabelValues("push")); got < 1 {
		t.Errorf("期望push通道失败计数>=1, 实际%v", got)
	}
}
