package tracing

import (
	"context"
	"testing"
)

// TestInitTracer 测试Tracer初始化
// OTLP gRPC连接是惰性建立的,无需collector即可初始化
func TestInitTracer(t *testing.T) {
	shutdown, err := InitTracer("bookshop-test", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 0)
		defer cancel()
		_ = shutdown(ctx) // collector不在线,立即超时即可
	}()
}

// TestStartSpan 测试Span创建
func TestStartSpan(t *testing.T) {
	shutdown, err := InitTracer("bookshop-test", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 0)
		defer cancel()
		_ = shutdown(ctx)
	}()

	ctx := context.Background()

	// 根Span
	ctx, parent := StartSpan(ctx, "bookshop", "PlaceOrder")
	if !parent.SpanContext().IsValid() {
		t.Fatal("根Span无效")
	}

	// 子Span共享TraceID
	_, child := StartSpan(ctx, "bookshop", "DeductStock")
	if child.SpanContext().TraceID() != parent.SpanContext().TraceID() {
		t.Error("子Span应与根Span共享TraceID")
	}

	child.End()
	parent.End()
}
