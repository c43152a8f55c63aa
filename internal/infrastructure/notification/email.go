package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// EmailSender 邮件发送接口
// 设计说明:
// 1. 接口抽象便于替换真实网关(SMTP/SendGrid/阿里云邮件推送)
// 2. 分发器通过熔断器调用此接口,网关故障时快速失败
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// logEmailSender 日志版邮件发送器
// 开发/测试环境使用:不真正发信,把邮件内容写入结构化日志
type logEmailSender struct {
	logger zerolog.Logger
}

// NewLogEmailSender 创建日志版邮件发送器
func NewLogEmailSender(logger zerolog.Logger) EmailSender {
	return &logEmailSender{logger: logger}
}

func (s *logEmailSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("发送邮件(日志模式)")
	return nil
}

// OrderPlacedEmail 构造下单确认邮件
func OrderPlacedEmail(ev OrderPlacedEvent) (subject, body string) {
	subject = "订单确认:您的图书已预留"
	body = fmt.Sprintf(
		"%s您好:\n\n您的订单已生成,共%d种图书,应付金额%.2f元。\n取书码:%s\n请凭取书码到店取书。\n",
		ev.MemberName, ev.LineCount, float64(ev.Total)/100, ev.ClaimCode,
	)
	return subject, body
}

// OrderFulfilledEmail 构造取书完成邮件
func OrderFulfilledEmail(ev OrderFulfilledEvent) (subject, body string) {
	subject = "取书完成:感谢惠顾"
	body = fmt.Sprintf(
		"%s您好:\n\n您的订单(取书码%s)已完成取书,欢迎再次光临。\n",
		ev.MemberName, ev.ClaimCode,
	)
	return subject, body
}
