package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/wenjun/bookshop/pkg/errors"
)

// maxBroadcastEntries 广播日志保留条数
// LPUSH+LTRIM组合保证列表长度有上界,老消息自动淘汰
const maxBroadcastEntries = 100

// broadcastKey 广播日志的Redis Key
const broadcastKey = "broadcast:orders"

// BroadcastEntry 一条店内公告
// 下单/核销成功后追加,供大厅屏幕轮询展示
type BroadcastEntry struct {
	Message    string    `json:"message"`     // 公告文案
	OccurredAt time.Time `json:"occurred_at"` // 事件时间
}

// BroadcastLog 店内公告日志(Redis List实现)
// 设计说明:
// 1. LPUSH追加到表头,LRANGE 0 N-1按时间倒序读取最近N条
// 2. LTRIM裁剪保留最近100条,防止无限增长
// 3. 公告属于best-effort通知:写入失败由调用方(通知分发器)记录日志,
//    绝不影响订单主流程
type BroadcastLog struct {
	client *redis.Client
}

// NewBroadcastLog 创建公告日志
func NewBroadcastLog(client *redis.Client) *BroadcastLog {
	return &BroadcastLog{client: client}
}

// Append 追加一条公告
func (b *BroadcastLog) Append(ctx context.Context, entry BroadcastEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return apperrors.Wrap(err, "序列化公告失败")
	}

	// LPUSH+LTRIM原子管道,保证裁剪紧跟写入
	pipe := b.client.TxPipeline()
	pipe.LPush(ctx, broadcastKey, data)
	pipe.LTrim(ctx, broadcastKey, 0, maxBroadcastEntries-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(err, "写入公告失败")
	}

	return nil
}

// Recent 读取最近n条公告(时间倒序)
// n超过保留上限时按上限截断
func (b *BroadcastLog) Recent(ctx context.Context, n int) ([]BroadcastEntry, error) {
	if n <= 0 {
		n = 10
	}
	if n > maxBroadcastEntries {
		n = maxBroadcastEntries
	}

	raw, err := b.client.LRange(ctx, broadcastKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "读取公告失败")
	}

	entries := make([]BroadcastEntry, 0, len(raw))
	for _, item := range raw {
		var entry BroadcastEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			// 单条损坏不影响整体读取
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// FormatOrderPlaced 下单公告文案
func FormatOrderPlaced(memberName string, lineCount int, total int64) string {
	return fmt.Sprintf("会员%s下单成功,共%d种图书,金额%.2f元", memberName, lineCount, float64(total)/100)
}

// FormatOrderFulfilled 核销公告文案
func FormatOrderFulfilled(memberName string, claimCode string) string {
	return fmt.Sprintf("会员%s的订单已取书(取书码%s)", memberName, shortCode(claimCode))
}

// shortCode 取书码只展示前8位,避免公告泄露完整凭证
func shortCode(code string) string {
	if len(code) > 8 {
		return code[:8] + "…"
	}
	return code
}
