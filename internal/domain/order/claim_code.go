package order

import (
	"github.com/google/uuid"
)

// GenerateClaimCode 生成取书码
// 教学要点:取书码设计原则
// 1. 全局唯一(orders.claim_code上有UNIQUE索引兜底)
// 2. 不可猜测(会员凭码取书,码即凭证,不能被遍历)
//
// 使用UUID v4:122位随机熵,碰撞概率可忽略
// 示例:d9f7b2a4-3c1e-4f6a-9b8d-2e5c7a1f0b3d
//
// 对比其他方案:
// - 时间戳+随机数:有序但可预测前缀,不适合做凭证
// - 自增ID:可遍历,绝对不能用
func GenerateClaimCode() string {
	return uuid.NewString()
}
