package order

import (
	apperrors "github.com/wenjun/bookshop/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在(含取书码无匹配、订单已取消)
	// 对外统一为"不存在",不暴露取书码是否曾经有效
	ErrOrderNotFound = apperrors.ErrOrderNotFound

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.ErrInvalidState

	// ErrAlreadyFulfilled 订单已核销,拒绝重复核销
	ErrAlreadyFulfilled = apperrors.ErrAlreadyFulfilled

	// ErrInvalidOrderItems 订单明细不合法
	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrDuplicateBookLine 同一图书出现在多个条目
	ErrDuplicateBookLine = apperrors.New(apperrors.ErrCodeInvalidParams, "同一图书不能出现在多个条目中,请合并数量")
)
