package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,包含图书的核心属性
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. 促销字段(OnSale/DiscountPercent/折扣窗口)决定下单时的实际成交价
// 4. Stock只在核销(取书)时扣减,下单不占用库存
type Book struct {
	ID              uint
	ISBN            string     // ISBN号(国际标准书号)
	Title           string     // 书名
	Author          string     // 作者
	Publisher       string     // 出版社
	Price           int64      // 标价(单位:分,1元=100分)
	Stock           int        // 库存数量,恒>=0
	OnSale          bool       // 是否参与促销
	DiscountPercent int        // 折扣百分比(1-100),0表示未设置
	DiscountStart   *time.Time // 折扣生效时间(可选)
	DiscountEnd     *time.Time // 折扣失效时间(可选)
	Available       bool       // 是否可售(下架的书不可下单)
	CoverURL        string     // 封面图片URL
	Description     string     // 图书描述
	OwnerID         uint       // 上架店员ID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 创建新图书(工厂方法)
// price单位为分,必须>0；stock为初始库存
func NewBook(isbn, title, author, publisher string, price int64, stock int, coverURL, description string, ownerID uint) *Book {
	now := time.Now()
	return &Book{
		ISBN:        isbn,
		Title:       title,
		Author:      author,
		Publisher:   publisher,
		Price:       price,
		Stock:       stock,
		Available:   true,
		CoverURL:    coverURL,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// EffectivePrice 计算当前实际成交价(分)
// 业务规则:
// - OnSale为true且DiscountPercent在1-100之间,且now落在折扣窗口内 → 按折扣价
// - 其余情况 → 标价
// - 折扣窗口端点为nil表示该侧不限制
//
// 下单时以此价格做快照写入OrderItem,之后图书改价不影响历史订单
func (b *Book) EffectivePrice(now time.Time) int64 {
	if !b.OnSale || b.DiscountPercent <= 0 || b.DiscountPercent > 100 {
		return b.Price
	}
	if b.DiscountStart != nil && now.Before(*b.DiscountStart) {
		return b.Price
	}
	if b.DiscountEnd != nil && now.After(*b.DiscountEnd) {
		return b.Price
	}
	return b.Price * int64(100-b.DiscountPercent) / 100
}

// StartSale 开启促销(领域行为)
// 业务规则:折扣百分比必须在1-100之间,窗口可选但start必须早于end
func (b *Book) StartSale(percent int, start, end *time.Time) error {
	if percent < 1 || percent > 100 {
		return ErrInvalidDiscount
	}
	if start != nil && end != nil && !start.Before(*end) {
		return ErrInvalidDiscount
	}
	b.OnSale = true
	b.DiscountPercent = percent
	b.DiscountStart = start
	b.DiscountEnd = end
	b.UpdatedAt = time.Now()
	return nil
}

// EndSale 结束促销(领域行为)
func (b *Book) EndSale() {
	b.OnSale = false
	b.DiscountPercent = 0
	b.DiscountStart = nil
	b.DiscountEnd = nil
	b.UpdatedAt = time.Now()
}

// UpdatePrice 更新标价(领域行为)
// 业务规则:价格必须>0
func (b *Book) UpdatePrice(newPrice int64) error {
	if newPrice <= 0 {
		return ErrInvalidPrice
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now()
	return nil
}

// DecrStock 扣减库存(核销时调用)
// 业务规则:扣减后库存不能为负数
// 注意:并发场景的真正保护在Repository.DeductStock的条件UPDATE,
// 实体方法用于单测和核销前的预检
func (b *Book) DecrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if b.Stock < quantity {
		return ErrInsufficientStock
	}
	b.Stock -= quantity
	b.UpdatedAt = time.Now()
	return nil
}

// IncrStock 增加库存(补货)
func (b *Book) IncrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	b.Stock += quantity
	b.UpdatedAt = time.Now()
	return nil
}

// CanPurchase 判断当前是否可购买quantity本
// 下单时的预检:在售且库存充足
// (最终的库存闸门在核销事务里,这里挡掉明显无法履约的订单)
func (b *Book) CanPurchase(quantity int) error {
	if !b.Available {
		return ErrBookUnavailable
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if b.Stock < quantity {
		return ErrInsufficientStock
	}
	return nil
}

// UpdateInfo 更新图书基本信息
func (b *Book) UpdateInfo(title, author, publisher, description string) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	if publisher != "" {
		b.Publisher = publisher
	}
	if description != "" {
		b.Description = description
	}
	b.UpdatedAt = time.Now()
}

// IsOwnedBy 检查图书是否由指定店员上架
func (b *Book) IsOwnedBy(staffID uint) bool {
	return b.OwnerID == staffID
}
