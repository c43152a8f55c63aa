package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	// params包含:page, pageSize, keyword, onlyAvailable等
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书(核销事务中锁定库存行)
	// 使用SELECT FOR UPDATE锁定行,防止并发超卖
	LockByID(ctx context.Context, id uint) (*Book, error)

	// DeductStock 扣减库存(原子条件更新)
	// 实现必须使用 UPDATE ... SET stock = stock - ? WHERE id = ? AND stock >= ?
	// 并检查RowsAffected:条件不满足时返回ErrInsufficientStock,不做部分扣减
	DeductStock(ctx context.Context, id uint, quantity int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page          int    // 页码(从1开始)
	PageSize      int    // 每页数量
	Keyword       string // 搜索关键词(搜索标题、作者、出版社)
	SortBy        string // 排序字段(price_asc, price_desc, created_at_desc)
	OnlyAvailable bool   // 仅返回在售图书(会员浏览目录时为true)
}
