package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wenjun/bookshop/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	// GORM日志级别
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 连接池配置
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 注意：这里使用GORM的模型定义（带tag），不是domain层的实体
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&MemberModel{},
		&BookModel{},
		&OrderModel{},
		&OrderItemModel{},
		&ProcessedOrderModel{},
	)
}

// MemberModel GORM会员模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/member/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type MemberModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	FullName  string         `gorm:"size:50;not null;comment:姓名"`
	Role      string         `gorm:"size:20;not null;default:member;comment:角色(member会员/staff店员)"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (MemberModel) TableName() string {
	return "members"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. ISBN有唯一索引,防止重复
// 3. 促销字段(on_sale/discount_percent/折扣窗口)支持限时折扣
// 4. 添加复合索引优化列表查询性能
type BookModel struct {
	ID              uint           `gorm:"primaryKey"`
	ISBN            string         `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title           string         `gorm:"index:idx_search;size:200;not null;comment:书名"` // 搜索索引
	Author          string         `gorm:"index:idx_search;size:100;not null;comment:作者"` // 搜索索引
	Publisher       string         `gorm:"size:100;not null;comment:出版社"`
	Price           int64          `gorm:"index:idx_list;not null;comment:标价(分)"` // 排序索引
	Stock           int            `gorm:"default:0;comment:库存数量"`
	OnSale          bool           `gorm:"default:false;comment:是否促销"`
	DiscountPercent int            `gorm:"default:0;comment:折扣百分比(1-100)"`
	DiscountStart   *time.Time     `gorm:"comment:折扣生效时间"`
	DiscountEnd     *time.Time     `gorm:"comment:折扣失效时间"`
	Available       bool           `gorm:"default:true;index;comment:是否在售"`
	CoverURL        string         `gorm:"size:500;comment:封面图片URL"`
	Description     string         `gorm:"type:text;comment:图书描述"`
	OwnerID         uint           `gorm:"index;not null;comment:上架店员ID"`
	CreatedAt       time.Time      `gorm:"index:idx_list;comment:创建时间"` // 排序索引
	UpdatedAt       time.Time      `gorm:"comment:更新时间"`
	DeletedAt       gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderItemModel是一对多关系
// 2. ClaimCode有唯一索引(取书凭证,业务主键)
// 3. Status使用int存储(节省空间,便于索引)
// 4. 折扣标记冗余存储,便于对账与统计
type OrderModel struct {
	ID                 uint             `gorm:"primaryKey"`
	ClaimCode          string           `gorm:"uniqueIndex;size:36;not null;comment:取书码(UUID)"`
	MemberID           uint             `gorm:"index;not null;comment:下单会员ID"`
	Total              int64            `gorm:"not null;comment:折后总金额(分)"`
	Status             int              `gorm:"index;type:tinyint;default:1;comment:订单状态(1待取书2已核销3已取消)"`
	FivePercentApplied bool             `gorm:"default:false;comment:是否命中95折"`
	TenPercentApplied  bool             `gorm:"default:false;comment:是否命中9折"`
	Items              []OrderItemModel `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt          time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt          time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// 教学要点:
// 1. 记录下单时的成交单价快照(UnitPrice字段)
// 2. OrderID外键关联orders表
type OrderItemModel struct {
	ID        uint  `gorm:"primaryKey"`
	OrderID   uint  `gorm:"index;not null;comment:订单ID"`
	BookID    uint  `gorm:"index;not null;comment:图书ID"`
	Quantity  int   `gorm:"not null;comment:购买数量"`
	UnitPrice int64 `gorm:"not null;comment:下单时单价快照(分)"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ProcessedOrderModel GORM核销记录模型
// 教学要点:
// OrderID上的UNIQUE索引是防止重复核销的最终防线:
// 两个店员并发核销同一取书码时,第二个INSERT必然失败
type ProcessedOrderModel struct {
	ID          uint      `gorm:"primaryKey"`
	OrderID     uint      `gorm:"uniqueIndex;not null;comment:被核销订单ID"`
	StaffID     uint      `gorm:"index;not null;comment:核销店员ID"`
	ProcessedAt time.Time `gorm:"not null;comment:核销时间"`
}

// TableName 指定表名
func (ProcessedOrderModel) TableName() string {
	return "processed_orders"
}
