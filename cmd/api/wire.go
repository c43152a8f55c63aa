//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appbook "github.com/wenjun/bookshop/internal/application/book"
	appmember "github.com/wenjun/bookshop/internal/application/member"
	apporder "github.com/wenjun/bookshop/internal/application/order"
	"github.com/wenjun/bookshop/internal/domain/book"
	"github.com/wenjun/bookshop/internal/domain/discount"
	"github.com/wenjun/bookshop/internal/domain/member"
	"github.com/wenjun/bookshop/internal/domain/order"
	"github.com/wenjun/bookshop/internal/infrastructure/config"
	"github.com/wenjun/bookshop/internal/infrastructure/notification"
	"github.com/wenjun/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/wenjun/bookshop/internal/infrastructure/persistence/redis"
	"github.com/wenjun/bookshop/internal/interface/http/handler"
	"github.com/wenjun/bookshop/internal/interface/http/middleware"
	"github.com/wenjun/bookshop/pkg/jwt"
	"github.com/wenjun/bookshop/pkg/logger"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：配置加载、数据库连接、Redis连接、日志
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
	provideLogger,   // 结构化日志
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewMemberRepository, // 会员仓储
	mysql.NewBookRepository,   // 图书仓储
	mysql.NewOrderRepository,  // 订单仓储
	mysql.NewTxManager,        // 事务管理器
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	member.NewService,     // 会员领域服务
	book.NewService,       // 图书领域服务
	providePolicy,         // 折扣策略(阈值来自配置)
	provideLoyaltyChecker, // 忠实读者判定
)

// notificationSet 通知链路依赖
// 邮件+店内公告+MQ实时推送,全部在事务提交后异步执行
var notificationSet = wire.NewSet(
	notification.NewLogEmailSender,
	redis.NewBroadcastLog,
	notification.NewDispatcher,
	wire.Bind(new(notification.BroadcastAppender), new(*redis.BroadcastLog)),
	wire.Bind(new(apporder.Notifier), new(*notification.Dispatcher)),
	wire.Bind(new(apporder.TxManager), new(*mysql.TxManager)),
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appmember.NewRegisterUseCase,    // 会员注册用例
	appmember.NewLoginUseCase,       // 会员登录用例
	appmember.NewLogoutUseCase,      // 会员登出用例
	appmember.NewLoyaltyUseCase,     // 忠实读者查询用例
	appbook.NewPublishBookUseCase,   // 图书上架用例
	appbook.NewListBooksUseCase,     // 图书目录用例
	apporder.NewPlaceOrderUseCase,   // 下单用例
	apporder.NewFulfillOrderUseCase, // 核销用例
	apporder.NewCancelOrderUseCase,  // 取消订单用例
	apporder.NewListOrdersUseCase,   // 订单历史用例
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,            // JWT管理器（需要从config提取参数）
	provideSessionStore,          // Session存储（需要从Redis创建）
	middleware.NewAuthMiddleware, // 认证中间件
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewMemberHandler,       // 会员处理器
	handler.NewBookHandler,         // 图书处理器
	handler.NewOrderHandler,        // 订单处理器
	handler.NewStaffHandler,        // 店员柜台处理器
	handler.NewAnnouncementHandler, // 公告处理器
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 有些依赖的构造函数参数不是直接的类型，需要从Config中提取

// provideLogger 从配置创建Logger
func provideLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		EnableCaller: cfg.Log.EnableCaller,
	})
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// providePolicy 从配置创建折扣策略
// 档位阈值与折扣率全部可配,NewPolicy内部对非法配置回退默认值
func providePolicy(cfg *config.Config) *discount.Policy {
	return discount.NewPolicy(discount.Config{
		FivePercentMinLines: cfg.Discount.FivePercentMinLines,
		TenPercentMinLines:  cfg.Discount.TenPercentMinLines,
		FivePercent:         cfg.Discount.FivePercent,
		TenPercent:          cfg.Discount.TenPercent,
	})
}

// provideLoyaltyChecker 从配置创建忠实读者判定器
// 订单仓储通过CountFulfilledByMember满足FulfilledCounter接口
func provideLoyaltyChecker(cfg *config.Config, orderRepo order.Repository) *discount.LoyaltyChecker {
	return discount.NewLoyaltyChecker(discount.LoyaltyConfig{
		RequiredFulfilledOrders: cfg.Loyalty.RequiredFulfilledOrders,
	}, orderRepo)
}

// provideGinEngine 创建并配置Gin引擎
// 路由注册复用main.go中的registerRoutes
func provideGinEngine(
	cfg *config.Config,
	memberHandler *handler.MemberHandler,
	bookHandler *handler.BookHandler,
	orderHandler *handler.OrderHandler,
	staffHandler *handler.StaffHandler,
	announcementHandler *handler.AnnouncementHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	registerRoutes(r, memberHandler, bookHandler, orderHandler, staffHandler, announcementHandler, authMiddleware)
	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
// 依赖链示例：
// *gin.Engine 需要 → *handler.OrderHandler
// *handler.OrderHandler 需要 → *apporder.PlaceOrderUseCase
// *apporder.PlaceOrderUseCase 需要 → order.Repository + *discount.Policy
// order.Repository 需要 → *gorm.DB
// *gorm.DB 需要 → *config.Config
//
// 注意：MQ Publisher可为nil(降级),不适合放进Wire,
// 仍由main.go手动创建后作为notification.EventPublisher传入
func InitializeApp(publisher notification.EventPublisher) (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		notificationSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
