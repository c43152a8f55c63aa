package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/wenjun/bookshop/docs" // swag生成的API文档
	appbook "github.com/wenjun/bookshop/internal/application/book"
	appmember "github.com/wenjun/bookshop/internal/application/member"
	apporder "github.com/wenjun/bookshop/internal/application/order"
	"github.com/wenjun/bookshop/internal/domain/book"
	"github.com/wenjun/bookshop/internal/domain/discount"
	"github.com/wenjun/bookshop/internal/domain/member"
	"github.com/wenjun/bookshop/internal/infrastructure/config"
	"github.com/wenjun/bookshop/internal/infrastructure/notification"
	"github.com/wenjun/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/wenjun/bookshop/internal/infrastructure/persistence/redis"
	"github.com/wenjun/bookshop/internal/interface/http/handler"
	"github.com/wenjun/bookshop/internal/interface/http/middleware"
	"github.com/wenjun/bookshop/pkg/jwt"
	"github.com/wenjun/bookshop/pkg/logger"
	"github.com/wenjun/bookshop/pkg/mq"
	"github.com/wenjun/bookshop/pkg/response"
	"github.com/wenjun/bookshop/pkg/tracing"
)

// @title           书店订单系统API
// @version         1.0
// @description     会员下单取书码、店员核销扣库存的线下书店订单流程
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

// main 主程序入口
// 说明：手动依赖注入，组装顺序与依赖方向一致
// Repository ← Service ← UseCase ← Handler
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	appLogger := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		EnableCaller: cfg.Log.EnableCaller,
	})
	appLogger.Info().
		Int("port", cfg.Server.Port).
		Str("mode", cfg.Server.Mode).
		Str("database", fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)).
		Str("redis", cfg.Redis.Addr()).
		Msg("配置加载成功")

	// 3. 初始化分布式追踪(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("bookshop", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化追踪失败: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	// 4. 初始化数据库与Redis
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 基础设施层
	memberRepo := mysql.NewMemberRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	broadcastLog := redis.NewBroadcastLog(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 6. 消息队列(可降级)
	// RabbitMQ不可用时只关闭实时推送通道,邮件与公告照常
	// 注意:必须保持接口变量为untyped nil,分发器靠nil判断是否降级
	var eventPublisher notification.EventPublisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		appLogger.Warn().Err(err).Msg("RabbitMQ连接失败,实时推送通道降级")
	} else {
		eventPublisher = publisher
		defer publisher.Close()
	}

	// 7. 通知分发器(异步worker,事务提交后入队)
	emailSender := notification.NewLogEmailSender(appLogger)
	dispatcher := notification.NewDispatcher(emailSender, broadcastLog, eventPublisher, appLogger)
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher.Start(dispatcherCtx)

	// 8. 领域层
	memberService := member.NewService(memberRepo)
	bookService := book.NewService(bookRepo)
	policy := discount.NewPolicy(discount.Config{
		FivePercentMinLines: cfg.Discount.FivePercentMinLines,
		TenPercentMinLines:  cfg.Discount.TenPercentMinLines,
		FivePercent:         cfg.Discount.FivePercent,
		TenPercent:          cfg.Discount.TenPercent,
	})
	loyaltyChecker := discount.NewLoyaltyChecker(discount.LoyaltyConfig{
		RequiredFulfilledOrders: cfg.Loyalty.RequiredFulfilledOrders,
	}, orderRepo)

	// 9. 应用层
	registerUseCase := appmember.NewRegisterUseCase(memberService)
	loginUseCase := appmember.NewLoginUseCase(memberService, jwtManager, sessionStore)
	logoutUseCase := appmember.NewLogoutUseCase(sessionStore)
	loyaltyUseCase := appmember.NewLoyaltyUseCase(loyaltyChecker)
	publishBookUseCase := appbook.NewPublishBookUseCase(bookService)
	listBooksUseCase := appbook.NewListBooksUseCase(bookService)
	placeOrderUseCase := apporder.NewPlaceOrderUseCase(orderRepo, bookRepo, memberRepo, policy, txManager, dispatcher)
	fulfillOrderUseCase := apporder.NewFulfillOrderUseCase(orderRepo, bookRepo, memberRepo, txManager, dispatcher)
	cancelOrderUseCase := apporder.NewCancelOrderUseCase(orderRepo, txManager)
	listOrdersUseCase := apporder.NewListOrdersUseCase(orderRepo)

	// 10. 接口层
	memberHandler := handler.NewMemberHandler(registerUseCase, loginUseCase, logoutUseCase, loyaltyUseCase)
	bookHandler := handler.NewBookHandler(publishBookUseCase, listBooksUseCase)
	orderHandler := handler.NewOrderHandler(placeOrderUseCase, cancelOrderUseCase, listOrdersUseCase)
	staffHandler := handler.NewStaffHandler(fulfillOrderUseCase)
	announcementHandler := handler.NewAnnouncementHandler(broadcastLog)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 11. Gin引擎与路由
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	registerRoutes(r, memberHandler, bookHandler, orderHandler, staffHandler, announcementHandler, authMiddleware)

	// 12. 启动HTTP服务(graceful shutdown)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info().Str("addr", srv.Addr).Msg("服务启动")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info().Msg("收到退出信号,开始优雅关闭")

	// 先停HTTP入口,再排空通知队列
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("HTTP服务关闭异常")
	}

	stopDispatcher()
	dispatcher.Wait()
	appLogger.Info().Msg("服务已退出")
}

// registerRoutes 注册路由
// 路由分三类:公开(目录/公告/注册登录)、会员(订单)、店员(上架/核销)
func registerRoutes(
	r *gin.Engine,
	memberHandler *handler.MemberHandler,
	bookHandler *handler.BookHandler,
	orderHandler *handler.OrderHandler,
	staffHandler *handler.StaffHandler,
	announcementHandler *handler.AnnouncementHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档(访问 /swagger/index.html)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 会员模块
		members := v1.Group("/members")
		{
			members.POST("/register", memberHandler.Register)
			members.POST("/login", memberHandler.Login)
			members.POST("/logout", authMiddleware.RequireAuth(), memberHandler.Logout)
			members.GET("/loyalty", authMiddleware.RequireAuth(), memberHandler.Loyalty)
		}

		// 图书目录(公开,仅在售)
		v1.GET("/books", bookHandler.ListBooks)

		// 店内公告(公开,大厅屏幕轮询)
		v1.GET("/announcements", announcementHandler.Recent)

		// 订单模块(会员)
		orders := v1.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			orders.POST("", orderHandler.PlaceOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
		}

		// 店员柜台(上架/核销)
		staff := v1.Group("/staff")
		staff.Use(authMiddleware.RequireAuth(), authMiddleware.RequireStaff())
		{
			staff.POST("/books", bookHandler.PublishBook)
			staff.POST("/orders/fulfill", staffHandler.FulfillOrder)
		}
	}
}
