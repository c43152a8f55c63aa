package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wenjun/bookshop/internal/domain/member"
	"github.com/wenjun/bookshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/wenjun/bookshop/pkg/errors"
	"github.com/wenjun/bookshop/pkg/jwt"
	"github.com/wenjun/bookshop/pkg/response"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 验证Token有效性
// 3. 检查Token黑名单
// 4. 将会员信息注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.POST("/orders", handler.PlaceOrder)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从Header提取Token
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithCode(c, 40100, "请先登录")
			c.Abort()
			return
		}

		// 2. 解析Token格式
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorWithCode(c, 40101, "Token格式错误")
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 3. 检查Token是否在黑名单中（会员已登出或Token被强制失效）
		isBlacklisted, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.ErrorWithCode(c, 50000, "验证Token失败")
			c.Abort()
			return
		}
		if isBlacklisted {
			response.ErrorWithCode(c, 40102, "Token已失效，请重新登录")
			c.Abort()
			return
		}

		// 4. 验证Token并解析Claims
		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // 自动处理ErrTokenExpired、ErrInvalidToken
			c.Abort()
			return
		}

		// 5. 将会员信息注入到Context（后续Handler可以使用）
		// 学习要点：使用Context传递请求级别的数据
		c.Set("member_id", claims.MemberID)
		c.Set("email", claims.Email)
		c.Set("full_name", claims.FullName)
		c.Set("role", claims.Role)

		// 6. 继续处理请求
		c.Next()
	}
}

// RequireStaff 要求店员身份
// 说明：必须先经过RequireAuth注入role，再用本中间件把关。
// 核销、上架等柜台操作只对店员开放，普通会员一律403。
//
//	staff := r.Group("/api/v1/staff")
//	staff.Use(authMiddleware.RequireAuth(), authMiddleware.RequireStaff())
func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != member.RoleStaff {
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetMemberID 从Context获取当前登录会员ID
// 使用示例：
//
//	memberID := middleware.GetMemberID(c)
//	if memberID == 0 {
//	    // 未登录
//	}
func GetMemberID(c *gin.Context) uint {
	if memberID, exists := c.Get("member_id"); exists {
		if mid, ok := memberID.(uint); ok {
			return mid
		}
	}
	return 0
}

// GetRole 从Context获取当前登录会员角色
func GetRole(c *gin.Context) string {
	if role, exists := c.Get("role"); exists {
		if r, ok := role.(string); ok {
			return r
		}
	}
	return ""
}

// MustGetMemberID 从Context获取会员ID（如果不存在则panic）
// 说明：用于已经通过RequireAuth中间件的Handler
func MustGetMemberID(c *gin.Context) uint {
	memberID := GetMemberID(c)
	if memberID == 0 {
		panic("member_id not found in context")
	}
	return memberID
}

// =========================================
// 学习要点总结
// =========================================
//
// 1. 中间件执行顺序
//    r.Use(Logger())          // 1. 日志中间件
//    r.Use(Recovery())        // 2. Recovery中间件
//    r.Use(Auth())            // 3. 认证中间件
//    r.GET("/api", handler)   // 4. 业务Handler
//
// 2. c.Abort() vs c.Next()
//    - c.Abort(): 终止后续Handler执行（用于鉴权失败）
//    - c.Next(): 继续执行后续Handler
//
// 3. 角色控制
//    - Token中携带role，RequireStaff只做一次字符串比较
//    - 店员账号由运营后台开通，注册接口永远产生普通会员
//
// 4. 安全建议
//    - 始终检查Token黑名单（防止已登出Token继续使用）
//    - Token泄露后可以通过黑名单强制失效
