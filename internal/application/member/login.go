package member

import (
	"context"
	"time"

	"github.com/wenjun/bookshop/internal/domain/member"
	"github.com/wenjun/bookshop/internal/infrastructure/persistence/redis"
	"github.com/wenjun/bookshop/pkg/jwt"
)

// LoginUseCase 会员登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 生成JWT Token对(Claims中带角色,店员接口靠角色鉴权)
// 3. 保存会话到Redis
type LoginUseCase struct {
	memberService member.Service
	jwtManager    *jwt.Manager
	sessionStore  *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	memberService member.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		memberService: memberService,
		jwtManager:    jwtManager,
		sessionStore:  sessionStore,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码（调用领域服务）
	m, err := uc.memberService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对
	tokenPair, err := uc.jwtManager.GenerateToken(m.ID, m.Email, m.FullName, m.Role)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话到Redis
	sessionData := map[string]interface{}{
		"member_id": m.ID,
		"email":     m.Email,
		"full_name": m.FullName,
		"role":      m.Role,
		"login_at":  time.Now().Unix(),
	}

	// 会话有效期 = Refresh Token有效期
	// 会话保存失败不影响登录结果(Redis故障时仍可凭Token访问)
	_ = uc.sessionStore.SaveSession(ctx, m.ID, sessionData, 7*24*time.Hour)

	// 4. 返回登录响应
	return &LoginResponse{
		Member: MemberInfo{
			ID:       m.ID,
			Email:    m.Email,
			FullName: m.FullName,
			Role:     m.Role,
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 会员登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, memberID uint, accessToken string) error {
	// 1. 删除会话
	if err := uc.sessionStore.DeleteSession(ctx, memberID); err != nil {
		return err
	}

	// 2. 将Access Token加入黑名单（防止Token在过期前继续使用）
	if err := uc.sessionStore.AddToBlacklist(ctx, accessToken, 2*time.Hour); err != nil {
		return err
	}

	return nil
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
}

// MemberInfo 会员信息
type MemberInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Member       MemberInfo `json:"member"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int64      `json:"expires_in"` // Access Token过期时间（秒）
}
