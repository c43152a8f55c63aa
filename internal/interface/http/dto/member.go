package dto

// RegisterRequest HTTP层注册请求
// 说明：HTTP层的DTO，包含参数验证tag
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=20"`
	FullName string `json:"full_name" binding:"required,min=2,max=50"`
}

// MemberResponse 会员响应（不包含密码）
type MemberResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// LoginRequest HTTP层登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Member       MemberResponse `json:"member"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int64          `json:"expires_in"` // Access Token过期时间（秒）
}

// LoyaltyResponse 忠实读者资格响应
type LoyaltyResponse struct {
	Eligible        bool  `json:"eligible"`         // 是否为忠实读者
	FulfilledOrders int64 `json:"fulfilled_orders"` // 已核销订单数
	RequiredOrders  int64 `json:"required_orders"`  // 达标所需订单数
}
