package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	appmember "github.com/wenjun/bookshop/internal/application/member"
	"github.com/wenjun/bookshop/internal/interface/http/dto"
	"github.com/wenjun/bookshop/internal/interface/http/middleware"
	"github.com/wenjun/bookshop/pkg/response"
)

// MemberHandler 会员HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 不包含业务逻辑（业务逻辑在domain和application层）
// 3. 使用依赖注入，便于测试
type MemberHandler struct {
	registerUseCase *appmember.RegisterUseCase
	loginUseCase    *appmember.LoginUseCase
	logoutUseCase   *appmember.LogoutUseCase
	loyaltyUseCase  *appmember.LoyaltyUseCase
}

// NewMemberHandler 创建会员处理器
func NewMemberHandler(
	registerUseCase *appmember.RegisterUseCase,
	loginUseCase *appmember.LoginUseCase,
	logoutUseCase *appmember.LogoutUseCase,
	loyaltyUseCase *appmember.LoyaltyUseCase,
) *MemberHandler {
	return &MemberHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
		loyaltyUseCase:  loyaltyUseCase,
	}
}

// Register 会员注册
// @Summary      会员注册
// @Description  创建新会员账号(店员账号由运营后台开通,注册接口一律产生普通会员)
// @Tags         会员
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=dto.MemberResponse} "注册成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/v1/members/register [post]
func (h *MemberHandler) Register(c *gin.Context) {
	// 1. 绑定并验证参数
	// 学习要点：Gin的ShouldBindJSON会自动校验binding tag
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	result, err := h.registerUseCase.Execute(c.Request.Context(), appmember.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 返回成功响应
	response.Success(c, &dto.MemberResponse{
		ID:       result.ID,
		Email:    result.Email,
		FullName: result.FullName,
		Role:     result.Role,
	})
}

// Login 会员登录
// @Summary      会员登录
// @Description  验证邮箱密码，返回JWT Token(Claims中携带角色)
// @Tags         会员
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=dto.LoginResponse} "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /api/v1/members/login [post]
func (h *MemberHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appmember.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.LoginResponse{
		Member: dto.MemberResponse{
			ID:       result.Member.ID,
			Email:    result.Member.Email,
			FullName: result.Member.FullName,
			Role:     result.Member.Role,
		},
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

// Logout 会员登出
// @Summary      会员登出
// @Description  删除会话并将当前Token加入黑名单
// @Tags         会员
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/members/logout [post]
func (h *MemberHandler) Logout(c *gin.Context) {
	memberID := middleware.MustGetMemberID(c)

	// 从Header中取出当前Token(加入黑名单用)
	tokenString := ""
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 {
			tokenString = parts[1]
		}
	}

	if err := h.logoutUseCase.Execute(c.Request.Context(), memberID, tokenString); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "登出成功", nil)
}

// Loyalty 忠实读者资格查询
// @Summary      忠实读者资格
// @Description  查询当前会员是否达到忠实读者标准(已核销订单数达到阈值,已取消订单不计入)
// @Tags         会员
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.LoyaltyResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/members/loyalty [get]
func (h *MemberHandler) Loyalty(c *gin.Context) {
	memberID := middleware.MustGetMemberID(c)

	result, err := h.loyaltyUseCase.Execute(c.Request.Context(), memberID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.LoyaltyResponse{
		Eligible:        result.Eligible,
		FulfilledOrders: result.FulfilledOrders,
		RequiredOrders:  result.RequiredOrders,
	})
}
