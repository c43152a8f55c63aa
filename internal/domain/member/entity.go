package member

import (
	"time"
)

// 角色常量
// 会员(member)可以浏览、下单、取消自己的订单；
// 店员(staff)额外可以上架图书、凭取书码核销订单
const (
	RoleMember = "member"
	RoleStaff  = "staff"
)

// Member 会员实体（聚合根）
// DDD设计说明：
// 1. Member是会员聚合的根实体，包含会员的核心属性
// 2. 密码已加密存储（bcrypt），不应该有GetPassword()等方法暴露明文
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type Member struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	FullName  string
	Role      string // member / staff
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMember 创建新会员（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewMember(email, hashedPassword, fullName, role string) *Member {
	now := time.Now()
	if role == "" {
		role = RoleMember
	}
	return &Member{
		Email:     email,
		Password:  hashedPassword,
		FullName:  fullName,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsStaff 是否为店员
func (m *Member) IsStaff() bool {
	return m.Role == RoleStaff
}

// UpdateFullName 更新姓名（领域行为）
func (m *Member) UpdateFullName(fullName string) {
	m.FullName = fullName
	m.UpdatedAt = time.Now()
}
