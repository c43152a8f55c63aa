package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wenjun/bookshop/internal/domain/member"
	apperrors "github.com/wenjun/bookshop/pkg/errors"
)

// memberRepository 会员仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/member/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如邮箱重复),转换为业务错误
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository 创建会员仓储
func NewMemberRepository(db *gorm.DB) member.Repository {
	return &memberRepository{db: db}
}

// Create 创建会员
func (r *memberRepository) Create(ctx context.Context, m *member.Member) error {
	model := &MemberModel{
		Email:    m.Email,
		Password: m.Password,
		FullName: m.FullName,
		Role:     m.Role,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		// 邮箱唯一索引冲突
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建会员失败")
	}

	// 回填自增ID
	m.ID = model.ID
	m.CreatedAt = model.CreatedAt
	m.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找会员
func (r *memberRepository) FindByID(ctx context.Context, id uint) (*member.Member, error) {
	var model MemberModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "查询会员失败")
	}

	return toMemberEntity(&model), nil
}

// FindByEmail 根据邮箱查找会员
func (r *memberRepository) FindByEmail(ctx context.Context, email string) (*member.Member, error) {
	var model MemberModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "查询会员失败")
	}

	return toMemberEntity(&model), nil
}

// Update 更新会员信息
func (r *memberRepository) Update(ctx context.Context, m *member.Member) error {
	model := &MemberModel{
		ID:       m.ID,
		Email:    m.Email,
		Password: m.Password,
		FullName: m.FullName,
		Role:     m.Role,
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新会员失败")
	}

	m.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除会员(软删除)
func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&MemberModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除会员失败")
	}

	if result.RowsAffected == 0 {
		return apperrors.ErrMemberNotFound
	}

	return nil
}

// toMemberEntity GORM模型 → 领域实体
func toMemberEntity(model *MemberModel) *member.Member {
	return &member.Member{
		ID:        model.ID,
		Email:     model.Email,
		Password:  model.Password,
		FullName:  model.FullName,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
