package book

import (
	"context"
	"regexp"
	"time"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// PublishBook 发布图书(上架)
	// 业务规则:
	// - ISBN格式必须合法(10位或13位数字)
	// - 价格必须在1-999999分之间
	// - 库存必须>=0
	// - ISBN不能重复
	PublishBook(ctx context.Context, isbn, title, author, publisher string, price int64, stock int, coverURL, description string, staffID uint) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// GetBookByISBN 根据ISBN获取图书
	GetBookByISBN(ctx context.Context, isbn string) (*Book, error)

	// UpdateBookInfo 更新图书信息
	// 业务规则:只有上架店员本人可以修改
	UpdateBookInfo(ctx context.Context, id uint, staffID uint, title, author, publisher, description string) error

	// UpdateBookPrice 更新图书标价
	// 业务规则:只有上架店员本人可以修改,且价格必须合法
	UpdateBookPrice(ctx context.Context, id uint, staffID uint, newPrice int64) error

	// SetSale 设置促销折扣(百分比+可选生效窗口)
	// 业务规则:只有上架店员本人可以设置
	SetSale(ctx context.Context, id uint, staffID uint, percent int, start, end *time.Time) error

	// CancelSale 取消促销
	CancelSale(ctx context.Context, id uint, staffID uint) error

	// DeleteBook 下架图书
	// 业务规则:只有上架店员本人可以删除
	DeleteBook(ctx context.Context, id uint, staffID uint) error

	// ListBooks 分页查询图书列表
	// 公开接口,不需要权限校验
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// PublishBook 发布图书
func (s *service) PublishBook(ctx context.Context, isbn, title, author, publisher string, price int64, stock int, coverURL, description string, staffID uint) (*Book, error) {
	// 1. ISBN格式校验
	if !isValidISBN(isbn) {
		return nil, ErrInvalidISBN
	}

	// 2. 价格范围校验(1分-9999.99元)
	if price < 1 || price > 999999 {
		return nil, ErrInvalidPrice
	}

	// 3. 库存校验
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	// 4. 检查ISBN是否已存在
	existingBook, err := s.repo.FindByISBN(ctx, isbn)
	if err == nil && existingBook != nil {
		return nil, ErrISBNDuplicate
	}
	// 如果是ErrBookNotFound以外的错误,返回
	if err != nil && err != ErrBookNotFound {
		return nil, err
	}

	// 5. 创建图书实体并持久化
	book := NewBook(isbn, title, author, publisher, price, stock, coverURL, description, staffID)
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBookByISBN 根据ISBN获取图书
func (s *service) GetBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	if !isValidISBN(isbn) {
		return nil, ErrInvalidISBN
	}
	return s.repo.FindByISBN(ctx, isbn)
}

// UpdateBookInfo 更新图书信息
func (s *service) UpdateBookInfo(ctx context.Context, id uint, staffID uint, title, author, publisher, description string) error {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 权限检查:只有上架店员可以修改
	if !book.IsOwnedBy(staffID) {
		return ErrUnauthorized
	}

	book.UpdateInfo(title, author, publisher, description)
	return s.repo.Update(ctx, book)
}

// UpdateBookPrice 更新图书标价
func (s *service) UpdateBookPrice(ctx context.Context, id uint, staffID uint, newPrice int64) error {
	if newPrice < 1 || newPrice > 999999 {
		return ErrInvalidPrice
	}

	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !book.IsOwnedBy(staffID) {
		return ErrUnauthorized
	}

	if err := book.UpdatePrice(newPrice); err != nil {
		return err
	}

	return s.repo.Update(ctx, book)
}

// SetSale 设置促销折扣
func (s *service) SetSale(ctx context.Context, id uint, staffID uint, percent int, start, end *time.Time) error {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !book.IsOwnedBy(staffID) {
		return ErrUnauthorized
	}

	if err := book.StartSale(percent, start, end); err != nil {
		return err
	}

	return s.repo.Update(ctx, book)
}

// CancelSale 取消促销
func (s *service) CancelSale(ctx context.Context, id uint, staffID uint) error {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !book.IsOwnedBy(staffID) {
		return ErrUnauthorized
	}

	book.EndSale()
	return s.repo.Update(ctx, book)
}

// DeleteBook 下架图书
func (s *service) DeleteBook(ctx context.Context, id uint, staffID uint) error {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !book.IsOwnedBy(staffID) {
		return ErrUnauthorized
	}

	return s.repo.Delete(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	// 分页参数兜底
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 20
	}
	if params.PageSize > 100 {
		params.PageSize = 100
	}

	return s.repo.List(ctx, params)
}

// isbnPattern ISBN格式:10位或13位数字(允许带连字符输入,校验前会去除)
var isbnPattern = regexp.MustCompile(`^(\d{10}|\d{13})$`)

// isValidISBN 校验ISBN格式
func isValidISBN(isbn string) bool {
	// 去除连字符后校验
	cleaned := ""
	for _, c := range isbn {
		if c != '-' {
			cleaned += string(c)
		}
	}
	return isbnPattern.MatchString(cleaned)
}
