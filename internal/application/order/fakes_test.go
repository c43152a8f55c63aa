package order

import (
	"context"
	"sync"

	"github.com/wenjun/bookshop/internal/domain/book"
	"github.com/wenjun/bookshop/internal/domain/member"
	"github.com/wenjun/bookshop/internal/domain/order"
	apperrors "github.com/wenjun/bookshop/pkg/errors"
)

// 内存版仓储与事务假实现
// 说明:单测不连MySQL,用内存map模拟仓储行为;
// 假事务直接透传(回滚语义由具体断言覆盖:失败用例检查状态未变)

// fakeTxManager 透传事务
// 注意:真实事务失败会回滚,这里的假实现不回滚——
// 用例测试通过"失败路径不提前写状态"的实现顺序保证等价性,
// 涉及部分写入的用例(库存不足)用快照对比断言
type fakeTxManager struct{}

func (f *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeNotifier 记录入队的事件
type fakeNotifier struct {
	mu     sync.Mutex
	events []interface{}
}

func (f *fakeNotifier) Enqueue(ev interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// fakeMemberRepo 内存版会员仓储
type fakeMemberRepo struct {
	members map[uint]*member.Member
}

func newFakeMemberRepo(members ...*member.Member) *fakeMemberRepo {
	m := make(map[uint]*member.Member)
	for _, mem := range members {
		m[mem.ID] = mem
	}
	return &fakeMemberRepo{members: m}
}

func (f *fakeMemberRepo) Create(ctx context.Context, m *member.Member) error {
	f.members[m.ID] = m
	return nil
}

func (f *fakeMemberRepo) FindByID(ctx context.Context, id uint) (*member.Member, error) {
	if m, ok := f.members[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, apperrors.ErrMemberNotFound
}

func (f *fakeMemberRepo) FindByEmail(ctx context.Context, email string) (*member.Member, error) {
	for _, m := range f.members {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, apperrors.ErrMemberNotFound
}

func (f *fakeMemberRepo) Update(ctx context.Context, m *member.Member) error {
	f.members[m.ID] = m
	return nil
}

func (f *fakeMemberRepo) Delete(ctx context.Context, id uint) error {
	delete(f.members, id)
	return nil
}

// fakeBookRepo 内存版图书仓储
type fakeBookRepo struct {
	books map[uint]*book.Book
}

func newFakeBookRepo(books ...*book.Book) *fakeBookRepo {
	m := make(map[uint]*book.Book)
	for _, b := range books {
		m[b.ID] = b
	}
	return &fakeBookRepo{books: m}
}

func (f *fakeBookRepo) Create(ctx context.Context, b *book.Book) error {
	f.books[b.ID] = b
	return nil
}

func (f *fakeBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	if b, ok := f.books[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, book.ErrBookNotFound
}

func (f *fakeBookRepo) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	for _, b := range f.books {
		if b.ISBN == isbn {
			cp := *b
			return &cp, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (f *fakeBookRepo) Update(ctx context.Context, b *book.Book) error {
	f.books[b.ID] = b
	return nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id uint) error {
	delete(f.books, id)
	return nil
}

func (f *fakeBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var out []*book.Book
	for _, b := range f.books {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookRepo) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeBookRepo) DeductStock(ctx context.Context, id uint, quantity int) error {
	b, ok := f.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	if b.Stock < quantity {
		return book.ErrInsufficientStock
	}
	b.Stock -= quantity
	return nil
}

func (f *fakeBookRepo) stockOf(id uint) int {
	return f.books[id].Stock
}

// fakeOrderRepo 内存版订单仓储
type fakeOrderRepo struct {
	nextID    uint
	orders    map[uint]*order.Order
	processed map[uint]*order.ProcessedOrder // key: orderID
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		nextID:    1,
		orders:    make(map[uint]*order.Order),
		processed: make(map[uint]*order.ProcessedOrder),
	}
}

func (f *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	o.ID = f.nextID
	f.nextID++
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	if o, ok := f.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, order.ErrOrderNotFound
}

func (f *fakeOrderRepo) FindByClaimCode(ctx context.Context, claimCode string) (*order.Order, error) {
	for _, o := range f.orders {
		if o.ClaimCode == claimCode {
			cp := *o
			return &cp, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (f *fakeOrderRepo) Update(ctx context.Context, o *order.Order) error {
	if _, ok := f.orders[o.ID]; !ok {
		return order.ErrOrderNotFound
	}
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) ListByMemberID(ctx context.Context, memberID uint, page, pageSize int) ([]*order.Order, int64, error) {
	var out []*order.Order
	for _, o := range f.orders {
		if o.MemberID == memberID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) CountFulfilledByMember(ctx context.Context, memberID uint) (int64, error) {
	var n int64
	for _, o := range f.orders {
		if o.MemberID == memberID && o.IsFulfilled() {
			n++
		}
	}
	return n, nil
}

func (f *fakeOrderRepo) CreateProcessed(ctx context.Context, p *order.ProcessedOrder) error {
	if _, exists := f.processed[p.OrderID]; exists {
		return order.ErrAlreadyFulfilled
	}
	cp := *p
	f.processed[p.OrderID] = &cp
	return nil
}

func (f *fakeOrderRepo) HasProcessed(ctx context.Context, orderID uint) (bool, error) {
	_, ok := f.processed[orderID]
	return ok, nil
}
