package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/99minutos/commerce-system/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Identity stubs
// ---------------------------------------------------------------------------

type stubIdentityStore struct {
	users map[string]*domain.User
	rows  map[string][]domain.RoleAssignment
	err   error
}

func newStubIdentityStore() *stubIdentityStore {
	return &stubIdentityStore{
		users: make(map[string]*domain.User),
		rows:  make(map[string][]domain.RoleAssignment),
	}
}

func (s *stubIdentityStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *stubIdentityStore) SearchRoleAssignments(_ context.Context, username string) ([]domain.RoleAssignment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]domain.RoleAssignment(nil), s.rows[username]...), nil
}

type stubAuthContext struct {
	username string
	err      error
}

func (s stubAuthContext) CurrentUsername(context.Context) (string, error) {
	return s.username, s.err
}

// stubAuthenticator replaces Authenticated per test. calls counts invocations.
type stubAuthenticator struct {
	user  *domain.User
	err   error
	calls int
}

func (s *stubAuthenticator) Authenticated(context.Context) (*domain.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubGuard struct {
	err      error
	targetID int64
	calls    int
}

func (g *stubGuard) ValidateSelfOrAdmin(_ context.Context, targetID int64) error {
	g.calls++
	g.targetID = targetID
	return g.err
}

// ---------------------------------------------------------------------------
// Order stubs
// ---------------------------------------------------------------------------

// stubStore keeps orders and items staged inside a transaction and only
// publishes them on commit, which is enough to observe rollback.
type stubStore struct {
	orders   map[int64]*domain.Order
	products map[int64]*domain.Product
	nextID   int64

	staged      []*domain.Order
	inTx        bool
	commits     int
	rollbacks   int
	saves       int
	itemSaves   int
	resolveLog  []int64
	saveItemErr error
}

func newStubStore() *stubStore {
	return &stubStore{
		orders:   make(map[int64]*domain.Order),
		products: make(map[int64]*domain.Product),
		nextID:   1,
	}
}

func (s *stubStore) addProduct(p *domain.Product) { s.products[p.ID] = p }

func (s *stubStore) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	clone.Items = append([]domain.OrderItem(nil), o.Items...)
	return &clone, nil
}

func (s *stubStore) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	s.saves++
	clone := *order
	clone.ID = s.nextID
	clone.Items = nil
	s.nextID++
	s.staged = append(s.staged, &clone)
	return &clone, nil
}

func (s *stubStore) SaveAll(_ context.Context, items []domain.OrderItem) ([]domain.OrderItem, error) {
	s.itemSaves++
	if s.saveItemErr != nil {
		return nil, s.saveItemErr
	}
	for _, it := range items {
		for _, o := range s.staged {
			if o.ID == it.OrderID {
				o.Items = append(o.Items, it)
			}
		}
	}
	return append([]domain.OrderItem(nil), items...), nil
}

func (s *stubStore) GetReference(_ context.Context, id int64) *domain.ProductReference {
	return domain.NewProductReference(id, func(_ context.Context, id int64) (*domain.Product, error) {
		s.resolveLog = append(s.resolveLog, id)
		p, ok := s.products[id]
		if !ok {
			return nil, domain.ErrEntityNotFound
		}
		clone := *p
		return &clone, nil
	})
}

func (s *stubStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx {
		return errors.New("nested transaction")
	}
	s.inTx = true
	defer func() { s.inTx = false }()

	if err := fn(ctx); err != nil {
		s.rollbacks++
		s.staged = nil
		return err
	}
	for _, o := range s.staged {
		s.orders[o.ID] = o
	}
	s.staged = nil
	s.commits++
	return nil
}

func (s *stubStore) repos() OrderRepositories {
	return OrderRepositories{Orders: s, Items: s, Products: s, Tx: s}
}
