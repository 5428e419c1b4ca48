package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"bakery-service/cart"
	"bakery-service/models"
	"bakery-service/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var testLogger = zap.NewNop()

// ---- products ----

type fakeProductRepo struct {
	products  map[uuid.UUID]models.Product
	findAll   int
	findErr   error
	createErr error
}

func newFakeProductRepo(ps ...models.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[uuid.UUID]models.Product{}}
	for _, p := range ps {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) FindAll(_ context.Context, q repository.ProductQuery) ([]models.Product, error) {
	r.findAll++
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []models.Product
	for _, p := range r.products {
		if q.AvailableOnly && !p.Available {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	if r.createErr != nil {
		return r.createErr
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *models.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

// ---- orders ----

type fakeOrderRepo struct {
	orders         map[uuid.UUID]*models.Order
	items          []models.OrderLineItem
	createCalls    int
	lineItemCalls  int
	updateCalls    int
	createErr      error
	lineItemsErr   error
	updateErr      error
	countPending   int64
	deliveredSum   int64
	sumFrom, sumTo time.Time
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, o *models.Order) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) CreateLineItems(_ context.Context, items []models.OrderLineItem) error {
	r.lineItemCalls++
	if r.lineItemsErr != nil {
		return r.lineItemsErr
	}
	r.items = append(r.items, items...)
	if len(items) > 0 {
		if o, ok := r.orders[items[0].OrderID]; ok {
			o.Items = append(o.Items, items...)
		}
	}
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.OrderStatus) error {
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	o, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, q repository.OrderQuery) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range r.orders {
		if q.Status == "" || o.Status == q.Status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) CountByStatus(_ context.Context, _ models.OrderStatus) (int64, error) {
	return r.countPending, nil
}

func (r *fakeOrderRepo) SumDeliveredBetween(_ context.Context, from, to time.Time) (int64, error) {
	r.sumFrom, r.sumTo = from, to
	return r.deliveredSum, nil
}

// ---- contact messages ----

type fakeMessageRepo struct {
	msgs         map[uuid.UUID]*models.ContactMessage
	createErr    error
	updateErr    error
	updateCalls  int
	countPending int64
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{msgs: map[uuid.UUID]*models.ContactMessage{}}
}

func (r *fakeMessageRepo) Create(_ context.Context, m *models.ContactMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	m.ID = uuid.New()
	cp := *m
	r.msgs[m.ID] = &cp
	return nil
}

func (r *fakeMessageRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.MessageStatus) error {
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	m, ok := r.msgs[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeMessageRepo) FindByID(_ context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	m, ok := r.msgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMessageRepo) FindAll(_ context.Context, _ repository.MessageQuery) ([]models.ContactMessage, int64, error) {
	var out []models.ContactMessage
	for _, m := range r.msgs {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMessageRepo) CountByStatus(_ context.Context, _ models.MessageStatus) (int64, error) {
	return r.countPending, nil
}

// ---- session carts ----

type fakeCartStore struct {
	mu        sync.Mutex
	carts     map[string]cart.Snapshot
	locks     map[string]string
	idem      map[string]string
	saveCalls int
	loadErr   error
	saveErr   error
	lockErr   error
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[string]cart.Snapshot{}, locks: map[string]string{}, idem: map[string]string{}}
}

func (s *fakeCartStore) Load(_ context.Context, id string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return cart.Restore(s.carts[id]), nil
}

func (s *fakeCartStore) Save(_ context.Context, id string, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	if c.IsEmpty() {
		delete(s.carts, id)
		return nil
	}
	s.carts[id] = c.Snapshot()
	return nil
}

func (s *fakeCartStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	return nil
}

func (s *fakeCartStore) AcquireCheckoutLock(_ context.Context, id string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lockErr != nil {
		return "", false, s.lockErr
	}
	if _, held := s.locks[id]; held {
		return "", false, nil
	}
	token := uuid.NewString()
	s.locks[id] = token
	return token, true, nil
}

func (s *fakeCartStore) ReleaseCheckoutLock(_ context.Context, id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[id] == token {
		delete(s.locks, id)
	}
	return nil
}

func (s *fakeCartStore) GetIdempotency(_ context.Context, sessionID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idem[sessionID+":"+key], nil
}

func (s *fakeCartStore) SetIdempotency(_ context.Context, sessionID, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idem[sessionID+":"+key] = orderID
	return nil
}

// seed stores a cart for the session.
func (s *fakeCartStore) seed(id string, c *cart.Cart) {
	s.carts[id] = c.Snapshot()
}

// ---- publishers ----

type mockEvents struct{ mock.Mock }

func (m *mockEvents) PublishOrderPlaced(ctx context.Context, evt models.OrderPlacedEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *mockEvents) PublishOrderStatusChanged(ctx context.Context, evt models.OrderStatusChangedEvent) error {
	return m.Called(ctx, evt).Error(0)
}

type mockSNS struct{ mock.Mock }

func (m *mockSNS) Publish(ctx context.Context, topicArn string, message []byte) error {
	return m.Called(ctx, topicArn, message).Error(0)
}

// ---- catalog cache ----

type fakeCatalogCache struct {
	products    []models.Product
	hit         bool
	invalidated int
}

func (c *fakeCatalogCache) GetAvailable(context.Context) ([]models.Product, bool) {
	return c.products, c.hit
}

func (c *fakeCatalogCache) SetAvailable(_ context.Context, ps []models.Product) {
	c.products, c.hit = ps, true
}

func (c *fakeCatalogCache) Invalidate(context.Context) error {
	c.invalidated++
	c.products, c.hit = nil, false
	return nil
}

// ---- fixtures ----

func testProduct(name string, price int64, category models.ProductCategory, available bool, age time.Duration) models.Product {
	return models.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		Category:  category,
		Available: available,
		CreatedAt: time.Now().Add(-age),
	}
}
