package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ndolgikh/marketcore/internal/audit"
	"github.com/ndolgikh/marketcore/internal/models"
	"github.com/ndolgikh/marketcore/internal/pricing"
	"github.com/ndolgikh/marketcore/internal/repo"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type publishedEvent struct {
	Topic string
	Key   string
	Event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	ch     chan struct{}
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{ch: make(chan struct{}, 16)}
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	f.events = append(f.events, publishedEvent{Topic: topic, Key: key, Event: event})
	f.mu.Unlock()
	f.ch <- struct{}{}
	return nil
}

func (f *fakePublisher) wait(t *testing.T) publishedEvent {
	t.Helper()
	select {
	case <-f.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event published")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[len(f.events)-1]
}

type testEnv struct {
	Repo    *repo.GormRepo
	Cart    *CartService
	Orders  *OrderService
	Users   *UserService
	Catalog *CatalogService
	Tickets *TicketService
	Pub     *fakePublisher
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repo.Migrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	r := &repo.GormRepo{DB: db}
	pub := newFakePublisher()
	sink := audit.NewSink(pub, "audit_events")

	return &testEnv{
		Repo: r,
		Cart: &CartService{Repo: r},
		Orders: &OrderService{
			Repo:    r,
			Pricing: &pricing.Engine{},
			Audit:   sink,
			Now:     func() time.Time { return fixedNow },
		},
		Users: &UserService{
			Repo:      r,
			Audit:     sink,
			JWTSecret: []byte("test-jwt-secret"),
			AccessTTL: time.Hour,
		},
		Catalog: &CatalogService{Repo: r, Audit: sink},
		Tickets: &TicketService{Repo: r},
		Pub:     pub,
	}
}

func (env *testEnv) createProduct(t *testing.T, name string, price float64, stock int64) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, env.Repo.DB.Create(product).Error)
	return product
}

func (env *testEnv) stockOf(t *testing.T, productID uint) int64 {
	t.Helper()
	var product models.Product
	require.NoError(t, env.Repo.DB.First(&product, productID).Error)
	return product.Stock
}
