package orders

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/migrate"
	"github.com/angelmondragon/storefront/pkg/storefront"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSubmissionDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrate.Run(context.Background(), sqlDB, config.DriverSQLite, "../../pkg/migrate/migrations", "up"))
	return db
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
}

type stubCart struct {
	mu      sync.Mutex
	view    *cart.View
	fees    cart.FeeTable
	getErr  error
	clears  int
	getFn   func()
	clearFn func()
}

func newStubCart(sessionID string, district string, items ...cart.LineItem) *stubCart {
	fees := cart.DefaultFeeTable()
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	fee := decimal.Zero
	if district != "" {
		fee = fees.FeeFor(district)
	}
	return &stubCart{
		fees: fees,
		view: &cart.View{
			SessionID:   sessionID,
			Items:       items,
			ItemCount:   len(items),
			District:    district,
			Subtotal:    subtotal,
			DeliveryFee: fee,
			Total:       subtotal.Add(fee),
		},
	}
}

func (s *stubCart) GetCart(ctx context.Context, sessionID string) (*cart.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getFn != nil {
		s.getFn()
	}
	if s.getErr != nil {
		return nil, s.getErr
	}
	copied := *s.view
	copied.Items = append([]cart.LineItem(nil), s.view.Items...)
	return &copied, nil
}

func (s *stubCart) ClearAll(ctx context.Context, sessionID string) (*cart.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	if s.clearFn != nil {
		s.clearFn()
	}
	s.view = &cart.View{SessionID: sessionID, Items: []cart.LineItem{}}
	return s.view, nil
}

func (s *stubCart) FeeTable() cart.FeeTable {
	return s.fees
}

type stubGateway struct {
	mu       sync.Mutex
	result   *storefront.OrderResult
	err      error
	products map[string]*storefront.Product
	requests []storefront.OrderRequest
	onCreate func(ctx context.Context)
}

func (g *stubGateway) CreateOrder(ctx context.Context, order storefront.OrderRequest) (*storefront.OrderResult, error) {
	if g.onCreate != nil {
		g.onCreate(ctx)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, order)
	return g.result, g.err
}

func (g *stubGateway) GetProduct(ctx context.Context, productID string) (*storefront.Product, error) {
	product, ok := g.products[productID]
	if !ok {
		return nil, nil
	}
	return product, nil
}

func (g *stubGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

type memoryGuard struct {
	mu    sync.Mutex
	held  map[string]any
	ttls  map[string]time.Duration
	dels  int
	nxErr error
}

func newMemoryGuard() *memoryGuard {
	return &memoryGuard{held: map[string]any{}, ttls: map[string]time.Duration{}}
}

func (g *memoryGuard) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.nxErr != nil {
		return false, g.nxErr
	}
	if _, ok := g.held[key]; ok {
		return false, nil
	}
	g.held[key] = value
	g.ttls[key] = ttl
	return true, nil
}

func (g *memoryGuard) Del(ctx context.Context, keys ...string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, key := range keys {
		delete(g.held, key)
	}
	g.dels++
	return nil
}

func (g *memoryGuard) InFlightKey(sessionID string) string {
	return "sf:order_inflight:" + sessionID
}

func (g *memoryGuard) isHeld(sessionID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.held[g.InFlightKey(sessionID)]
	return ok
}

type countingMetrics struct {
	mu          sync.Mutex
	submissions map[string]int
	observed    int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{submissions: map[string]int{}}
}

func (m *countingMetrics) IncSubmission(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[kind+"/"+outcome]++
}

func (m *countingMetrics) ObserveUpstream(kind string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observed++
}
