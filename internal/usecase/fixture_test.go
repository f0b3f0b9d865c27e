package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"evmarket/internal/domain/event"
	"evmarket/internal/domain/model"
	"evmarket/internal/infra/cache"
	infrarepo "evmarket/internal/infra/repository"
	repo "evmarket/internal/repository"
	"evmarket/internal/testutil"

	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("TX-%04d", g.n)
}

// 発行されたイベントを覚えておく
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// sqliteを使った結合テスト用の環境
type env struct {
	tm           repo.TransactionManager
	users        repo.UserRepository
	orders       repo.OrderRepository
	products     repo.ProductRepository
	transactions repo.TransactionRepository
	packages     repo.PackageRepository
	userPackages repo.UserPackageRepository
	audit        repo.AuditLogRepository
	store        repo.ContinuationStore
	clock        *fixedClock
	ids          *seqIDs
	pub          *recordingPublisher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	return &env{
		tm:           infrarepo.NewTxManagerGorm(db),
		users:        infrarepo.NewUserGormRepository(db),
		orders:       infrarepo.NewOrderGormRepository(db),
		products:     infrarepo.NewProductGormRepository(db),
		transactions: infrarepo.NewTransactionGormRepository(db),
		packages:     infrarepo.NewPackageGormRepository(db),
		userPackages: infrarepo.NewUserPackageGormRepository(db),
		audit:        infrarepo.NewAuditLogGormRepository(db),
		store:        cache.NewMemoryContinuationStore(),
		clock:        &fixedClock{now: time.Now().UTC().Truncate(time.Second)},
		ids:          &seqIDs{},
		pub:          &recordingPublisher{},
	}
}

func (e *env) tokens() *ContinuationTokens {
	return NewContinuationTokens("test-secret", e.store, e.ids, e.clock)
}

func (e *env) paymentUsecase(sandbox bool) *PaymentUsecase {
	return NewPaymentUsecase(e.tm, e.transactions, e.tokens(), e.pub, e.ids, e.clock, PaymentConfig{
		PublicBaseURL: "http://api.test",
		FEURL:         "http://fe.test",
		Sandbox:       sandbox,
	})
}

func (e *env) seedProduct(t *testing.T, sellerID int64, pt model.ProductType, price int64, st model.ProductStatus) model.Product {
	t.Helper()
	p, err := e.products.Create(context.Background(), model.Product{
		SellerID: sellerID,
		Title:    string(pt) + " listing",
		Type:     pt,
		Price:    price,
		Status:   st,
	})
	require.NoError(t, err)
	return p
}

func (e *env) seedOrder(t *testing.T, buyerID int64, p model.Product, st model.OrderStatus) model.Order {
	t.Helper()
	o, err := e.orders.Create(context.Background(), model.Order{
		BuyerID:         buyerID,
		ProductID:       p.ID,
		ProductType:     p.Type,
		TotalAmount:     p.Price,
		ShippingAddress: "12 Tràng Tiền, Hà Nội",
		PaymentMethod:   "VNPAY",
		Status:          st,
	})
	require.NoError(t, err)
	return o
}

var (
	buyer  = Actor{UserID: 10, Role: model.RoleMember}
	seller = Actor{UserID: 20, Role: model.RoleMember}
	staff  = Actor{UserID: 30, Role: model.RoleStaff}
)
