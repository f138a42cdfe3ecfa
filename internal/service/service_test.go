package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"foodstack-pos/internal/model"
	"foodstack-pos/internal/repository"
	"foodstack-pos/internal/testutil"
	"foodstack-pos/internal/ws"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var brt = time.FixedZone("BRT", -3*60*60)

type fixture struct {
	ctx     context.Context
	db      *gorm.DB
	hub     *ws.Hub
	now     time.Time
	catalog CatalogService
	stock   StockService
	users   UserService
	cash    CashService
	orders  OrderService
	reports ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := ws.NewHub(logger)

	f := &fixture{
		ctx: context.Background(),
		db:  db,
		hub: hub,
		now: time.Date(2024, 1, 15, 12, 30, 0, 0, brt),
	}
	clock := func() time.Time { return f.now }

	orderRepo := repository.NewOrderRepo(db)
	f.catalog = NewCatalogService(repository.NewProductRepo(db), hub, logger)
	f.stock = NewStockService(repository.NewStockRepo(db), hub, logger, 0)
	f.users = NewUserService(repository.NewUserRepo(db))
	f.cash = NewCashService(
		repository.NewCashSessionRepo(db),
		repository.NewCashMovementRepo(db),
		orderRepo,
		f.users,
		hub,
		logger,
		clock,
	)
	f.orders = NewOrderService(orderRepo, f.cash, logger, clock)
	f.reports = NewReportService(orderRepo)
	return f
}

const (
	cpfAna   = "529.982.247-25"
	cpfBruno = "111.444.777-35"
)

func (f *fixture) registerOperator(t *testing.T, name, rawCPF string) *model.User {
	t.Helper()
	user, err := f.users.Register(f.ctx, &CreateUserRequest{Name: name, CPF: rawCPF, Secret: "1234"}, "test")
	require.NoError(t, err)
	return user
}

func (f *fixture) openSession(t *testing.T, operator *model.User, amount string) *model.CashSession {
	t.Helper()
	session, err := f.cash.Open(f.ctx, operator.ID, decimal.RequireFromString(amount), "")
	require.NoError(t, err)
	return session
}

func (f *fixture) placeOrder(t *testing.T, session *model.CashSession, method model.PaymentMethod, unitPrice string, qty int) *model.Order {
	t.Helper()
	order, err := f.orders.Create(f.ctx, &CreateOrderRequest{
		OperatorID:    session.Operator.ID,
		SessionID:     session.ID,
		PaymentMethod: method,
		Items: []OrderLine{
			{Name: "X-Burguer", Quantity: qty, UnitPrice: decimal.RequireFromString(unitPrice)},
		},
	}, "test")
	require.NoError(t, err)
	return order
}
