package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"foodstack-pos/internal/apperr"
	"foodstack-pos/internal/model"
	"foodstack-pos/internal/repository"
	"foodstack-pos/internal/testutil"
	"foodstack-pos/internal/ws"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type cashSessionTestContext struct {
	t        *testing.T
	ctx      context.Context
	users    UserService
	cash     CashService
	orders   OrderService
	operator *model.User
	session  *model.CashSession
	err      error
}

func (c *cashSessionTestContext) reset() {
	db := testutil.NewDB(c.t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := ws.NewHub(logger)
	clock := func() time.Time { return time.Date(2024, 1, 15, 12, 30, 0, 0, brt) }

	orderRepo := repository.NewOrderRepo(db)
	c.ctx = context.Background()
	c.users = NewUserService(repository.NewUserRepo(db))
	c.cash = NewCashService(
		repository.NewCashSessionRepo(db),
		repository.NewCashMovementRepo(db),
		orderRepo,
		c.users,
		hub,
		logger,
		clock,
	)
	c.orders = NewOrderService(orderRepo, c.cash, logger, clock)
	c.operator = nil
	c.session = nil
	c.err = nil
}

func (c *cashSessionTestContext) anOperatorWithCPFAndSecret(name, cpf, secret string) error {
	user, err := c.users.Register(c.ctx, &CreateUserRequest{Name: name, CPF: cpf, Secret: secret}, "test")
	if err != nil {
		return err
	}
	c.operator = user
	return nil
}

func (c *cashSessionTestContext) theTillIsOpenedByCPF(cpf, secret, amount string) error {
	session, err := c.cash.OpenByCPF(c.ctx, cpf, secret, decimal.RequireFromString(amount))
	c.err = err
	if err == nil {
		c.session = session
	}
	return nil
}

func (c *cashSessionTestContext) anOrderIsRecorded(method string, qty int, name, price string) error {
	if c.session == nil {
		return errors.New("no session opened")
	}
	_, c.err = c.orders.Create(c.ctx, &CreateOrderRequest{
		OperatorID:    c.operator.ID,
		SessionID:     c.session.ID,
		PaymentMethod: model.PaymentMethod(method),
		Items: []OrderLine{
			{Name: name, Quantity: qty, UnitPrice: decimal.RequireFromString(price)},
		},
	}, "test")
	return nil
}

func (c *cashSessionTestContext) isTakenOutOfTheDrawer(amount string) error {
	_, err := c.cash.RecordMovement(c.ctx, c.session.ID, model.MovementOut, decimal.RequireFromString(amount), "sangria", "test")
	return err
}

func (c *cashSessionTestContext) theExpectedCashIs(amount string) error {
	if c.err != nil {
		return c.err
	}
	rec, err := c.cash.Reconcile(c.ctx, c.session.ID)
	if err != nil {
		return err
	}
	if !rec.ExpectedCash.Equal(decimal.RequireFromString(amount)) {
		return fmt.Errorf("expected cash %s, got %s", amount, rec.ExpectedCash.StringFixed(2))
	}
	return nil
}

func (c *cashSessionTestContext) theTillIsClosedWithCounted(amount string) error {
	if c.err != nil {
		return c.err
	}
	session, err := c.cash.Close(c.ctx, c.session.ID, decimal.RequireFromString(amount), "test")
	if err != nil {
		return err
	}
	c.session = session
	return nil
}

func (c *cashSessionTestContext) theSessionIsWithADifferenceOf(status, difference string) error {
	if string(c.session.Status) != status {
		return fmt.Errorf("expected status %s, got %s", status, c.session.Status)
	}
	if c.session.Difference == nil || !c.session.Difference.Equal(decimal.RequireFromString(difference)) {
		return fmt.Errorf("expected difference %s, got %v", difference, c.session.Difference)
	}
	return nil
}

func (c *cashSessionTestContext) theRequestIsRefusedAs(kind string) error {
	want := map[string]error{
		"a conflict":      apperr.ErrConflict,
		"unauthenticated": apperr.ErrAuth,
		"invalid":         apperr.ErrValidation,
	}[kind]
	if want == nil {
		return godog.ErrPending
	}
	if !errors.Is(c.err, want) {
		return fmt.Errorf("expected %s error, got %v", kind, c.err)
	}
	return nil
}

func initializeCashSessionScenario(t *testing.T) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		tc := &cashSessionTestContext{t: t}

		ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
			tc.reset()
			return ctx, nil
		})

		// Given steps
		ctx.Step(`^an operator "([^"]*)" with CPF "([^"]*)" and secret "([^"]*)"$`, tc.anOperatorWithCPFAndSecret)
		ctx.Step(`^the till is opened by CPF "([^"]*)" with secret "([^"]*)" and (\d+\.\d{2}) in the drawer$`, tc.theTillIsOpenedByCPF)

		// When steps
		ctx.Step(`^a ([A-Z_]+) order of (\d+) "([^"]*)" at (\d+\.\d{2}) is recorded$`, tc.anOrderIsRecorded)
		ctx.Step(`^(\d+\.\d{2}) is taken out of the drawer$`, tc.isTakenOutOfTheDrawer)
		ctx.Step(`^the till is closed with (\d+\.\d{2}) counted$`, tc.theTillIsClosedWithCounted)

		// Then steps
		ctx.Step(`^the expected cash is (\d+\.\d{2})$`, tc.theExpectedCashIs)
		ctx.Step(`^the session is ([A-Z]+) with a difference of (-?\d+\.\d{2})$`, tc.theSessionIsWithADifferenceOf)
		ctx.Step(`^the request is refused as (a conflict|unauthenticated|invalid)$`, tc.theRequestIsRefusedAs)
	}
}

func TestCashSessionFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeCashSessionScenario(t),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/cash_session.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
