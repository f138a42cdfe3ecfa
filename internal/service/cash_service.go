package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"foodstack-pos/internal/apperr"
	"foodstack-pos/internal/model"
	"foodstack-pos/internal/repository"
	"foodstack-pos/internal/ws"
	"foodstack-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrSessionClosed = &apperr.Error{Kind: apperr.KindNotFound, Message: "cash session already closed"}

type CashService interface {
	// Open starts a session for operatorID. An empty credential skips the secret check.
	Open(ctx context.Context, operatorID uuid.UUID, openingAmount decimal.Decimal, credential string) (*model.CashSession, error)
	OpenByCPF(ctx context.Context, rawCPF, secret string, openingAmount decimal.Decimal) (*model.CashSession, error)
	Close(ctx context.Context, sessionID uuid.UUID, closingAmount decimal.Decimal, actor string) (*model.CashSession, error)
	// Current returns the open session, or (nil, nil) when the till is closed.
	Current(ctx context.Context) (*model.CashSession, error)
	Get(ctx context.Context, sessionID uuid.UUID) (*model.CashSession, error)
	List(ctx context.Context) ([]model.CashSession, error)
	// RequireOpen returns the session only if it exists and is the open one.
	RequireOpen(ctx context.Context, sessionID uuid.UUID) (*model.CashSession, error)

	RecordMovement(ctx context.Context, sessionID uuid.UUID, kind model.MovementKind, amount decimal.Decimal, note, actor string) (*model.CashMovement, error)
	Movements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error)
	SubscribeMovements(ctx context.Context, fn func(MovementSnapshot)) (*ws.Subscription, error)

	Reconcile(ctx context.Context, sessionID uuid.UUID) (*Reconciliation, error)
}

// MovementSnapshot is what movement subscribers receive: every movement of one session.
type MovementSnapshot struct {
	SessionID uuid.UUID            `json:"session_id"`
	Movements []model.CashMovement `json:"movements"`
}

// Reconciliation is the drawer count expected for a session, computed from its orders
// and movements.
type Reconciliation struct {
	SessionID     uuid.UUID       `json:"session_id"`
	Status        string          `json:"status"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	Sales         Summary         `json:"sales"`
	MovementsIn   decimal.Decimal `json:"movements_in"`
	MovementsOut  decimal.Decimal `json:"movements_out"`
	// ExpectedCash = opening + cash sales + IN - OUT
	ExpectedCash decimal.Decimal  `json:"expected_cash"`
	Declared     *decimal.Decimal `json:"declared,omitempty"`
	Difference   *decimal.Decimal `json:"difference,omitempty"`
}

type cashService struct {
	sessionRepo  repository.CashSessionRepository
	movementRepo repository.CashMovementRepository
	orderRepo    repository.OrderRepository
	users        UserService
	hub          *ws.Hub
	log          *slog.Logger
	now          func() time.Time
}

func NewCashService(
	sessionRepo repository.CashSessionRepository,
	movementRepo repository.CashMovementRepository,
	orderRepo repository.OrderRepository,
	users UserService,
	hub *ws.Hub,
	logger *slog.Logger,
	now func() time.Time,
) CashService {
	if now == nil {
		now = time.Now
	}
	return &cashService{
		sessionRepo:  sessionRepo,
		movementRepo: movementRepo,
		orderRepo:    orderRepo,
		users:        users,
		hub:          hub,
		log:          logger,
		now:          now,
	}
}

func (s *cashService) Open(ctx context.Context, operatorID uuid.UUID, openingAmount decimal.Decimal, credential string) (*model.CashSession, error) {
	// 1. Validate amount
	if openingAmount.IsNegative() {
		return nil, apperr.Validation("opening amount must not be negative")
	}

	// 2. Resolve operator
	operator, err := s.users.GetByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, ErrOperatorNotFound
	}
	if credential != "" && !operator.CheckSecret(credential) {
		return nil, ErrInvalidCredentials
	}

	// 3. Refuse a second open session
	open, err := s.sessionRepo.FindOpen(ctx)
	if err != nil {
		return nil, apperr.Unavailable("check open session", err)
	}
	if len(open) > 0 {
		return nil, ErrSessionAlreadyOpen
	}

	// 4. Create snapshot; the open slot index catches a concurrent open
	session := model.NewCashSession(operator.Snapshot(), openingAmount, s.now())
	session.CreatedBy = operator.ID.String()
	session.UpdatedBy = operator.ID.String()
	if errs := validator.ValidateStruct(session); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.Message(errs))
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrSessionAlreadyOpen
		}
		return nil, apperr.Unavailable("open cash session", err)
	}

	s.log.Info("cash session opened", "session_id", session.ID, "operator", operator.Name, "opening_amount", openingAmount.StringFixed(2))
	s.publishMovements(ctx, session.ID)
	return session, nil
}

// OpenByCPF identifies the operator by CPF and secret, as the till screen does.
func (s *cashService) OpenByCPF(ctx context.Context, rawCPF, secret string, openingAmount decimal.Decimal) (*model.CashSession, error) {
	if strings.TrimSpace(rawCPF) == "" || secret == "" {
		return nil, apperr.Validation("cpf and secret are required")
	}

	operator, err := s.users.FindByCPF(ctx, rawCPF)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, ErrOperatorNotFound
	}
	return s.Open(ctx, operator.ID, openingAmount, secret)
}

func (s *cashService) Close(ctx context.Context, sessionID uuid.UUID, closingAmount decimal.Decimal, actor string) (*model.CashSession, error) {
	// 1. Validate amount
	if closingAmount.IsNegative() {
		return nil, apperr.Validation("closing amount must not be negative")
	}
	if !validator.FitsMoney(closingAmount) {
		return nil, errMoneyRange("closing amount")
	}

	// 2. Session must exist and be open
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, apperr.Unavailable("get cash session", err)
	}
	if !session.IsOpen() {
		return nil, ErrSessionClosed
	}

	// 3. Reconcile against the declared count
	rec, err := s.reconcile(ctx, session)
	if err != nil {
		return nil, err
	}
	closing := repository.CloseValues{
		ClosedAt:       s.now(),
		Declared:       closingAmount,
		ExpectedAmount: rec.ExpectedCash,
		Difference:     closingAmount.Sub(rec.ExpectedCash),
	}

	// 4. Close only if nobody closed it first
	rows, err := s.sessionRepo.Close(ctx, sessionID, closing, actor)
	if err != nil {
		return nil, apperr.Unavailable("close cash session", err)
	}
	if rows == 0 {
		return nil, ErrSessionClosed
	}

	closed, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, storeErr("cash session", "get cash session", err)
	}

	s.log.Info("cash session closed",
		"session_id", sessionID,
		"declared", closingAmount.StringFixed(2),
		"expected", rec.ExpectedCash.StringFixed(2),
		"difference", closing.Difference.StringFixed(2))
	return closed, nil
}

func (s *cashService) Current(ctx context.Context) (*model.CashSession, error) {
	open, err := s.sessionRepo.FindOpen(ctx)
	if err != nil {
		return nil, apperr.Unavailable("get current session", err)
	}
	if len(open) == 0 {
		return nil, nil
	}
	if len(open) > 1 {
		s.log.Warn("more than one open cash session, using the most recent",
			"count", len(open), "session_id", open[0].ID)
	}
	return &open[0], nil
}

func (s *cashService) Get(ctx context.Context, sessionID uuid.UUID) (*model.CashSession, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, apperr.Unavailable("get cash session", err)
	}
	return session, nil
}

func (s *cashService) List(ctx context.Context) ([]model.CashSession, error) {
	sessions, err := s.sessionRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Unavailable("list cash sessions", err)
	}
	return sessions, nil
}

func (s *cashService) RequireOpen(ctx context.Context, sessionID uuid.UUID) (*model.CashSession, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, ErrSessionNotOpen
	}
	return session, nil
}

func (s *cashService) RecordMovement(ctx context.Context, sessionID uuid.UUID, kind model.MovementKind, amount decimal.Decimal, note, actor string) (*model.CashMovement, error) {
	// 1. Validate movement
	movement := &model.CashMovement{
		SessionID: sessionID,
		Kind:      model.MovementKind(strings.ToUpper(string(kind))),
		Amount:    amount,
		Note:      strings.TrimSpace(note),
	}
	movement.CreatedBy = actor
	movement.UpdatedBy = actor
	if errs := validator.ValidateStruct(movement); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.Message(errs))
	}

	// 2. Only the open session takes movements
	if _, err := s.RequireOpen(ctx, sessionID); err != nil {
		return nil, err
	}

	// 3. Save
	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, apperr.Unavailable("record cash movement", err)
	}

	s.publishMovements(ctx, sessionID)
	return movement, nil
}

func (s *cashService) Movements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	movements, err := s.movementRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, apperr.Unavailable("list cash movements", err)
	}
	return movements, nil
}

// SubscribeMovements delivers the open session's movements now (if a session is open) and
// again whenever a movement is recorded or a session is opened.
func (s *cashService) SubscribeMovements(ctx context.Context, fn func(MovementSnapshot)) (*ws.Subscription, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	var initial *MovementSnapshot
	if current != nil {
		movements, err := s.Movements(ctx, current.ID)
		if err != nil {
			return nil, err
		}
		initial = &MovementSnapshot{SessionID: current.ID, Movements: movements}
	}

	sub := s.hub.Subscribe(ws.TopicCashMovements, func(msg ws.Message) {
		if snapshot, ok := msg.Data.(MovementSnapshot); ok {
			fn(snapshot)
		}
	})
	if initial != nil {
		fn(*initial)
	}
	return sub, nil
}

func (s *cashService) Reconcile(ctx context.Context, sessionID uuid.UUID) (*Reconciliation, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, session)
}

func (s *cashService) reconcile(ctx context.Context, session *model.CashSession) (*Reconciliation, error) {
	orders, err := s.orderRepo.FindBySession(ctx, session.ID)
	if err != nil {
		return nil, apperr.Unavailable("load session orders", err)
	}
	movements, err := s.movementRepo.FindBySession(ctx, session.ID)
	if err != nil {
		return nil, apperr.Unavailable("load session movements", err)
	}

	rec := &Reconciliation{
		SessionID:     session.ID,
		Status:        string(session.Status),
		OpeningAmount: session.OpeningAmount,
		Sales:         Tally(orders),
		MovementsIn:   decimal.Zero,
		MovementsOut:  decimal.Zero,
	}
	for _, m := range movements {
		switch m.Kind {
		case model.MovementIn:
			rec.MovementsIn = rec.MovementsIn.Add(m.Amount)
		case model.MovementOut:
			rec.MovementsOut = rec.MovementsOut.Add(m.Amount)
		}
	}
	rec.ExpectedCash = rec.OpeningAmount.
		Add(rec.Sales.CashTotal).
		Add(rec.MovementsIn).
		Sub(rec.MovementsOut)

	if !session.IsOpen() {
		declared := session.Total
		diff := declared.Sub(rec.ExpectedCash)
		rec.Declared = &declared
		rec.Difference = &diff
	}
	return rec, nil
}

func (s *cashService) publishMovements(ctx context.Context, sessionID uuid.UUID) {
	movements, err := s.movementRepo.FindBySession(ctx, sessionID)
	if err != nil {
		s.log.Warn("movement snapshot not published", "session_id", sessionID, "error", err)
		return
	}
	s.hub.Publish(ws.TopicCashMovements, MovementSnapshot{SessionID: sessionID, Movements: movements})
}
