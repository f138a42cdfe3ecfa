package app

import (
	"bytes"
	"encoding/json"
	"io"
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodstack-pos/internal/config"
	"foodstack-pos/internal/testutil"

	fastws "github.com/fasthttp/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Name: "foodstack-test", Timezone: "America/Sao_Paulo"},
		JWT:       config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "test"},
		Admin:     config.AdminConfig{Username: "admin", Password: "s3cret"},
		RateLimit: config.RateLimitConfig{LoginPerMinute: 60, LoginBurst: 3},
		Stock:     config.StockConfig{LowThreshold: 5},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a := New(testConfig(), testutil.NewDB(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = a.Close() })
	return a
}

type envelope struct {
	Error string          `json:"error"`
	Token string          `json:"token"`
	Data  json.RawMessage `json:"data"`
}

func call(t *testing.T, a *App, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.Fiber.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func idOf(t *testing.T, data json.RawMessage) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}

func staffToken(t *testing.T, a *App) string {
	t.Helper()
	status, body := call(t, a, http.MethodPost, "/api/v1/auth/anonymous", "", nil)
	require.Equal(t, http.StatusOK, status)
	return body.Token
}

func adminToken(t *testing.T, a *App) string {
	t.Helper()
	status, body := call(t, a, http.MethodPost, "/api/v1/auth/admin/login", "", map[string]string{
		"username": "admin", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, status)
	return body.Token
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	status, _ := call(t, a, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAuthGate(t *testing.T) {
	a := newTestApp(t)
	staff := staffToken(t, a)

	status, _ := call(t, a, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, a, http.MethodGet, "/api/v1/products", staff, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, a, http.MethodPost, "/api/v1/products", staff, map[string]any{"name": "X-Burger", "category": "Lanches", "price": 18.5})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := call(t, a, http.MethodPost, "/api/v1/auth/admin/login", "", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body.Error)

	admin := adminToken(t, a)
	status, body = call(t, a, http.MethodPost, "/api/v1/products", admin, map[string]any{"name": "X-Burger", "category": "Lanches", "price": 18.5})
	assert.Equal(t, http.StatusCreated, status)
	productID := idOf(t, body.Data)

	status, _ = call(t, a, http.MethodGet, "/api/v1/products/categories", staff, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, a, http.MethodPut, "/api/v1/products/"+productID+"/price", admin, map[string]any{"price": "-1"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdminLoginIsRateLimited(t *testing.T) {
	a := newTestApp(t)

	last := 0
	for i := 0; i < 4; i++ {
		last, _ = call(t, a, http.MethodPost, "/api/v1/auth/admin/login", "", map[string]string{"username": "admin", "password": "wrong"})
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestCashSessionLifecycle(t *testing.T) {
	a := newTestApp(t)
	admin := adminToken(t, a)
	staff := staffToken(t, a)

	// 1. Admin registers the operator
	status, body := call(t, a, http.MethodPost, "/api/v1/users", admin, map[string]string{
		"name": "Ana Souza", "cpf": "529.982.247-25", "secret": "1234",
	})
	require.Equal(t, http.StatusCreated, status, body.Error)
	operatorID := idOf(t, body.Data)

	// 2. Operator opens the till with CPF and secret
	status, body = call(t, a, http.MethodPost, "/api/v1/cash-sessions", staff, map[string]any{
		"cpf": "52998224725", "secret": "nope", "opening_amount": 100,
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = call(t, a, http.MethodPost, "/api/v1/cash-sessions", staff, map[string]any{
		"cpf": "52998224725", "secret": "1234", "opening_amount": 100,
	})
	require.Equal(t, http.StatusCreated, status, body.Error)
	sessionID := idOf(t, body.Data)

	status, _ = call(t, a, http.MethodPost, "/api/v1/cash-sessions", staff, map[string]any{
		"operator_id": operatorID, "opening_amount": 50,
	})
	assert.Equal(t, http.StatusConflict, status)

	// 3. Sale and cash movement
	order := map[string]any{
		"operator_id":    operatorID,
		"session_id":     sessionID,
		"payment_method": "cash",
		"items": []map[string]any{
			{"name": "X-Burger", "quantity": 2, "unit_price": "18.50"},
		},
	}
	status, body = call(t, a, http.MethodPost, "/api/v1/orders", staff, order)
	require.Equal(t, http.StatusCreated, status, body.Error)

	status, _ = call(t, a, http.MethodPost, "/api/v1/orders", staff, map[string]any{
		"operator_id": operatorID, "session_id": sessionID, "payment_method": "CASH", "items": []any{},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, a, http.MethodPost, "/api/v1/cash-sessions/"+sessionID+"/movements", staff, map[string]any{
		"kind": "OUT", "amount": "10", "note": "troco",
	})
	require.Equal(t, http.StatusCreated, status, body.Error)

	// 4. Close and verify the till refuses further sales
	status, body = call(t, a, http.MethodPost, "/api/v1/cash-sessions/"+sessionID+"/close", staff, map[string]any{
		"closing_amount": "127",
	})
	require.Equal(t, http.StatusOK, status, body.Error)

	var closed struct {
		Status     string `json:"status"`
		Difference string `json:"difference"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &closed))
	assert.Equal(t, "CLOSED", closed.Status)
	assert.Equal(t, "0", closed.Difference)

	status, _ = call(t, a, http.MethodPost, "/api/v1/orders", staff, order)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = call(t, a, http.MethodPost, "/api/v1/cash-sessions/"+sessionID+"/close", staff, map[string]any{"closing_amount": "127"})
	assert.Equal(t, http.StatusNotFound, status)

	// 5. Reports are admin only
	status, _ = call(t, a, http.MethodGet, "/api/v1/reports/summary?start=01/01/2000&end=31/12/2100", staff, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, a, http.MethodGet, "/api/v1/reports/summary?start=01/01/2000&end=31/12/2100", admin, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestNotFoundAndBadIDs(t *testing.T) {
	a := newTestApp(t)
	staff := staffToken(t, a)

	status, _ := call(t, a, http.MethodGet, "/api/v1/cash-sessions/not-a-uuid", staff, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, a, http.MethodGet, "/api/v1/cash-sessions/7b0c2a36-3f9e-4d0e-9a53-2f1cf1a0b001", staff, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, a, http.MethodGet, "/ws", "", nil)
	assert.Equal(t, http.StatusUpgradeRequired, status)
}

func serve(t *testing.T, a *App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = a.Fiber.Listener(ln) }()
	return "ws://" + ln.Addr().String() + "/ws"
}

type stockFrame struct {
	Topic string `json:"topic"`
	Data  []struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	} `json:"data"`
}

func readStockFrame(t *testing.T, conn *fastws.Conn) stockFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame stockFrame
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func TestWebSocket_StockFeedStartsWithCurrentSnapshot(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	url := serve(t, a)
	staff := staffToken(t, a)

	item, err := a.Stock.Create(ctx, "Pão", "brioche", 12, "test")
	require.NoError(t, err)

	_, resp, err := fastws.DefaultDialer.Dial(url+"?topic=stock", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := fastws.DefaultDialer.Dial(url+"?topic=stock&token="+staff, nil)
	require.NoError(t, err)
	defer conn.Close()

	frame := readStockFrame(t, conn)
	assert.Equal(t, "stock", frame.Topic)
	require.Len(t, frame.Data, 1)
	assert.Equal(t, "Pão", frame.Data[0].Name)
	assert.Equal(t, 12, frame.Data[0].Quantity)

	_, err = a.Stock.Increase(ctx, item.ID, 5, "test")
	require.NoError(t, err)

	frame = readStockFrame(t, conn)
	require.Len(t, frame.Data, 1)
	assert.Equal(t, 17, frame.Data[0].Quantity)
}
