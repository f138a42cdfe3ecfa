// Package app builds the process-wide object graph once and tears it down on exit.
package app

import (
	"context"
	"log/slog"
	"time"

	"foodstack-pos/internal/config"
	"foodstack-pos/internal/handler"
	"foodstack-pos/internal/middleware"
	"foodstack-pos/internal/model"
	"foodstack-pos/internal/repository"
	"foodstack-pos/internal/service"
	"foodstack-pos/internal/ws"
	"foodstack-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// App holds every component. Handlers receive what they need from it explicitly.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Hub    *ws.Hub
	Log    *slog.Logger
	Tokens *jwt.Manager

	Catalog service.CatalogService
	Stock   service.StockService
	Users   service.UserService
	Cash    service.CashService
	Orders  service.OrderService
	Reports service.ReportService
	Auth    service.AuthService

	Fiber *fiber.App

	loginLimiter *middleware.IPRateLimiter
}

// New wires repositories, services and routes over an open, migrated database.
func New(cfg *config.Config, db *gorm.DB, log *slog.Logger) *App {
	loc := cfg.App.Location()
	clock := func() time.Time { return time.Now().In(loc) }

	a := &App{
		Config: cfg,
		DB:     db,
		Hub:    ws.NewHub(log),
		Log:    log,
		Tokens: jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer),
	}

	// 1. Repositories
	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	userRepo := repository.NewUserRepo(db)
	sessionRepo := repository.NewCashSessionRepo(db)
	movementRepo := repository.NewCashMovementRepo(db)
	orderRepo := repository.NewOrderRepo(db)

	// 2. Services
	a.Catalog = service.NewCatalogService(productRepo, a.Hub, log)
	a.Stock = service.NewStockService(stockRepo, a.Hub, log, cfg.Stock.LowThreshold)
	a.Users = service.NewUserService(userRepo)
	a.Cash = service.NewCashService(sessionRepo, movementRepo, orderRepo, a.Users, a.Hub, log, clock)
	a.Orders = service.NewOrderService(orderRepo, a.Cash, log, clock)
	a.Reports = service.NewReportService(orderRepo)
	a.Auth = service.NewAuthService(a.Tokens, service.AdminCredential{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	})

	// 3. HTTP
	a.loginLimiter = middleware.NewIPRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst, 5*time.Minute)
	a.Fiber = fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	a.Fiber.Use(logger.New())  // Logging request
	a.Fiber.Use(recover.New()) // Panic recovery
	a.Fiber.Use(cors.New())    // CORS
	a.routes()

	return a
}

func (a *App) routes() {
	catalog := handler.NewCatalogHandler(a.Catalog)
	stock := handler.NewStockHandler(a.Stock)
	users := handler.NewUserHandler(a.Users)
	cash := handler.NewCashHandler(a.Cash, a.Orders)
	orders := handler.NewOrderHandler(a.Orders)
	reports := handler.NewReportHandler(a.Reports)
	auth := handler.NewAuthHandler(a.Auth)
	roles := handler.NewRoleHandler()

	a.Fiber.Get("/health", a.health)

	api := a.Fiber.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	authGroup := api.Group("/auth")
	authGroup.Post("/anonymous", auth.Anonymous)
	authGroup.Post("/admin/login", a.loginLimiter.Handler(), auth.AdminLogin)
	authGroup.Post("/validate-token", auth.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(a.Tokens))
	require := middleware.RequirePrivilege

	protected.Get("/roles", roles.GetRoles)
	protected.Get("/privileges", roles.GetPrivileges)

	// Catalog
	protected.Get("/products", require(model.PrivProductView), catalog.GetProducts)
	protected.Get("/products/categories", require(model.PrivProductView), catalog.GetCategories)
	protected.Get("/products/:id", require(model.PrivProductView), catalog.GetProduct)
	protected.Post("/products", require(model.PrivProductCreate), catalog.CreateProduct)
	protected.Put("/products/:id/price", require(model.PrivProductUpdate), catalog.UpdatePrice)
	protected.Delete("/products/:id", require(model.PrivProductDelete), catalog.DeleteProduct)

	// Stock
	protected.Get("/stock", require(model.PrivStockView), stock.GetStock)
	protected.Get("/stock/low", require(model.PrivStockView), stock.GetLowStock)
	protected.Get("/stock/:id", require(model.PrivStockView), stock.GetStockItem)
	protected.Post("/stock", require(model.PrivStockCreate), stock.CreateStockItem)
	protected.Put("/stock/:id", require(model.PrivStockUpdate), stock.UpdateStockItem)
	protected.Post("/stock/:id/increase", require(model.PrivStockAdjust), stock.Increase)
	protected.Post("/stock/:id/decrease", require(model.PrivStockAdjust), stock.Decrease)
	protected.Delete("/stock/:id", require(model.PrivStockDelete), stock.DeleteStockItem)

	// Staff
	protected.Get("/users", require(model.PrivUserView), users.GetUsers)
	protected.Get("/users/cpf/:cpf", middleware.RequireAnyPrivilege(model.PrivUserView, model.PrivCashOpen), users.GetUserByCPF)
	protected.Get("/users/:id", require(model.PrivUserView), users.GetUser)
	protected.Post("/users", require(model.PrivUserCreate), users.CreateUser)
	protected.Put("/users/:id", require(model.PrivUserUpdate), users.UpdateUser)
	protected.Delete("/users/:id", require(model.PrivUserDelete), users.DeleteUser)

	// Till
	protected.Get("/cash-sessions", require(model.PrivCashView), cash.GetSessions)
	protected.Get("/cash-sessions/current", require(model.PrivCashView), cash.GetCurrentSession)
	protected.Get("/cash-sessions/:id", require(model.PrivCashView), cash.GetSession)
	protected.Get("/cash-sessions/:id/reconciliation", require(model.PrivCashView), cash.GetReconciliation)
	protected.Get("/cash-sessions/:id/movements", require(model.PrivCashView), cash.GetMovements)
	protected.Get("/cash-sessions/:id/orders", require(model.PrivOrderView), cash.GetSessionOrders)
	protected.Post("/cash-sessions", require(model.PrivCashOpen), cash.OpenSession)
	protected.Post("/cash-sessions/:id/close", require(model.PrivCashClose), cash.CloseSession)
	protected.Post("/cash-sessions/:id/movements", require(model.PrivCashMovement), cash.CreateMovement)

	// Orders
	protected.Get("/orders", require(model.PrivOrderView), orders.GetOrders)
	protected.Get("/orders/:id", require(model.PrivOrderView), orders.GetOrder)
	protected.Post("/orders", require(model.PrivOrderCreate), orders.CreateOrder)

	// Reports
	protected.Get("/reports/summary", require(model.PrivReportView), reports.GetSummary)

	// WebSocket Route
	a.Fiber.Use("/ws", ws.UpgradeRequired)
	a.Fiber.Get("/ws", middleware.RequireSocketAuth(a.Tokens), topicPrivilege, ws.Handler(a.Hub, a.feeds()))
}

// topicPrivileges lists the feeds a client may subscribe to and what each one requires.
var topicPrivileges = map[string]string{
	ws.TopicProducts:      model.PrivProductView,
	ws.TopicStock:         model.PrivStockView,
	ws.TopicCashMovements: model.PrivCashView,
}

func topicPrivilege(c *fiber.Ctx) error {
	privilege, ok := topicPrivileges[c.Query("topic", ws.TopicStock)]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown topic"})
	}
	return middleware.RequirePrivilege(privilege)(c)
}

// feeds hands each websocket client the current snapshot of its topic before live updates.
func (a *App) feeds() map[string]ws.Feed {
	return map[string]ws.Feed{
		ws.TopicProducts: func(ctx context.Context, fn func(ws.Message)) (*ws.Subscription, error) {
			return a.Catalog.Subscribe(ctx, func(products []model.Product) {
				fn(ws.Message{Topic: ws.TopicProducts, Data: products})
			})
		},
		ws.TopicStock: func(ctx context.Context, fn func(ws.Message)) (*ws.Subscription, error) {
			return a.Stock.Subscribe(ctx, func(items []model.StockItem) {
				fn(ws.Message{Topic: ws.TopicStock, Data: items})
			})
		},
		ws.TopicCashMovements: func(ctx context.Context, fn func(ws.Message)) (*ws.Subscription, error) {
			return a.Cash.SubscribeMovements(ctx, func(snapshot service.MovementSnapshot) {
				fn(ws.Message{Topic: ws.TopicCashMovements, Data: snapshot})
			})
		},
	}
}

func (a *App) health(c *fiber.Ctx) error {
	sqlDB, err := a.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Close stops the HTTP server and background work and closes the database.
func (a *App) Close() error {
	a.loginLimiter.Stop()
	if err := a.Fiber.Shutdown(); err != nil {
		a.Log.Error("server shutdown", "error", err)
	}

	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
