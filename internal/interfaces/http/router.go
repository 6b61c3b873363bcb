package http

import (
	"net/http"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemRegistry *inventory.ItemRegistry
	Ledger       *inventory.Ledger
	Approval     *inventory.Approval
	Query        *inventory.TransactionQuery
	UserUC       *usecase.UserUseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string

	ServiceName string
	Health      HealthChecker
	Metrics     http.Handler    // nil = sin /metrics
	Logger      *zerolog.Logger // nil = sin log de peticiones
	SwaggerFile string          // vacío o inexistente = sin /docs

	// Rate limiting por IP: ThrottleLimit peticiones cada ThrottleTTL. 0 lo desactiva.
	ThrottleLimit int
	ThrottleTTL   time.Duration
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(requestid.New())
	if deps.Logger != nil {
		app.Use(RequestLogger(*deps.Logger))
	}
	app.Use(recover.New())

	if deps.SwaggerFile != "" {
		if _, err := os.Stat(deps.SwaggerFile); err == nil {
			// Swagger UI: http://localhost:<port>/docs
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: deps.SwaggerFile,
				Path:     "docs",
				Title:    deps.ServiceName,
			}))
		}
	}

	if deps.Health != nil {
		app.Get("/health", Health(deps.Health, deps.ServiceName))
	}
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")
	if deps.ThrottleLimit > 0 && deps.ThrottleTTL > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        deps.ThrottleLimit,
			Expiration: deps.ThrottleTTL,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "TOO_MANY_REQUESTS", Message: "demasiadas peticiones, intente más tarde"})
			},
		}))
	}

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleUser)

	// Users (solo ADMIN)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Items
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemRegistry)
	items.Post("/", adminOnly, itemHandler.Create)
	items.Get("/", anyRole, itemHandler.List)
	items.Get("/:id", anyRole, itemHandler.GetByID)
	items.Patch("/:id", adminOnly, itemHandler.Update)
	items.Delete("/:id", adminOnly, itemHandler.Delete)

	// Transactions (IN se restringe a ADMIN dentro del handler y del núcleo)
	txs := protected.Group("/transactions")
	txHandler := NewTransactionHandler(deps.Ledger, deps.Approval, deps.Query)
	txs.Post("/", anyRole, txHandler.Create)
	txs.Get("/", anyRole, txHandler.List)
	txs.Get("/:id", anyRole, txHandler.GetByID)
	txs.Patch("/:id/status", adminOnly, txHandler.UpdateStatus)
}
