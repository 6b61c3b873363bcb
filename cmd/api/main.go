package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// stores agrupa los puertos de persistencia según el driver elegido.
type stores struct {
	txRunner inventory.TxRunner
	items    repository.ItemRepository
	txs      repository.TransactionRepository
	users    repository.UserRepository
	health   httpRouter.HealthChecker
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.New(logger.Config{}).Fatal().Err(err).Msg("configuración inválida")
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}
	clock := func() time.Time { return time.Now().In(loc) }

	ctx := context.Background()
	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer st.close()

	ledgerMetrics := metrics.NewLedgerMetrics("inventario_ledger")

	itemRegistry := inventory.NewItemRegistry(st.txRunner, st.items, clock)
	ledger := inventory.NewLedger(st.txRunner, clock, ledgerMetrics)
	approval := inventory.NewApproval(st.txRunner, clock, ledgerMetrics)
	query := inventory.NewTransactionQuery(st.txs, loc)
	userUC := usecase.NewUserUseCase(st.users)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if cfg.Bootstrap.Username != "" {
		created, err := userUC.EnsureAdmin(ctx, cfg.Bootstrap.Username, cfg.Bootstrap.Password, cfg.Bootstrap.Name)
		if err != nil {
			st.close()
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("username", cfg.Bootstrap.Username).Msg("administrador inicial creado")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})

	zl := log.Zerolog()
	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemRegistry:  itemRegistry,
		Ledger:        ledger,
		Approval:      approval,
		Query:         query,
		UserUC:        userUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
		ServiceName:   cfg.App.Name,
		Health:        st.health,
		Metrics:       ledgerMetrics.Handler(),
		Logger:        &zl,
		SwaggerFile:   "./docs/swagger.json",
		ThrottleLimit: cfg.Throttle.Limit,
		ThrottleTTL:   time.Duration(cfg.Throttle.TTL) * time.Second,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store.Driver == config.StoreMemory {
		store := memory.NewStore()
		return &stores{
			txRunner: store,
			items:    store.Items(),
			txs:      store.Transactions(),
			users:    store.Users(),
			health:   store,
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &stores{
		txRunner: postgres.NewTxRunner(pool, cfg.DB.Isolation, cfg.DB.TxRetries),
		items:    postgres.NewItemRepository(pool),
		txs:      postgres.NewTransactionRepository(pool),
		users:    postgres.NewUserRepository(pool),
		health:   pool,
		close:    pool.Close,
	}, nil
}
