package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/caixa-pdv/internal/application/cash"
	"github.com/jhoicas/caixa-pdv/internal/application/catalog"
	"github.com/jhoicas/caixa-pdv/internal/application/inventory"
	"github.com/jhoicas/caixa-pdv/internal/application/reports"
	"github.com/jhoicas/caixa-pdv/internal/application/sale"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
	infracache "github.com/jhoicas/caixa-pdv/internal/infrastructure/cache"
	"github.com/jhoicas/caixa-pdv/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/caixa-pdv/internal/infrastructure/pdf"
	"github.com/jhoicas/caixa-pdv/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/caixa-pdv/internal/interfaces/http"
	"github.com/jhoicas/caixa-pdv/pkg/config"
	"github.com/jhoicas/caixa-pdv/pkg/logger"
)

// store puertos de persistencia ya resueltos para el driver configurado.
type store struct {
	txRunner repository.TxRunner
	repos    repository.TxRepos
	reports  repository.ReportRepository
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: autenticación por cabecera X-Operator-Id (sólo desarrollo)")
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	// Redis es opcional: sin él la caché de reportes y el candado de reconciliación son no-op.
	var reportCache reports.ReportCache = reports.NoopCache{}
	var locker inventory.Locker = inventory.NoopLocker{}
	if cfg.Redis.Enabled() {
		client := infracache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		redisCache := infracache.NewRedisReportCache(client)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := redisCache.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se continúa sin caché")
			_ = redisCache.Close()
		} else {
			defer redisCache.Close()
			reportCache = redisCache
			locker = infracache.NewRedisLocker(client)
		}
	}

	policy := sale.Policy{
		AllowNegativeStock:  cfg.Ledger.AllowNegativeStock,
		EnforcePaymentTotal: cfg.Ledger.EnforcePaymentTotal,
		VerifyLineTotals:    cfg.Ledger.VerifyLineTotals,
	}

	sessionsUC := cash.NewSessionUseCase(st.txRunner, st.repos, log.Named("cash"))
	cashMovementsUC := cash.NewMovementUseCase(st.txRunner, st.repos, log.Named("cash"))
	finalizeUC := sale.NewFinalizeSaleUseCase(st.txRunner, st.repos.Sales, cashMovementsUC, policy, log.Named("sale"))
	registerMovementUC := inventory.NewRegisterMovementUseCase(st.txRunner, st.repos, locker, log.Named("inventory"))

	// PDF: reporte de cierre de turno
	pdfRenderer := infrapdf.NewMarotoSessionReport(cfg.App.Name, time.Local)
	reportsUC := reports.NewUseCase(
		st.reports, sessionsUC, cashMovementsUC,
		reportCache, cfg.Redis.ReportCacheTTL, pdfRenderer, log.Named("reports"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Caixa PDV API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Catalog:          catalog.NewProvider(st.repos.Products),
		FinalizeSale:     finalizeUC,
		CashSessions:     sessionsUC,
		CashMovements:    cashMovementsUC,
		RegisterMovement: registerMovementUC,
		Reports:          reportsUC,
		JWTSecret:        cfg.JWT.Secret,
		JWTIssuer:        cfg.JWT.Issuer,
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

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store, error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		mem := memory.New()
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		return &store{txRunner: mem, repos: mem.Repos(), reports: mem.Reports(), close: func() {}}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &store{
		txRunner: postgres.NewTxRunner(pool),
		repos:    postgres.NewRepos(pool),
		reports:  postgres.NewReportRepository(pool),
		close:    pool.Close,
	}, nil
}
