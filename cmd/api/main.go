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
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Pantallas-api/internal/application/auth"
	"github.com/jhoicas/Pantallas-api/internal/application/ratelimit"
	"github.com/jhoicas/Pantallas-api/internal/application/usecase"
	"github.com/jhoicas/Pantallas-api/internal/infrastructure/mail"
	"github.com/jhoicas/Pantallas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Pantallas-api/internal/interfaces/http"
	"github.com/jhoicas/Pantallas-api/pkg/config"
	"github.com/jhoicas/Pantallas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	tokenRepo := postgres.NewTokenRepository(pool)
	pendingRepo := postgres.NewPendingSignupRepository(pool)
	resourceRepo := postgres.NewResourceRepository(pool)

	// Contadores de intentos: gate de volumen (limiter) y lockout de OTP
	// son defensas independientes con stores separados. Con REDIS_ADDR se
	// comparten entre instancias (incremento atómico); sin él, memoria de
	// proceso best-effort.
	var limiterStore, otpStore ratelimit.AttemptStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiterStore = ratelimit.NewRedisStore(client, "ratelimit")
		otpStore = ratelimit.NewRedisStore(client, "otplock")
		log.Info().Str("addr", cfg.Redis.Addr).Msg("contadores de intentos en Redis")
	} else {
		memLimiter := ratelimit.NewMemoryStore()
		memLimiter.StartSweeper(cfg.RateLimit.SweepInterval)
		defer memLimiter.Stop()
		memOTP := ratelimit.NewMemoryStore()
		memOTP.StartSweeper(cfg.RateLimit.SweepInterval)
		defer memOTP.Stop()
		limiterStore, otpStore = memLimiter, memOTP
		log.Info().Msg("contadores de intentos en memoria (single-instance)")
	}

	limiter := ratelimit.New(limiterStore, cfg.RateLimit)
	tokenSvc := auth.NewTokenService(tokenRepo, cfg.JWT)
	otpSvc := auth.NewOTPService(pendingRepo, tokenRepo, otpStore, cfg.OTP)
	mailer := mail.NewLogMailer(log.Component("mailer"))
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, pendingRepo, tokenSvc, otpSvc, limiter, mailer, log)
	companyUC := usecase.NewCompanyUseCase(companyRepo, userRepo)
	resourceUC := usecase.NewResourceUseCase(resourceRepo)

	// GC periódico: ledger de tokens vencidos y pre-registros expirados.
	janitorDone := make(chan struct{})
	go func() {
		jlog := log.Component("janitor")
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := tokenRepo.PurgeExpired(); err != nil {
					jlog.Warn().Err(err).Msg("purga del ledger de tokens")
				} else if n > 0 {
					jlog.Debug().Int64("rows", n).Msg("ledger de tokens purgado")
				}
				if n, err := pendingRepo.PurgeExpired(); err != nil {
					jlog.Warn().Err(err).Msg("purga de pre-registros")
				} else if n > 0 {
					jlog.Debug().Int64("rows", n).Msg("pre-registros purgados")
				}
			case <-janitorDone:
				return
			}
		}
	}()
	defer close(janitorDone)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Pantallas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		Tokens:     tokenSvc,
		CompanyUC:  companyUC,
		ResourceUC: resourceUC,
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
