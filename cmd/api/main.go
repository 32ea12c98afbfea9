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

	appanalytics "github.com/jhoicas/invoice-studio-api/internal/application/analytics"
	"github.com/jhoicas/invoice-studio-api/internal/application/auth"
	"github.com/jhoicas/invoice-studio-api/internal/application/billing"
	"github.com/jhoicas/invoice-studio-api/internal/application/drafts"
	"github.com/jhoicas/invoice-studio-api/internal/application/notifications"
	"github.com/jhoicas/invoice-studio-api/internal/application/profile"
	"github.com/jhoicas/invoice-studio-api/internal/application/ports"
	"github.com/jhoicas/invoice-studio-api/internal/infrastructure/export"
	"github.com/jhoicas/invoice-studio-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/invoice-studio-api/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-studio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/invoice-studio-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/invoice-studio-api/internal/interfaces/http"
	"github.com/jhoicas/invoice-studio-api/pkg/config"
	"github.com/jhoicas/invoice-studio-api/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	log.Info().Str("db", postgres.RedactDSN(cfg.DB.ConnectionString())).Msg("conectado a PostgreSQL")

	if cfg.DB.AutoMigrate {
		applied, err := postgres.RunMigrations(ctx, pool, log.Component("migrate"))
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	draftRepo := postgres.NewDraftRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	draftStore := drafts.NewStore(draftRepo, cfg.Drafts.DebounceDelay, log.Component("drafts"))
	notificationSvc := notifications.NewService(notificationRepo, log.Component("notifications"))
	profileSvc := profile.NewService(profileRepo, log.Component("profile"))

	invoiceSvc := billing.NewInvoiceService(
		txRunner, invoiceRepo, clientRepo, draftStore,
		export.NewXLSXExporter(), log.Component("invoices"),
	)
	editorSvc := billing.NewEditorService(invoiceSvc, draftStore, profileRepo, log.Component("editor"))

	// Sin SMTP el envío responde con error de entrega; la descarga sigue disponible.
	var mailer ports.Mailer
	if m := mail.NewSMTPMailer(cfg.Mail, log.Component("mail")); m != nil {
		mailer = m
	} else {
		log.Warn().Msg("SMTP no configurado, envío de facturas desactivado")
	}
	deliverySvc := billing.NewDeliveryService(
		infrapdf.NewMarotoRenderer(), mailer, profileRepo,
		invoiceSvc, notificationSvc, log.Component("delivery"),
	)

	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	var limiter *httpRouter.UserRateLimiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = httpRouter.NewUserRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Tareas programadas
	sched := scheduler.New(log.Component("scheduler"), time.Minute)
	if cfg.Scheduler.OverdueSpec != "" {
		sweeper := billing.NewOverdueSweeper(invoiceRepo, notificationSvc, log.Component("overdue"))
		if err := sched.Add("overdue-sweep", cfg.Scheduler.OverdueSpec, sweeper); err != nil {
			log.Fatal().Err(err).Str("spec", cfg.Scheduler.OverdueSpec).Msg("programar barrido de vencidas")
		}
	}
	if limiter != nil {
		err := sched.Add("rate-limiter-cleanup", "@every 5m", scheduler.JobFunc(func(context.Context) (int, error) {
			return limiter.Cleanup(), nil
		}))
		if err != nil {
			log.Fatal().Err(err).Msg("programar limpieza del rate limiter")
		}
	}
	sched.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    8 * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Invoice Studio API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		Invoices:      invoiceSvc,
		Delivery:      deliverySvc,
		Editor:        editorSvc,
		Drafts:        draftStore,
		Profiles:      profileSvc,
		Notifications: notificationSvc,
		Dashboard:     dashboardUC,
		RateLimiter:   limiter,
		JWTSecret:     cfg.JWT.Secret,
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
	sched.Stop(shutdownCtx)
	// los borradores pendientes de debounce se escriben antes de cerrar el pool
	if err := draftStore.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("vaciar borradores pendientes")
	}

	log.Info().Msg("aplicación detenida")
}
