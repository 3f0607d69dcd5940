package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mechinweb/mechinweb-service/config"
	"github.com/mechinweb/mechinweb-service/internal/controller"
	circuitbreaker "github.com/mechinweb/mechinweb-service/internal/infrastructure/circuit-breaker"
	exchangerate "github.com/mechinweb/mechinweb-service/internal/infrastructure/exchange-rate"
	"github.com/mechinweb/mechinweb-service/internal/infrastructure/invoicing"
	"github.com/mechinweb/mechinweb-service/internal/infrastructure/mailer"
	"github.com/mechinweb/mechinweb-service/internal/infrastructure/tracing"
	localmiddleware "github.com/mechinweb/mechinweb-service/internal/middleware"
	"github.com/mechinweb/mechinweb-service/internal/repository"
	"github.com/mechinweb/mechinweb-service/internal/service"
	"github.com/mechinweb/mechinweb-service/pkg/response"
	"github.com/mechinweb/mechinweb-service/pkg/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	DB        *sqlx.DB
	Config    *config.Config
	Publisher service.EventPublisher
	Server    *echo.Echo

	metrics       *echo.Echo
	scheduler     gocron.Scheduler
	traceProvider *trace.TracerProvider
}

// InitLogger installs the global JSON logger. It is also the fallback for
// log.Ctx outside of a request.
func InitLogger(environment string) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("environment", environment).Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if environment == "development" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
}

// Setup builds the HTTP server and the background jobs without starting
// them.
func (app *App) Setup() error {
	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost, app.Config.TracingConfig.ServiceName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize tracing")
	}
	app.traceProvider = traceProvider

	tracer := otel.Tracer(app.Config.TracingConfig.ServiceName)

	extractIP, err := localmiddleware.ClientIPExtractor(app.Config.TrustedProxies)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = extractIP
	e.Validator = utils.NewValidator()

	e.Use(middleware.Recover())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			defer span.End()

			req := c.Request()
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	})

	// Used empty string so that metrics are not prefixed with the service name
	e.Use(echoprometheus.NewMiddleware(""))
	e.Use(localmiddleware.Logger)
	e.Use(middleware.CORS())

	g := e.Group("/api/v1")

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "pong", nil)
	})

	isLoggedIn := localmiddleware.IsLoggedIn(app.Config.JWTConfig.JWTSecret)

	mail := mailer.CreateMailer(app.Config.SMTPConfig)
	rates := exchangerate.CreateExchangeRateProvider(app.Config.ExchangeRateConfig)
	invoicingClient := invoicing.CreateInvoicingClient(app.Config.InvoicingConfig, circuitbreaker.CreateCircuitBreaker("invoicing"))

	userRepo := repository.CreateUserRepository(app.DB)
	purchaseRepo := repository.CreatePurchaseRepository(app.DB)

	userSvc := service.CreateUserService(userRepo, app.Config, mail, app.Publisher)
	pricingSvc := service.CreatePricingService(rates, app.Config.DefaultCurrencyCode)
	purchaseSvc := service.CreatePurchaseService(purchaseRepo, userRepo, pricingSvc, invoicingClient, mail, app.Publisher, app.Config)
	invoicingSvc := service.CreateInvoicingService(invoicingClient, app.Config)
	emailSvc := service.CreateEmailService(mail, app.Config)

	controller.CreateUserController(g, userSvc, isLoggedIn)
	controller.CreateCatalogController(g, pricingSvc)
	controller.CreatePurchaseController(g, purchaseSvc, isLoggedIn)
	controller.CreateInvoicingController(g, invoicingSvc, isLoggedIn)
	controller.CreateEmailController(g, emailSvc, localmiddleware.RateLimitByIP(app.Config.EmailRatePerMinute, app.Config.EmailRateBurst, extractIP))

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("error creating scheduler: %w", err)
	}

	interval := app.Config.SyncInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err = s.NewJob(
		gocron.DurationJob(
			interval,
		),
		gocron.NewTask(
			func() {
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				defer cancel()

				updated, err := purchaseSvc.SyncInvoiceStatuses(ctx)
				if err != nil {
					log.Error().Err(err).Str("component", "SyncInvoiceStatuses").Msg("")
					return
				}
				log.Info().Str("component", "SyncInvoiceStatuses").Int("updated", updated).Msg("invoice statuses synced")
			},
		),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("error scheduling invoice sync: %w", err)
	}

	app.scheduler = s
	app.Server = e

	return nil
}

// Start runs the metrics server, the scheduler and the API server. It blocks
// until the API server stops.
func (app *App) Start() error {
	if app.Server == nil {
		if err := app.Setup(); err != nil {
			return err
		}
	}

	app.metrics = echo.New()
	app.metrics.HideBanner = true
	app.metrics.GET("/metrics", echoprometheus.NewHandler())
	go func() {
		if err := app.metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	app.scheduler.Start()

	if err := app.Server.Start(fmt.Sprintf(":%s", app.Config.ServicePort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error

	if app.scheduler != nil {
		if err := app.scheduler.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("scheduler: %w", err))
		}
	}

	if app.metrics != nil {
		if err := app.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server: %w", err))
		}
	}

	if app.Server != nil {
		if err := app.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("server: %w", err))
		}
	}

	if app.traceProvider != nil {
		if err := app.traceProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing: %w", err))
		}
	}

	return errors.Join(errs...)
}
