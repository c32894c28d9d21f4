package cmd

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/vibast-solutions/ms-go-hydration/app/controller"
	httpdto "github.com/vibast-solutions/ms-go-hydration/app/dto/http"
	hydrationgrpc "github.com/vibast-solutions/ms-go-hydration/app/grpc"
	"github.com/vibast-solutions/ms-go-hydration/app/metrics"
	"github.com/vibast-solutions/ms-go-hydration/app/middleware"
	"github.com/vibast-solutions/ms-go-hydration/app/repository"
	"github.com/vibast-solutions/ms-go-hydration/app/service"
	"github.com/vibast-solutions/ms-go-hydration/config"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
)

type application struct {
	cfg                *config.Config
	metrics            *metrics.Metrics
	accountRepo        *repository.AccountRepository
	authService        service.AuthService
	profileService     service.ProfileService
	quickAccessService service.QuickAccessService
	waterIntakeService service.WaterIntakeService
}

func newApplication(cfg *config.Config, db *sql.DB, opts ...service.Option) *application {
	m := metrics.New()
	opts = append([]service.Option{service.WithMetrics(m)}, opts...)

	accountRepo := repository.NewAccountRepository(db)
	intakeRepo := repository.NewWaterIntakeRepository(db)

	return &application{
		cfg:                cfg,
		metrics:            m,
		accountRepo:        accountRepo,
		authService:        service.NewAuthService(accountRepo, cfg, opts...),
		profileService:     service.NewProfileService(accountRepo, cfg, opts...),
		quickAccessService: service.NewQuickAccessService(db, accountRepo, opts...),
		waterIntakeService: service.NewWaterIntakeService(intakeRepo, cfg, opts...),
	}
}

func (a *application) httpHandler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	authController := controller.NewAuthController(a.authService, a.quickAccessService)
	profileController := controller.NewProfileController(a.profileService)
	waterIntakeController := controller.NewWaterIntakeController(a.waterIntakeService, a.quickAccessService)
	authMiddleware := middleware.NewAuthMiddleware(a.authService)

	e.GET("/metrics", echo.WrapHandler(a.metrics.Handler()))

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)

	authProtected := auth.Group("", authMiddleware.RequireAuth)
	authProtected.GET("", authController.Me)
	authProtected.POST("/logout", authController.Logout)
	authProtected.POST("/quick-access/generate", authController.GenerateQuickAccess)
	authProtected.POST("/quick-access/revoke", authController.RevokeQuickAccess)

	user := api.Group("/user", authMiddleware.RequireAuth)
	user.GET("/profile", profileController.GetProfile)
	user.PATCH("/profile", profileController.UpdateProfile)

	waterIntake := api.Group("/water-intake")
	waterIntake.GET("/quick/:token", waterIntakeController.QuickAccess, a.quickAccessRateLimiter())

	waterIntakeProtected := waterIntake.Group("", authMiddleware.RequireAuth)
	waterIntakeProtected.POST("", waterIntakeController.Create)
	waterIntakeProtected.GET("", waterIntakeController.List)
	waterIntakeProtected.GET("/today", waterIntakeController.Today)
	waterIntakeProtected.GET("/:date", waterIntakeController.ByDate)

	return e
}

// quickAccessRateLimiter throttles the unauthenticated redemption route per client IP.
func (a *application) quickAccessRateLimiter() echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(a.cfg.QuickAccess.RateLimit),
		Burst:     a.cfg.QuickAccess.RateBurst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(ctx echo.Context, err error) error {
			return ctx.JSON(http.StatusForbidden, httpdto.ErrorResponse{Error: "unable to identify client"})
		},
		DenyHandler: func(ctx echo.Context, identifier string, err error) error {
			logrus.WithField("ip", identifier).Warn("Quick access rate limit exceeded")
			return ctx.JSON(http.StatusTooManyRequests, httpdto.ErrorResponse{Error: "too many requests"})
		},
	})
}

func (a *application) grpcServer() *grpc.Server {
	srv := hydrationgrpc.NewQuickAccessServer(a.quickAccessService, a.waterIntakeService)
	return hydrationgrpc.NewServer(srv, a.authService)
}
