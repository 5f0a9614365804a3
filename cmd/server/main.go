package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/adapter/cache"
	"github.com/paradox-app/paradox/internal/adapter/external/notification"
	"github.com/paradox-app/paradox/internal/adapter/http/fiber/handlers"
	"github.com/paradox-app/paradox/internal/adapter/http/fiber/middleware"
	"github.com/paradox-app/paradox/internal/adapter/queue"
	"github.com/paradox-app/paradox/internal/adapter/storage/postgres"
	"github.com/paradox-app/paradox/internal/adapter/vault"
	wsAdapter "github.com/paradox-app/paradox/internal/adapter/websocket"
	"github.com/paradox-app/paradox/internal/observability/telemetry"
	"github.com/paradox-app/paradox/internal/service/auth"
	"github.com/paradox-app/paradox/internal/service/coupon"
	"github.com/paradox-app/paradox/internal/service/earnings"
	"github.com/paradox-app/paradox/internal/service/email"
	"github.com/paradox-app/paradox/internal/service/health"
	"github.com/paradox-app/paradox/internal/service/share"
	"github.com/paradox-app/paradox/internal/service/task"
	"github.com/paradox-app/paradox/internal/service/verification"
	"github.com/paradox-app/paradox/internal/service/withdrawal"
	"github.com/paradox-app/paradox/pkg/config"
)

const (
	serviceName    = "paradox-api"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting Paradox",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// 3. Pull secrets from Vault when enabled
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
		if err != nil {
			logger.Fatal("Failed to connect to Vault", zap.Error(err))
		}
		if dsn, err := secrets.GetDatabaseCredentials(); err == nil {
			cfg.Database.URL = dsn
		} else {
			logger.Warn("Vault database secret unavailable", zap.Error(err))
		}
		if secret, err := secrets.GetJWTSecret(); err == nil {
			cfg.JWT.Secret = secret
		} else {
			logger.Warn("Vault JWT secret unavailable", zap.Error(err))
		}
		if key, err := secrets.GetSendGridAPIKey(); err == nil {
			cfg.Notification.Email.APIKey = key
		} else {
			logger.Warn("Vault SendGrid secret unavailable", zap.Error(err))
		}
		if key, err := secrets.GetSMSAPIKey(); err == nil {
			cfg.Notification.SMS.APIKey = key
		} else {
			logger.Warn("Vault SMS secret unavailable", zap.Error(err))
		}
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// 6. Initialize Cache (Redis, with in-memory fallback)
	appCache, err := cache.NewRedisCache(cfg.Redis.URL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
		appCache = cache.NewLocalCache(cfg.Verification.SweepInterval, logger)
	}
	defer appCache.Close()

	// 7. Initialize Message Queue (NATS)
	messageQueue, err := queue.NewNATSQueue(cfg.NATS, logger)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer messageQueue.Close()

	// 8. Initialize Repositories
	userRepo := postgres.NewUserRepository(db, logger)
	taskRepo := postgres.NewTaskRepository(db, logger)
	ledgerRepo := postgres.NewLedgerRepository(db, logger)
	referralRepo := postgres.NewReferralRepository(db, logger)
	withdrawalRepo := postgres.NewWithdrawalRepository(db, logger)
	couponRepo := postgres.NewCouponRepository(db, logger)
	shareRepo := postgres.NewShareLinkRepository(db, logger)

	// 9. Initialize Notification Adapters
	emailService, err := email.NewService(&email.Config{
		Provider:       cfg.Notification.Email.Provider,
		FromEmail:      cfg.Notification.Email.From,
		FromName:       cfg.Notification.Email.FromName,
		SendGridAPIKey: cfg.Notification.Email.APIKey,
		SMTPHost:       cfg.Notification.Email.SMTPHost,
		SMTPPort:       cfg.Notification.Email.SMTPPort,
		SMTPUsername:   cfg.Notification.Email.SMTPUser,
		SMTPPassword:   cfg.Notification.Email.SMTPPass,
		AdminEmail:     cfg.Notification.Admin,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service", zap.Error(err))
	}
	smsSender := notification.NewSMSAdapter(cfg.Notification.SMS.APIKey, cfg.Notification.SMS.SenderID, logger)

	// 10. Initialize Services (Business Logic Layer)
	couponService := coupon.NewService(couponRepo, cfg.Roles, cfg.Coupons, logger)
	verificationService := verification.NewService(appCache, emailService, smsSender, cfg.Verification, logger)
	earningsService := earnings.NewService(userRepo, taskRepo, ledgerRepo, referralRepo, messageQueue, logger)
	withdrawalService := withdrawal.NewService(userRepo, ledgerRepo, withdrawalRepo, emailService, messageQueue, cfg.Withdrawal, cfg.Notification.Admin, logger)
	authService := auth.NewService(userRepo, couponService, earningsService, verificationService, emailService, cfg.JWT, logger)
	taskService := task.NewService(taskRepo, ledgerRepo, userRepo, logger)
	shareService := share.NewService(shareRepo, userRepo, cfg.Share.BaseURL, logger)

	// 11. Initialize Health Checks
	healthConfig := &health.Config{
		Version: serviceVersion,
		DB:      sqlDB,
		Cache:   appCache,
	}
	if nq, ok := messageQueue.(*queue.NATSQueue); ok {
		healthConfig.NATS = nq.Conn()
	}
	healthService := health.NewService(healthConfig, logger)

	// 12. Initialize WebSocket Hub (for real-time balance updates)
	wsHub := wsAdapter.NewHub()
	go wsHub.Run()
	startEventForwarders(messageQueue, wsHub, logger)

	// 13. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	if cfg.RateLimiting.Enabled {
		app.Use(middleware.RateLimit(cfg.RateLimiting))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(cfg.CircuitBreaker, logger))
	}

	// Health Check Endpoints
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	taskHandler := handlers.NewTaskHandler(taskService, earningsService, logger)
	dashboardHandler := handlers.NewDashboardHandler(earningsService, logger)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService, logger)
	couponHandler := handlers.NewCouponHandler(couponService, logger)
	verificationHandler := handlers.NewVerificationHandler(verificationService, userRepo, logger)
	shareHandler := handlers.NewShareHandler(shareService, logger)

	// API v1 Routes
	v1 := app.Group("/api/v1")

	// Public routes
	v1.Post("/auth/signup", authHandler.Signup)
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/refresh", authHandler.RefreshToken)
	v1.Get("/auth/check-email", authHandler.CheckEmail)
	v1.Get("/auth/check-phone", authHandler.CheckPhone)
	v1.Post("/coupons/validate", couponHandler.Validate)
	app.Get("/r/:code", shareHandler.TrackClick)

	// Protected routes
	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/auth/me", authHandler.Me)

	protected.Post("/verification/send", verificationHandler.SendCode)
	protected.Post("/verification/verify", verificationHandler.VerifyCode)

	protected.Get("/tasks", taskHandler.Available)
	protected.Post("/tasks/:id/complete", taskHandler.Complete)

	protected.Get("/dashboard/stats", dashboardHandler.Stats)
	protected.Get("/dashboard/earnings", dashboardHandler.RecentEarnings)
	protected.Get("/dashboard/referrals", dashboardHandler.ReferralStats)

	protected.Get("/withdrawals/window", withdrawalHandler.WindowStatus)
	protected.Get("/withdrawals/eligibility", withdrawalHandler.Eligibility)
	protected.Post("/withdrawals", withdrawalHandler.Submit)
	protected.Get("/withdrawals", withdrawalHandler.History)

	protected.Post("/share/links", shareHandler.GetLink)

	// Vendor and admin routes
	protected.Post("/coupons/generate", middleware.PrivilegedRequired(), couponHandler.Generate)

	admin := protected.Group("/admin", middleware.AdminRequired())
	admin.Post("/tasks", taskHandler.Create)
	admin.Get("/tasks", taskHandler.ListAll)
	admin.Patch("/tasks/:id/active", taskHandler.Toggle)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// Live dashboard updates. The token arrives as a query parameter
	// because browsers cannot set headers on websocket upgrades.
	app.Get("/ws/updates", websocket.New(func(c *websocket.Conn) {
		token := c.Query("token")
		user, err := authService.ValidateToken(context.Background(), token)
		if err != nil || user == nil {
			c.Close()
			return
		}
		wsHub.AddClient(c, user.ID)
	}))

	// 14. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 15. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// startEventForwarders relays credit events from NATS to the websocket
// hub so open dashboards refresh without polling.
func startEventForwarders(mq queue.MessageQueue, hub *wsAdapter.Hub, logger *zap.Logger) {
	forward := func(subject, userKey string) {
		err := mq.Subscribe(subject, func(data []byte) error {
			var payload map[string]interface{}
			if err := json.Unmarshal(data, &payload); err != nil {
				return err
			}
			userID, _ := payload[userKey].(string)
			if userID == "" {
				return nil
			}
			hub.SendToUser(userID, data)
			return nil
		})
		if err != nil {
			logger.Error("Failed to subscribe", zap.String("subject", subject), zap.Error(err))
		}
	}

	forward(queue.SubjectTaskCompleted, "user_id")
	forward(queue.SubjectReferralCredited, "referrer_id")
	forward(queue.SubjectWithdrawal, "user_id")
}
