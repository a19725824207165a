package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hiringbull/server/config"
	"github.com/hiringbull/server/database"
	"github.com/hiringbull/server/handlers"
	company_handlers "github.com/hiringbull/server/handlers/company"
	device_handlers "github.com/hiringbull/server/handlers/device"
	job_handlers "github.com/hiringbull/server/handlers/job"
	payment_handlers "github.com/hiringbull/server/handlers/payment"
	socialpost_handlers "github.com/hiringbull/server/handlers/socialpost"
	user_handlers "github.com/hiringbull/server/handlers/user"
	webhook_handlers "github.com/hiringbull/server/handlers/webhook"
	"github.com/hiringbull/server/services"
	"github.com/hiringbull/server/utils/cache"
	"github.com/hiringbull/server/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to load configuration")
	}

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	gormStore, ok := store.(*database.GORMStore)
	if !ok {
		log.Fatal("Payment flow requires the GORM store")
	}

	// Redis backs the per-order verification lock and ingest rate limiting;
	// both degrade gracefully when it is unreachable.
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Verify locking and ingest rate limiting are disabled.", err)
	}

	var locker services.OrderLocker
	if redisCache != nil {
		locker = services.NewRedisOrderLocker(redisCache)
	}

	if !getEnv.Razorpay.IsConfigured() {
		log.Println("Warning: Razorpay credentials missing - payment endpoints will report a configuration error")
	}
	paymentService := services.NewPaymentServiceFromConfig(gormStore, getEnv.Razorpay, locker)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(getEnv.CLERK_SECRET_KEY, getEnv.GO_ENV)
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(getEnv.INTERNAL_API_KEY, redisCache)

	// Handlers
	userHandler := user_handlers.NewUserHandler(db)
	deviceHandler := device_handlers.NewDeviceHandler(db)
	jobHandler := job_handlers.NewJobHandler(db)
	companyHandler := company_handlers.NewCompanyHandler(db)
	socialPostHandler := socialpost_handlers.NewSocialPostHandler(db)
	paymentHandler := payment_handlers.NewPaymentHandler(paymentService)
	webhookHandler := webhook_handlers.NewClerkWebhookHandler(db, getEnv.CLERK_WEBHOOK_SECRET)

	// Security middleware stack
	allowedOrigins := getEnv.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   15 * time.Minute,
	})

	// Health checks
	healthHandler := handlers.HandleCheckHealth(store)
	app.Get("/", healthHandler)

	api := app.Group("/api")
	api.Get("/health", healthHandler)

	// Users
	users := api.Group("/users")

	// Device routes are registered before /:id so the static segment wins.
	devices := users.Group("/devices")
	devices.Post("/", authMiddleware.Required(), deviceHandler.AddDevice)
	devices.Post("/public", deviceHandler.AddDevicePublic)
	devices.Get("/", authMiddleware.Required(), deviceHandler.GetDevices)
	devices.Delete("/:token", authMiddleware.Required(), deviceHandler.RemoveDevice)

	users.Post("/", authMiddleware.Required(), userHandler.CreateUser)
	users.Get("/me", authMiddleware.Required(), userHandler.GetCurrentUser)
	users.Get("/", authMiddleware.Required(), userHandler.GetAllUsers)
	users.Get("/:id", authMiddleware.Required(), userHandler.GetUser)
	users.Put("/:id", authMiddleware.Required(), userHandler.UpdateUser)
	users.Delete("/:id", authMiddleware.Required(), userHandler.DeleteUser)

	// Jobs
	jobs := api.Group("/jobs")
	jobs.Get("/", jobHandler.ListJobs)
	jobs.Post("/bulk", apiKeyMiddleware.Require(), jobHandler.BulkCreateJobs)
	jobs.Get("/:id", jobHandler.GetJob)

	// Companies
	companies := api.Group("/companies")
	companies.Get("/", companyHandler.ListCompanies)
	companies.Post("/", apiKeyMiddleware.Require(), companyHandler.CreateCompany)
	companies.Post("/bulk", apiKeyMiddleware.Require(), companyHandler.BulkCreateCompanies)

	// Social posts
	posts := api.Group("/social-posts")
	posts.Get("/", socialPostHandler.ListSocialPosts)
	posts.Post("/bulk", apiKeyMiddleware.Require(), socialPostHandler.BulkCreateSocialPosts)
	posts.Get("/:id", socialPostHandler.GetSocialPost)

	// Payments
	payment := api.Group("/payment")
	payment.Post("/order", authMiddleware.Required(), paymentHandler.CreateOrder)
	payment.Post("/verify", authMiddleware.Required(), paymentHandler.VerifyPayment)

	// Identity provider webhooks (signature-verified, no session auth)
	api.Post("/webhooks/clerk", webhookHandler.Handle)
}
