package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"learnhub-backend/internal/config"
	"learnhub-backend/internal/handlers"
	"learnhub-backend/internal/middleware"
	"learnhub-backend/internal/models"
	"learnhub-backend/internal/payments"
	"learnhub-backend/internal/payments/stripe"
	"learnhub-backend/internal/repository"
	"learnhub-backend/internal/seed"
	"learnhub-backend/internal/service"
	"learnhub-backend/pkg/cache"
	"learnhub-backend/pkg/logger"
)

type Application struct {
	cfg *config.Config

	db    *gorm.DB
	cache *cache.Cache

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	rateLimits *middleware.RateLimitManager
	router     *gin.Engine
	server     *http.Server
}

type repositoryContainer struct {
	User        repository.UserRepository
	Course      repository.CourseRepository
	Module      repository.CourseModuleRepository
	Lesson      repository.LessonRepository
	Quiz        repository.QuizQuestionRepository
	Enrollment  repository.EnrollmentRepository
	Progress    repository.ProgressRepository
	Order       repository.OrderRepository
	Certificate repository.CertificateRepository
	Review      repository.ReviewRepository
	Testimonial repository.TestimonialRepository
	Feature     repository.FeatureRepository
}

type serviceContainer struct {
	Auth        *service.AuthService
	Course      *service.CourseService
	Enrollment  *service.EnrollmentService
	Quiz        *service.QuizService
	Purchase    *service.PurchaseService
	Certificate *service.CertificateService
	Review      *service.ReviewService
	Content     *service.ContentService
}

type handlerContainer struct {
	Auth        *handlers.AuthHandler
	Course      *handlers.CourseHandler
	Lesson      *handlers.LessonHandler
	Enrollment  *handlers.EnrollmentHandler
	Purchase    *handlers.PurchaseHandler
	Certificate *handlers.CertificateHandler
	Review      *handlers.ReviewHandler
	Content     *handlers.ContentHandler
}

func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &Application{cfg: cfg}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.runMigrations(); err != nil {
		return nil, err
	}

	if err := app.createIndexes(); err != nil {
		return nil, err
	}

	if err := app.initCache(); err != nil {
		return nil, err
	}

	app.initRepositories()
	if err := app.initServices(); err != nil {
		return nil, err
	}

	if cfg.EnableSeed {
		seed.EnsureCatalog(
			app.repositories.Course,
			app.repositories.Module,
			app.repositories.Lesson,
			app.repositories.Quiz,
			app.repositories.Testimonial,
			app.repositories.Feature,
		)
	}

	app.initHandlers()
	app.rateLimits = middleware.NewRateLimitManager(ctx)
	app.initRouter()

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.rateLimits != nil {
		if err := a.rateLimits.Shutdown(); err != nil {
			logger.Error(err, "Failed to stop rate limit manager", nil)
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.CourseModule{},
		&models.Lesson{},
		&models.QuizQuestion{},
		&models.Enrollment{},
		&models.Progress{},
		&models.Order{},
		&models.Certificate{},
		&models.Review{},
		&models.Testimonial{},
		&models.Feature{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func (a *Application) createIndexes() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Creating database indexes", nil)

	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_courses_popular ON courses(is_popular) WHERE is_popular = true",
		"CREATE INDEX IF NOT EXISTS idx_courses_created_at ON courses(created_at ASC)",
		"CREATE INDEX IF NOT EXISTS idx_enrollments_status ON enrollments(status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_progress_completed ON progress(user_id) WHERE completed = true",
	}

	for _, stmt := range statements {
		if err := a.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (a *Application) initCache() error {
	cacheClient, err := cache.NewCache(a.cfg.RedisURL, a.cfg.EnableCache)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	a.cache = cacheClient
	return nil
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		User:        repository.NewUserRepository(a.db),
		Course:      repository.NewCourseRepository(a.db),
		Module:      repository.NewCourseModuleRepository(a.db),
		Lesson:      repository.NewLessonRepository(a.db),
		Quiz:        repository.NewQuizQuestionRepository(a.db),
		Enrollment:  repository.NewEnrollmentRepository(a.db),
		Progress:    repository.NewProgressRepository(a.db),
		Order:       repository.NewOrderRepository(a.db),
		Certificate: repository.NewCertificateRepository(a.db),
		Review:      repository.NewReviewRepository(a.db),
		Testimonial: repository.NewTestimonialRepository(a.db),
		Feature:     repository.NewFeatureRepository(a.db),
	}
}

func (a *Application) initServices() error {
	var provider payments.Provider
	if a.cfg.PaymentsConfigured() {
		stripeProvider, err := stripe.NewProvider(a.cfg.StripeSecretKey)
		if err != nil {
			return fmt.Errorf("failed to initialize payment provider: %w", err)
		}
		provider = stripeProvider
	} else {
		logger.Warn("Payments are not configured, purchases are disabled", nil)
	}

	enrollment := service.NewEnrollmentService(
		a.repositories.Enrollment,
		a.repositories.Progress,
		a.repositories.Course,
		a.repositories.Module,
		a.repositories.Lesson,
	)

	a.services = serviceContainer{
		Auth:       service.NewAuthService(a.repositories.User, a.cfg.JWTSecret),
		Course:     service.NewCourseService(a.repositories.Course, a.repositories.Module, a.repositories.Lesson, a.repositories.Quiz, a.cache),
		Enrollment: enrollment,
		Quiz:       service.NewQuizService(a.repositories.Quiz, a.repositories.Lesson, enrollment),
		Purchase: service.NewPurchaseService(
			a.repositories.Order,
			a.repositories.Course,
			enrollment,
			provider,
			a.cfg.PaymentCurrency,
		),
		Certificate: service.NewCertificateService(a.repositories.Certificate, a.repositories.Enrollment, a.repositories.Course),
		Review:      service.NewReviewService(a.repositories.Review, a.repositories.Enrollment, a.repositories.Course, a.repositories.User),
		Content:     service.NewContentService(a.repositories.Testimonial, a.repositories.Feature),
	}

	return nil
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Auth:        handlers.NewAuthHandler(a.services.Auth),
		Course:      handlers.NewCourseHandler(a.services.Course),
		Lesson:      handlers.NewLessonHandler(a.services.Enrollment, a.services.Quiz),
		Enrollment:  handlers.NewEnrollmentHandler(a.services.Enrollment),
		Purchase:    handlers.NewPurchaseHandler(a.services.Purchase, a.cfg.StripeWebhookSecret),
		Certificate: handlers.NewCertificateHandler(a.services.Certificate),
		Review:      handlers.NewReviewHandler(a.services.Review),
		Content:     handlers.NewContentHandler(a.services.Content),
	}
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLogger())
	router.Use(middleware.RequestIDMiddleware())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(func(c *gin.Context) {
		c.Set("rateLimitManager", a.rateLimits)
		c.Next()
	})
	router.Use(middleware.RateLimitMiddleware(a.cfg))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		{
			public.POST("/register", a.handlers.Auth.Register)
			public.POST("/login", a.handlers.Auth.Login)
			public.POST("/logout", a.handlers.Auth.Logout)

			public.GET("/courses", a.handlers.Course.ListCourses)
			public.GET("/courses/slug/:slug", a.handlers.Course.GetCourse)
			public.GET("/courses/:id/modules", a.handlers.Course.ListModules)
			public.GET("/modules/:id/lessons", a.handlers.Course.ListLessons)
			public.GET("/courses/:id/reviews", a.handlers.Review.ListByCourse)

			public.GET("/testimonials", a.handlers.Content.ListTestimonials)
			public.GET("/features", a.handlers.Content.ListFeatures)

			public.POST("/webhooks/stripe", a.handlers.Purchase.Webhook)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		{
			protected.GET("/profile", a.handlers.Auth.Me)
			protected.PUT("/profile", a.handlers.Auth.UpdateProfile)

			protected.POST("/courses/:id/enroll", a.handlers.Enrollment.Enroll)
			protected.GET("/enrollments", a.handlers.Enrollment.ListMine)
			protected.GET("/courses/:id/enrollment", a.handlers.Enrollment.GetMine)
			protected.PATCH("/courses/:id/enrollment", a.handlers.Enrollment.UpdateStatus)

			protected.GET("/lessons/:id", a.handlers.Lesson.GetLesson)
			protected.POST("/lessons/:id/complete", a.handlers.Lesson.CompleteLesson)
			protected.GET("/lessons/:id/quiz", a.handlers.Lesson.GetQuiz)
			protected.POST("/lessons/:id/quiz", a.handlers.Lesson.SubmitQuiz)

			protected.POST("/courses/:id/purchase", a.handlers.Purchase.Purchase)
			protected.GET("/orders", a.handlers.Purchase.ListOrders)
			protected.GET("/orders/:id", a.handlers.Purchase.GetOrder)

			protected.POST("/courses/:id/certificate", a.handlers.Certificate.Issue)
			protected.GET("/certificates", a.handlers.Certificate.ListMine)

			protected.POST("/courses/:id/reviews", a.handlers.Review.Create)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/courses", a.handlers.Course.CreateCourse)
			admin.POST("/courses/:id/modules", a.handlers.Course.CreateModule)
			admin.POST("/modules/:id/lessons", a.handlers.Course.CreateLesson)
			admin.POST("/lessons/:id/questions", a.handlers.Course.CreateQuizQuestion)

			admin.POST("/orders/:id/refund", a.handlers.Purchase.Refund)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "route not found",
			"path":  c.Request.URL.Path,
		})
	})

	a.router = router
}
