package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ken-Jasadapon/Midterm/internal/auth"
	"github.com/Ken-Jasadapon/Midterm/internal/config"
	"github.com/Ken-Jasadapon/Midterm/internal/handlers"
	"github.com/Ken-Jasadapon/Midterm/internal/logger"
	"github.com/Ken-Jasadapon/Midterm/internal/mailer"
	"github.com/Ken-Jasadapon/Midterm/internal/middleware"
	"github.com/Ken-Jasadapon/Midterm/internal/models"
	"github.com/Ken-Jasadapon/Midterm/internal/repositories"
	"github.com/Ken-Jasadapon/Midterm/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	_ "github.com/Ken-Jasadapon/Midterm/docs"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Midterm Shop API
// @version 1.0
// @description E-commerce API with OTP-verified login, product catalog and shopping carts

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Midterm Shop")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)

	// The role table is reference data; refuse to start if it drifted from
	// the identifiers the authorization code relies on
	if err := validateRoles(roleRepo); err != nil {
		logger.Logger.Fatal("Role table validation failed", zap.Error(err))
	}

	// Initialize auth components and mail transport
	hasher := auth.NewHasher(cfg.Bcrypt.Cost)
	tokens := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	otpEngine := auth.NewOTPEngine(cfg.OTP.Step, cfg.OTP.Window)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	// Initialize services
	authService := services.NewAuthService(userRepo, roleRepo, hasher, tokens, otpEngine, smtpMailer, logger.Logger)
	productService := services.NewProductService(productRepo, userRepo, smtpMailer, logger.Logger)
	cartService := services.NewCartService(cartRepo, productRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	productHandler := handlers.NewProductHandler(productService, logger.Logger)
	cartHandler := handlers.NewCartHandler(cartService, logger.Logger)

	// Initialize auth middleware
	authenticate := middleware.Authenticate(tokens, userRepo)
	staffOnly := middleware.Authorize("admin", "employee")
	otpLimiter := middleware.OTPRequestLimiter(cfg.OTP.RateLimit, cfg.OTP.RateWindow)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger.Logger))
	r.Use(middleware.Recovery(logger.Logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimit(1 * 1024 * 1024)) // 1MB

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Public routes
	authHandler.RegisterPublicRoutes(r)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		authHandler.RegisterProtectedRoutes(r, otpLimiter)
		productHandler.RegisterRoutes(r, staffOnly)
		cartHandler.RegisterRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// roleLister is the slice of role repository access startup validation needs
type roleLister interface {
	GetAll(ctx context.Context) ([]repositories.RoleRecord, error)
}

// validateRoles checks the seeded roles table against the identifiers the
// code authorizes by
func validateRoles(roleRepo roleLister) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	records, err := roleRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	byID := make(map[int]string, len(records))
	for _, record := range records {
		byID[record.ID] = record.Name
	}

	for _, role := range models.AllRoles() {
		name, ok := byID[int(role)]
		if !ok {
			return fmt.Errorf("role %q (id %d) missing from roles table", role.Name(), int(role))
		}
		if name != role.Name() {
			return fmt.Errorf("role id %d is %q in the roles table, expected %q", int(role), name, role.Name())
		}
	}

	return nil
}
