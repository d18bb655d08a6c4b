package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/campusrecords/internal/app/controllers"
	appMigrations "github.com/yigit/campusrecords/internal/app/migrations"
	appRepos "github.com/yigit/campusrecords/internal/app/repositories"
	appRoutes "github.com/yigit/campusrecords/internal/app/routes"
	appServices "github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/config"
	"github.com/yigit/campusrecords/internal/db"
	appMiddleware "github.com/yigit/campusrecords/internal/middleware"
	pkgAuth "github.com/yigit/campusrecords/internal/pkg/auth"
	"github.com/yigit/campusrecords/internal/pkg/helpers"
	"github.com/yigit/campusrecords/internal/pkg/logger"
	"github.com/yigit/campusrecords/internal/seed"
)

// DefaultConfigPath is used when no path is given on the command line
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	DB             *db.PostgresDB
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Registry       *prometheus.Registry
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := logger.WithFields(map[string]interface{}{"mode": cfg.Server.Mode})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenDatabase opens the connection pool without touching the schema.
func OpenDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// Migrate applies pending schema migrations.
func Migrate(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// ConnectDatabase opens the connection pool and applies pending migrations.
func ConnectDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	database, err := OpenDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, database, lgr); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// SetupDatabase connects, migrates and seeds the default data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	database, err := ConnectDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}

	admin := seed.Admin{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
		Email:    cfg.Admin.Email,
	}
	if err := seed.CreateDefaultData(ctx, appRepos.NewRepositories(database), admin, lgr); err != nil {
		// Startup continues; the API is usable without the seeded rows
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{DB: database, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	prefs, err := appServices.LoadPreferences(ctx, deps.Repos.SettingsRepository)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, cfg.Admin.Username, prefs, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(deps.Services.User, lgr),
		User:        appControllers.NewUserController(deps.Services.User),
		Student:     appControllers.NewStudentController(deps.Services.Student, deps.Services.Fee),
		Course:      appControllers.NewCourseController(deps.Services.Course),
		Library:     appControllers.NewLibraryController(deps.Services.Library),
		Exchange:    appControllers.NewExchangeController(deps.Services.Exchange, cfg.Exchange.MaxUploadBytes),
		Settings:    appControllers.NewSettingsController(deps.Services.Settings),
		Maintenance: appControllers.NewMaintenanceController(deps.Services.Maintenance, lgr),
	}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	metrics := appMiddleware.NewMetrics(deps.Registry)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr),
		metrics.Middleware(),
	)
	router.MaxMultipartMemory = cfg.Exchange.MaxUploadBytes

	appRoutes.SetupRouter(router,
		deps.Controllers,
		deps.AuthMiddleware,
		metrics,
		deps.DB.Pool.Ping,
		cfg.Admin.Username,
	)

	return router
}
