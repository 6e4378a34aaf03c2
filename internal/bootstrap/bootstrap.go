package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/selimd/campuslink/internal/app/controllers"
	appMigrations "github.com/selimd/campuslink/internal/app/migrations"
	appRepos "github.com/selimd/campuslink/internal/app/repositories"
	appRoutes "github.com/selimd/campuslink/internal/app/routes"
	appServices "github.com/selimd/campuslink/internal/app/services"
	"github.com/selimd/campuslink/internal/config"
	"github.com/selimd/campuslink/internal/db"
	appMiddleware "github.com/selimd/campuslink/internal/middleware"
	pkgAuth "github.com/selimd/campuslink/internal/pkg/auth"
	"github.com/selimd/campuslink/internal/pkg/email"
	"github.com/selimd/campuslink/internal/pkg/helpers"
	"github.com/selimd/campuslink/internal/pkg/logger"
	"github.com/selimd/campuslink/internal/pkg/validation"
	"github.com/selimd/campuslink/internal/pkg/websocket"
	"github.com/selimd/campuslink/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos    *appRepos.Repositories
	Services *appServices.Services

	JWTService   *pkgAuth.JWTService
	EmailService email.EmailService

	AuthController         *appControllers.AuthController
	UserController         *appControllers.UserController
	EventController        *appControllers.EventController
	TeamController         *appControllers.TeamController
	ForumController        *appControllers.ForumController
	AnnouncementController *appControllers.AnnouncementController
	NotificationController *appControllers.NotificationController
	DashboardController    *appControllers.DashboardController

	AuthMiddleware *appMiddleware.AuthMiddleware

	ChatHub        *websocket.Hub
	ChatHandler    *websocket.Handler
	MessageHandler *websocket.MessageHandler

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create default data after migrations; a seed failure should not
	// prevent the server from starting
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// Prune refresh tokens that expired before this start; a failure here
	// is not fatal
	if pruned, err := deps.Repos.TokenRepository.DeleteExpired(context.Background(), time.Now()); err != nil {
		lgr.Warn().Err(err).Msg("Failed to prune expired refresh tokens")
	} else if pruned > 0 {
		lgr.Info().Int64("pruned", pruned).Msg("Expired refresh tokens removed")
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	smtpConfig := email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.Port == 465,
		BaseURL:   cfg.SMTP.BaseURL,
	}
	// Leave the credentials empty when SMTP is disabled so invitation
	// emails are logged instead of sent
	if cfg.SMTP.Enabled {
		smtpConfig.Username = cfg.SMTP.Username
		smtpConfig.Password = cfg.SMTP.Password
	}
	deps.EmailService = email.NewEmailService(smtpConfig, lgr)

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, deps.EmailService, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	if err := validation.RegisterCustomValidators(); err != nil {
		lgr.Error().Err(err).Msg("Failed to register custom validators")
		return nil, fmt.Errorf("failed to register custom validators: %w", err)
	}

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.Services.UserService, lgr)
	deps.EventController = appControllers.NewEventController(deps.Services.EventService, deps.Services.EventTeamService, lgr)
	deps.TeamController = appControllers.NewTeamController(deps.Services.TeamService, lgr)
	deps.ForumController = appControllers.NewForumController(deps.Services.ForumService, lgr)
	deps.AnnouncementController = appControllers.NewAnnouncementController(deps.Services.AnnouncementService, lgr)
	deps.NotificationController = appControllers.NewNotificationController(deps.Services.NotificationService, lgr)
	deps.DashboardController = appControllers.NewDashboardController(deps.Services.DashboardService, lgr)

	// Live team chat: the hub fans messages out to connected members and
	// the message handler persists them
	deps.ChatHub = websocket.NewHub(lgr)
	deps.ChatHandler = websocket.NewHandler(deps.ChatHub, deps.Repos.TeamRepository, lgr)
	deps.MessageHandler = websocket.NewMessageHandler(deps.Repos.TeamRepository, deps.ChatHub, lgr)

	go deps.ChatHub.Run()
	deps.MessageHandler.Start()

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(gin.Recovery())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.EventController,
		deps.TeamController,
		deps.ForumController,
		deps.AnnouncementController,
		deps.NotificationController,
		deps.DashboardController,
		deps.ChatHandler,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
