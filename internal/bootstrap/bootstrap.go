package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/studentrecords/internal/app/auth"
	appControllers "github.com/yigit/studentrecords/internal/app/controllers"
	appMigrations "github.com/yigit/studentrecords/internal/app/migrations"
	appRepos "github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/app/repositories/memory"
	appRoutes "github.com/yigit/studentrecords/internal/app/routes"
	appServices "github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/db"
	appMiddleware "github.com/yigit/studentrecords/internal/middleware"
	pkgAuth "github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/logger"
	"github.com/yigit/studentrecords/internal/pkg/sessionstore"
	"github.com/yigit/studentrecords/internal/seed"
	"github.com/yigit/studentrecords/internal/web"
)

// DefaultConfigPath is read when no other path is given
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	JWTService     *pkgAuth.JWTService
	SessionStore   sessionstore.Store
	SessionManager *appAuth.SessionManager
	AuthMiddleware *appMiddleware.AuthMiddleware

	AuthController      *appControllers.AuthController
	DashboardController *appControllers.DashboardController
	StudentController   *appControllers.StudentController
	CourseController    *appControllers.CourseController
	GradeController     *appControllers.GradeController
	AdminController     *appControllers.AdminController
	HealthController    *appControllers.HealthController

	Logger zerolog.Logger
}

// Infrastructure holds the external connections, nil when not configured
type Infrastructure struct {
	Database *db.PostgresDB
	Redis    *redis.Client
}

// Close releases every open connection
func (i *Infrastructure) Close() {
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if i.Database != nil {
		i.Database.Close()
	}
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

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupInfrastructure opens the database (running migrations) and redis when the config asks for them.
func SetupInfrastructure(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{}

	if cfg.Database.Driver == config.DriverPostgres {
		database, err := SetupDatabase(ctx, cfg, lgr)
		if err != nil {
			return nil, err
		}
		infra.Database = database
	} else {
		lgr.Warn().Msg("Using in-memory storage, records are lost on restart")
	}

	if cfg.Session.Store == config.StoreRedis {
		client, err := SetupRedis(ctx, cfg, lgr)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.Redis = client
	}

	return infra, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, appMigrations.Files())
	if err := migrator.Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// SetupRedis connects to the redis server backing the session store.
func SetupRedis(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis")
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection successfully established.")
	return client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, infra *Infrastructure, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	pingers := map[string]appControllers.Pinger{}

	if infra.Database != nil {
		deps.Repos = appRepos.NewRepositories(infra.Database.Pool)
		pingers["database"] = infra.Database
	} else {
		deps.Repos = memory.NewRepositories(memory.NewStore())
	}

	if infra.Redis != nil {
		deps.SessionStore = sessionstore.NewRedisStore(infra.Redis)
		client := infra.Redis
		pingers["redis"] = appControllers.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	} else {
		deps.SessionStore = sessionstore.NewMemoryStore()
	}

	deps.Services = appServices.NewServices(deps.Repos, cfg.Session.BcryptCost, logger.WithField("component", "services"))

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.Secret,
		SessionExp:  helpers.ParseDuration(cfg.Session.Lifetime, 336*time.Hour),
		TokenIssuer: cfg.Session.Issuer,
	})
	deps.SessionManager = appAuth.NewSessionManager(deps.JWTService, deps.SessionStore, deps.Repos.UserRepository)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.SessionManager, appMiddleware.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.SecureCookie,
	})

	svc := deps.Services
	deps.AuthController = appControllers.NewAuthController(svc.AuthService, deps.AuthMiddleware)
	deps.DashboardController = appControllers.NewDashboardController(svc.DashboardService)
	deps.StudentController = appControllers.NewStudentController(svc.StudentService, svc.CourseService)
	deps.CourseController = appControllers.NewCourseController(svc.CourseService)
	deps.GradeController = appControllers.NewGradeController(svc.GradeService, svc.StudentService, svc.CourseService)
	deps.AdminController = appControllers.NewAdminController(svc.AdminService)
	deps.HealthController = appControllers.NewHealthController(pingers)

	return deps, nil
}

// SeedData creates the configured admin account and demo courses.
// Errors are logged and do not stop the startup.
func SeedData(ctx context.Context, cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) {
	err := seed.CreateDefaultData(ctx, deps.Services, seed.Options{
		AdminUsername: cfg.Seed.AdminUsername,
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		DemoCourses:   cfg.Seed.DemoCourses,
	}, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with templates, middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), appMiddleware.Recovery())
	router.SetHTMLTemplate(templates)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.DashboardController,
		deps.StudentController,
		deps.CourseController,
		deps.GradeController,
		deps.AdminController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	return router, nil
}
