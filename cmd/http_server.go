package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusworks/complaint-management/internal"
	"github.com/campusworks/complaint-management/internal/activity"
	activitypg "github.com/campusworks/complaint-management/internal/activity/postgres"
	"github.com/campusworks/complaint-management/internal/auth"
	authpg "github.com/campusworks/complaint-management/internal/auth/postgres"
	"github.com/campusworks/complaint-management/internal/complaint"
	complaintpg "github.com/campusworks/complaint-management/internal/complaint/postgres"
	"github.com/campusworks/complaint-management/internal/core/events"
	"github.com/campusworks/complaint-management/internal/department"
	"github.com/campusworks/complaint-management/internal/stats"
	statspg "github.com/campusworks/complaint-management/internal/stats/postgres"
	"github.com/campusworks/complaint-management/internal/transport"
	"github.com/campusworks/complaint-management/internal/transport/rest"
	"github.com/campusworks/complaint-management/internal/user"
	userpg "github.com/campusworks/complaint-management/internal/user/postgres"
	"github.com/campusworks/complaint-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *gorm.DB
	SQLDB  *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down...", "signal", sig.String())
		ctx, cancel := internal.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.SQLDB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) error {
	lg := deps.Logger
	eventBus := events.NewEventBus(lg)

	// Activity ledger subscribes before any publisher can emit.
	activityRepo := activitypg.NewActivityRepository(deps.DB)
	activityService := activity.NewService(activityRepo, lg)
	activityService.RegisterHandlers(eventBus)

	tokenGen := auth.NewJWTTokenGenerator(deps.Config.Security.JWTSecret, deps.Config.Security.TokenDuration)
	authService := auth.NewService(authpg.NewRepository(deps.DB), tokenGen, eventBus, lg)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userpg.NewUserRepository(deps.DB), eventBus, deps.Config.Security.BCryptCost, lg)
	userHandler := user.NewHandler(userService)

	photos, err := complaint.NewPhotoStore(deps.Config.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("photo store: %w", err)
	}
	complaintService := complaint.NewService(complaintpg.NewComplaintRepository(deps.DB), activityService, eventBus, lg)
	complaintHandler := complaint.NewHandler(complaintService, photos)

	statsService := stats.NewService(statspg.NewStatsRepository(deps.DB), activityService, lg)
	statsHandler := stats.NewHandler(statsService)

	departmentHandler := department.NewHandler(transport.NewBaseHandler(lg))

	rbac := auth.NewRBACAuthorization(lg)

	rest.RegisterAllRoutes(
		deps.Router,
		deps.SQLDB,
		authHandler,
		userHandler,
		complaintHandler,
		statsHandler,
		departmentHandler,
		rbac,
		deps.Config.Uploads.Dir,
		lg,
	)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format, config.Logging.Level)
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}

	db, sqlDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		SQLDB:  sqlDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the gorm handle for the configured dialect and wraps the
// underlying pool in sqlx for the health checks. Both share one pool.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sqlx.DB, error) {
	var dialector gorm.Dialector
	driverName := "pgx"
	switch cfg.Driver {
	case "postgres":
		dialector = gormpostgres.Open(cfg.Source)
	case "sqlite":
		dialector = gormsqlite.Open(cfg.Source)
		driverName = "sqlite3"
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, sqlx.NewDb(sqlDB, driverName), nil
}
