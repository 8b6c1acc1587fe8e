package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/gakkou-tools/kintai/internal/application/service"
	"github.com/gakkou-tools/kintai/internal/config"
	"github.com/gakkou-tools/kintai/internal/infrastructure/persistence/repository"
	"github.com/gakkou-tools/kintai/internal/infrastructure/persistence/sqlite"
	"github.com/gakkou-tools/kintai/internal/infrastructure/storage"
	httpiface "github.com/gakkou-tools/kintai/internal/interfaces/http"
	"github.com/gakkou-tools/kintai/pkg/database"
	"github.com/gakkou-tools/kintai/pkg/utils"
)

func main() {
	// Optional .env for local development.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting work schedule and allowance service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("Failed to load timezone", zap.Error(err))
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Export.OutputDir, 0755); err != nil {
		logger.Fatal("Failed to create export directory", zap.Error(err))
	}

	txManager := sqlite.NewDB(db.DB, logger)
	statusRepo := repository.NewStatusRepository(db.DB, logger)
	scheduleRepo := repository.NewScheduleRepository(db.DB, logger)
	claimRepo := repository.NewClaimRepository(db.DB, logger)
	leaveRepo := repository.NewLeaveRepository(db.DB, logger)
	balanceRepo := repository.NewBalanceRepository(db.DB, logger)
	fileStorage := storage.NewLocalFileStorage(cfg.Export.OutputDir, logger)

	svcLogger := serviceLogger{s: logger.Sugar()}
	clock := service.SystemClock(loc)

	monthlyService := service.NewMonthlyService(statusRepo, txManager, clock, loc, svcLogger)
	dayService := service.NewDayService(scheduleRepo, claimRepo, monthlyService, svcLogger)
	leaveService := service.NewLeaveService(leaveRepo, balanceRepo, txManager, clock, svcLogger)
	exportService := service.NewExportService(scheduleRepo, claimRepo, fileStorage, svcLogger)

	server := httpiface.NewServer(
		httpiface.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		monthlyService,
		dayService,
		leaveService,
		exportService,
		svcLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited")
}

// serviceLogger adapts zap's sugared logger to the application Logger
// interface.
type serviceLogger struct {
	s *zap.SugaredLogger
}

func (l serviceLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l serviceLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}
