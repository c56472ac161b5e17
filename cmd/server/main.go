package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/fundease/internal/config"
	"github.com/segyhp/fundease/internal/handler"
	"github.com/segyhp/fundease/internal/middleware"
	"github.com/segyhp/fundease/internal/notify"
	"github.com/segyhp/fundease/internal/repository"
	"github.com/segyhp/fundease/internal/service"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	deps := service.Deps{
		UoW:       repository.NewUnitOfWork(db),
		Repos:     repository.NewRepos(db),
		Publisher: notify.NewRedisPublisher(redisClient, cfg.Business.NotificationChannel),
		Logger:    logger,
		Clock:     time.Now,
	}

	loanService := service.NewLoanService(deps, cfg.GetDefaultInterestRate())
	repaymentService := service.NewRepaymentService(deps, cfg.GetBalancePolicy())
	ledgerService := service.NewLedgerService(deps)
	memberService := service.NewMemberService(deps)
	reportService := service.NewReportService(repository.NewReportRepository(db), deps.Repos.Members, time.Now)

	router := handler.NewRouter(handler.Handlers{
		Health:  handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout()),
		Loans:   handler.NewLoanHandler(loanService, repaymentService),
		Ledger:  handler.NewLedgerHandler(ledgerService),
		Members: handler.NewMemberHandler(memberService),
		Reports: handler.NewReportHandler(reportService),
	}, middleware.NewIdempotency(redisClient, cfg.GetIdempotencyTTL(), logger), logger)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting",
			"addr", server.Addr,
			"balance_policy", cfg.GetBalancePolicy(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
