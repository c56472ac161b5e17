package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/fundease/internal/config"
	"github.com/segyhp/fundease/internal/notify"
	"github.com/segyhp/fundease/internal/repository"
	"github.com/segyhp/fundease/internal/scheduler"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger(os.Stdout).With("component", "scheduler")
	slog.SetDefault(logger)
	logger.Info("starting fund scheduler")

	db, err := sqlx.Connect("postgres", cfg.DatabaseDSN())
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	location := cfg.GetSchedulerLocation()
	reminder := scheduler.NewOverdueReminder(
		repository.NewLoanRepository(db),
		repository.NewNotificationRepository(db),
		redisClient,
		notify.NewRedisPublisher(redisClient, cfg.Business.NotificationChannel),
		location,
		logger,
	)

	s := scheduler.New(location, logger)
	if err := s.Add(cfg.Scheduler.OverdueCron, "overdue-reminders", reminder); err != nil {
		logger.Error("scheduling overdue reminders failed", "spec", cfg.Scheduler.OverdueCron, "error", err)
		os.Exit(1)
	}

	// Start the scheduler
	s.Start()
	logger.Info("scheduler started", "overdue_cron", cfg.Scheduler.OverdueCron, "timezone", location.String())

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down scheduler")
	<-s.Stop().Done()
	logger.Info("scheduler stopped")
}
