package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/config"
	"github.com/mamadbah2/station/internal/domain/models"
	"github.com/mamadbah2/station/internal/repository/mongodb"
	"github.com/mamadbah2/station/internal/repository/sheets"
	"github.com/mamadbah2/station/internal/scheduler"
	"github.com/mamadbah2/station/internal/server/handlers"
	"github.com/mamadbah2/station/internal/server/router"
	authsvc "github.com/mamadbah2/station/internal/service/auth"
	"github.com/mamadbah2/station/internal/service/categories"
	notifysvc "github.com/mamadbah2/station/internal/service/notify"
	"github.com/mamadbah2/station/internal/service/records"
	reportingsvc "github.com/mamadbah2/station/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/station/pkg/clients/whatsapp"
	"github.com/mamadbah2/station/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}
	models.SetLocation(loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	registry := categories.NewRegistry(mongoRepo, baseLogger.Named("svc.categories"))
	if err := registry.Load(ctx); err != nil {
		baseLogger.Fatal("failed to load expense categories", zap.Error(err))
	}

	authService, err := authsvc.NewService(authsvc.Credentials{
		Username:     cfg.Auth.Username,
		PasswordHash: cfg.Auth.PasswordHash,
		Secret:       cfg.Auth.JWTSecret,
		TTL:          cfg.Auth.TokenTTL,
	})
	if err != nil {
		baseLogger.Fatal("failed to init auth service", zap.Error(err))
	}

	sales := records.NewSales(mongoRepo.Sales(), loc, baseLogger.Named("svc.sales"))
	inventory := records.NewInventory(mongoRepo.Inventory(), loc, baseLogger.Named("svc.inventory"))
	employees := records.NewEmployees(mongoRepo.Employees(), loc, baseLogger.Named("svc.employees"))
	expenses := records.NewExpenses(mongoRepo.Expenses(), registry, loc, baseLogger.Named("svc.expenses"))

	var mirror reportingsvc.Mirror
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		mirror = sheetsRepo
		baseLogger.Info("google sheets mirror enabled")
	}

	engine := reportingsvc.NewEngine(loc, baseLogger.Named("engine"))
	reportingSvc := reportingsvc.NewService(reportingsvc.Sources{
		Sales:     mongoRepo.Sales(),
		Expenses:  mongoRepo.Expenses(),
		Inventory: mongoRepo.Inventory(),
		Employees: mongoRepo.Employees(),
	}, mongoRepo, mirror, engine, baseLogger.Named("svc.reporting"))

	var notifier scheduler.Notifier
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		notifier = notifysvc.NewService(whatsClient, cfg.WhatsApp.ManagerID, baseLogger.Named("svc.notify"))
		baseLogger.Info("whatsapp daily report enabled")
	} else {
		baseLogger.Warn("whatsapp settings missing, daily report notifications disabled")
	}

	engineHTTP := router.New(cfg.Server, router.Handlers{
		Auth: handlers.NewAuthHandler(authService, baseLogger.Named("handlers.auth")),
		Records: []router.Registrar{
			handlers.NewRecordHandler[models.Sale](sales, baseLogger.Named("handlers.sales")),
			handlers.NewRecordHandler[models.InventoryItem](inventory, baseLogger.Named("handlers.inventory")),
			handlers.NewRecordHandler[models.Employee](employees, baseLogger.Named("handlers.employees")),
			handlers.NewRecordHandler[models.Expense](expenses, baseLogger.Named("handlers.expenses")),
		},
		Categories: handlers.NewCategoryHandler(registry, baseLogger.Named("handlers.categories")),
		Schemas:    handlers.NewSchemaHandler(ctx, registry, baseLogger.Named("handlers.schemas")),
		Reports:    handlers.NewReportHandler(reportingSvc, loc, baseLogger.Named("handlers.reports")),
	}, authService, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, reportingSvc, notifier, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to schedule daily report", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engineHTTP,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
