package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/config"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/hrdata"
	appHTTP "github.com/cmlabs-hris/smallbiz-hr-backend/internal/handler/http"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/cron"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/database"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/sse"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/repository/memory"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/smallbiz-hr-backend/internal/service/employee"
	notificationService "github.com/cmlabs-hris/smallbiz-hr-backend/internal/service/notification"
	payrollService "github.com/cmlabs-hris/smallbiz-hr-backend/internal/service/payroll"
	scheduleService "github.com/cmlabs-hris/smallbiz-hr-backend/internal/service/schedule"
	timeclockService "github.com/cmlabs-hris/smallbiz-hr-backend/internal/service/timeclock"
	timeoffService "github.com/cmlabs-hris/smallbiz-hr-backend/internal/service/timeoff"
	"github.com/go-chi/httplog/v3"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "smallbiz-hr"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data, closeData, err := openDataService(ctx, cfg, loc, logger)
	if err != nil {
		return err
	}
	defer closeData()

	hub := sse.NewHub(64)
	dispatcher := notificationService.NewDispatcher(hub, logger, notificationService.Config{
		WorkerCount: cfg.Notification.Workers,
		QueueSize:   cfg.Notification.QueueSize,
	})
	defer dispatcher.Stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	employeeSvc := employeeService.NewEmployeeService(data, logger)
	scheduleSvc := scheduleService.NewScheduleService(data, data, data, dispatcher, logger, loc)
	timeclockSvc := timeclockService.NewTimeClockService(data, data, data, dispatcher, logger, loc)
	timeoffSvc := timeoffService.NewTimeOffService(data, data, dispatcher, logger)
	payrollSvc := payrollService.NewPayrollService(data, data, data, dispatcher, logger, payrollService.Config{
		PeriodDays:      cfg.Payroll.PeriodDays,
		AnchorDate:      cfg.Payroll.AnchorDate,
		DeductionRate:   cfg.Payroll.DeductionRate,
		WeeklyThreshold: cfg.Payroll.WeeklyThreshold,
	}, loc)

	scheduler := cron.NewScheduler(logger)
	cron.NewHRJobs(data, payrollSvc, scheduleSvc, logger).RegisterJobs(scheduler, cfg.Cron.Interval)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(logger, JWTService, appHTTP.Handlers{
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Schedule:     appHTTP.NewScheduleHandler(scheduleSvc),
		TimeClock:    appHTTP.NewTimeClockHandler(timeclockSvc),
		TimeOff:      appHTTP.NewTimeOffHandler(timeoffSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Notification: appHTTP.NewNotificationHandler(dispatcher, JWTService),
	}, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "backend", cfg.App.DataBackend, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// openDataService picks the HR data backend named by DATA_BACKEND.
func openDataService(ctx context.Context, cfg *config.Config, loc *time.Location, logger *slog.Logger) (hrdata.Service, func(), error) {
	switch cfg.App.DataBackend {
	case config.BackendPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
			MaxConns:        cfg.Database.MaxConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to database: %w", err)
		}
		store := postgresql.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("using postgres HR data service", "host", cfg.Database.Host, "database", cfg.Database.Name)
		return store, db.Close, nil

	default:
		store := memory.NewStore()
		seed := store.Seed(cfg.App.MockBusinessID, time.Now().In(loc))
		logger.Info("using in-memory HR data service",
			"business_id", seed.BusinessID,
			"owner_id", seed.OwnerID,
			"manager_id", seed.ManagerID,
			"staff", len(seed.StaffIDs),
		)
		return store, func() {}, nil
	}
}
