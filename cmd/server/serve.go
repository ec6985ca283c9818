package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/habit-tracker/internal/config"
	"github.com/iliyamo/habit-tracker/internal/database"
	"github.com/iliyamo/habit-tracker/internal/handler"
	"github.com/iliyamo/habit-tracker/internal/middleware"
	"github.com/iliyamo/habit-tracker/internal/queue"
	"github.com/iliyamo/habit-tracker/internal/router"
	"github.com/iliyamo/habit-tracker/internal/service"
	"github.com/iliyamo/habit-tracker/internal/utils"
)

type ServeCmd struct {
	ShutdownTimeout time.Duration `help:"Grace period for in-flight requests on shutdown." default:"10s"`
}

func (c ServeCmd) Run(app *appContext) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, l := app.Config, app.Logger
	if cfg.AutoMigrate {
		if err := database.MigrateUp(cfg.DB, l); err != nil {
			return err
		}
	}
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	var rdb *redis.Client
	rl, err := config.LoadRateLimitConfig()
	if err != nil {
		return err
	}
	if rl.Enabled {
		rc, err := config.LoadRedisConfig()
		if err != nil {
			return err
		}
		if rdb, err = config.NewRedisClient(ctx, rc); err != nil {
			l.Warn("redis unavailable, rate limiting disabled", "addr", rc.Address(), "err", err)
		} else {
			defer rdb.Close()
		}
	}

	e := newServer(cfg, db, rl, rdb, l)
	addr := ":" + cfg.Port

	errCh := make(chan error, 1)
	go func() {
		l.Info("listening", "addr", addr, "env", cfg.Env, "driver", cfg.DB.Driver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newServer wires services, handlers and middleware onto a fresh echo
// instance.  rdb may be nil.
func newServer(cfg config.Config, db *sqlx.DB, rl config.RateLimitConfig, rdb *redis.Client, l *log.Logger) *echo.Echo {
	var events service.EventPublisher = queue.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		events = queue.NewRabbitPublisher(cfg.RabbitMQURL, cfg.EventsQueue, l.With("component", "events"))
	}

	users := service.NewUserService(db, utils.NewPasswordHasher(cfg.BcryptCost), l)
	habits := service.NewHabitService(db, l)
	assignments := service.NewAssignmentService(db, l)
	completions := service.NewCompletedDateService(db, events, l)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover(), middleware.RequestID(), middleware.RequestLogger(l))

	router.RegisterRoutes(e, db)
	router.RegisterAPI(e, router.Handlers{
		Users:          handler.NewUserHandler(users, l, cfg.RequestTimeout),
		Habits:         handler.NewHabitHandler(habits, l, cfg.RequestTimeout),
		Assignments:    handler.NewAssignmentHandler(assignments, l, cfg.RequestTimeout),
		CompletedDates: handler.NewCompletedDateHandler(completions, l, cfg.RequestTimeout),
	}, middleware.NewTokenBucket(rl, rdb, l))
	return e
}
