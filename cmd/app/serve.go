package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifequest/config"
	"lifequest/internal/analytics"
	"lifequest/internal/application/usecase"
	"lifequest/internal/dates"
	"lifequest/internal/gamification"
	"lifequest/internal/infrastructure/cache"
	"lifequest/internal/infrastructure/database"
	"lifequest/internal/infrastructure/repository"
	"lifequest/internal/infrastructure/security"
	"lifequest/internal/logger"
	"lifequest/internal/middleware"
	grpc_server "lifequest/internal/transport/grpc"
	handlers "lifequest/internal/transport/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := cfg.RequireSecrets(); err != nil {
			return err
		}
		if !cfg.Debug {
			gin.SetMode(gin.ReleaseMode)
		}

		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer rdb.Close()
		if err := rdb.Ping(cmd.Context()).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("connected to redis", "addr", cfg.RedisAddr)

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}
		cal, err := newCalendar(cfg)
		if err != nil {
			return err
		}

		store := repository.NewStore(db)
		authUC := usecase.NewAuthUseCase(
			store,
			cache.NewTokenCache(rdb),
			security.NewPasswordHasher(),
			security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret),
		)
		habitUC := usecase.NewHabitUseCase(store, engine, cal)
		taskUC := usecase.NewTaskUseCase(store, engine)
		journalUC := usecase.NewJournalUseCase(store, engine, cal)
		analyticsUC := usecase.NewAnalyticsUseCase(store, analytics.New(cal), cfg.AnalyticsDefaultDays, cfg.AnalyticsMaxDays)

		router := handlers.NewRouter(handlers.RouterDeps{
			Auth:           handlers.NewAuthHandler(authUC, !cfg.Debug),
			Habits:         handlers.NewHabitHandler(habitUC),
			Tasks:          handlers.NewTaskHandler(taskUC),
			Journals:       handlers.NewJournalHandler(journalUC, analyticsUC, cal.Location()),
			Analytics:      handlers.NewAnalyticsHandler(analyticsUC),
			Tokens:         authUC,
			Limiter:        middleware.NewRateLimiter(rdb),
			AllowedOrigins: cfg.AllowedOrigins,
		})
		httpServer := &http.Server{
			Addr:              cfg.HTTPPort,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}

		grpcServer := grpc_server.NewServer(grpc_server.NewAnalyticsServer(analyticsUC), authUC)
		lis, err := net.Listen("tcp", cfg.GRPCPort)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.GRPCPort, err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("HTTP server running", "addr", cfg.HTTPPort)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			logger.Info("gRPC server running", "addr", cfg.GRPCPort)
			return grpcServer.Serve(lis)
		})
		g.Go(func() error {
			if err := database.Ping(db); err != nil {
				logger.Warn("database not reachable, gRPC health stays NOT_SERVING", "err", err)
				return nil
			}
			grpcServer.SetServing(true)
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down servers")
			grpcServer.SetServing(false)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			err := httpServer.Shutdown(shutdownCtx)
			grpcServer.GracefulStop()
			return err
		})

		return g.Wait()
	},
}

func newEngine(cfg config.Config) (*gamification.Engine, error) {
	if cfg.BadgeRulesPath == "" {
		return gamification.NewDefaultEngine(), nil
	}
	rules, err := gamification.LoadRules(cfg.BadgeRulesPath)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded badge rules", "path", cfg.BadgeRulesPath)
	return gamification.NewEngine(rules)
}

func newCalendar(cfg config.Config) (dates.Calendar, error) {
	loc, err := cfg.Location()
	if err != nil {
		return dates.Calendar{}, err
	}
	return dates.NewCalendar(loc), nil
}
