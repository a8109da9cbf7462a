// Package server boots the Pent-Shop backend: configuration, Mongo,
// Redis, storage, the notification queue, the HTTP API and the gRPC
// health endpoint, then blocks until shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pentshop/pentshop/app/jobs"
	"github.com/pentshop/pentshop/app/repositories"
	"github.com/pentshop/pentshop/app/routes"
	"github.com/pentshop/pentshop/app/services"
	"github.com/pentshop/pentshop/config"
	"github.com/pentshop/pentshop/pkg/cache"
	"github.com/pentshop/pentshop/pkg/database"
	"github.com/pentshop/pentshop/pkg/grpcserver"
	"github.com/pentshop/pentshop/pkg/logger"
	"github.com/pentshop/pentshop/pkg/notification"
	"github.com/pentshop/pentshop/pkg/queue"
	"github.com/pentshop/pentshop/pkg/schedule"
	"github.com/pentshop/pentshop/pkg/storage"
	"github.com/pentshop/pentshop/pkg/whatsapp"
)

const shutdownTimeout = 10 * time.Second

// Start boots every subsystem and serves until SIGINT or SIGTERM.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.Load(); err != nil {
		return err
	}

	if err := Bootstrap(ctx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background()) //nolint:errcheck

	queue.StartWorkers(ctx, 4)

	r := routes.Build()

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcSrv, lis, err := grpcserver.Start(config.GRPCPort())
	if err != nil {
		logger.Warn("grpc: not started", "error", err)
	} else {
		go func() {
			if err := grpcSrv.Serve(lis); err != nil {
				logger.Error("grpc: serve failed", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if grpcSrv != nil {
		grpcserver.Stop(grpcSrv)
	}
	return httpSrv.Shutdown(shutdownCtx)
}

// Bootstrap connects the backing stores and wires the ambient
// singletons. Shared by the server and the queue worker command.
func Bootstrap(ctx context.Context) error {
	if uri := config.MongoURI(); uri != "" {
		if _, err := logger.UseMongo(uri, config.MongoDB(), "logs"); err != nil {
			logger.Warn("logger: mongo handler unavailable", "error", err)
		}
	}

	if err := database.Connect(ctx); err != nil {
		return err
	}
	if err := database.EnsureIndexes(ctx); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis: unavailable, caching disabled", "error", err)
	}

	storage.Connect()

	notification.UseWhatsApp(whatsapp.New(
		config.WhatsAppToken(),
		config.WhatsAppPhoneNumberID(),
		config.SMSGatewayAccount(),
		config.SMSGatewayToken(),
		config.SMSGatewayFrom(),
	))

	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	if dsn := config.FailedJobsDSN(); dsn != "" {
		if err := queue.UseSQLite(dsn); err != nil {
			logger.Warn("queue: dead-letter store unavailable", "error", err)
		}
	}
	jobs.RegisterAll()

	authSvc := services.NewAuthService(repositories.NewUserRepository())
	if err := authSvc.EnsureAdmin(ctx); err != nil {
		logger.Warn("auth: admin seed failed", "error", err)
	}

	posts := repositories.NewPostRepository()
	schedule.EveryMinute().Name("posts.publish").WithoutOverlapping().Run(func() {
		taskCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := posts.PublishDue(taskCtx, time.Now().UTC())
		if err != nil {
			logger.Error("posts: scheduled publish failed", "error", err)
			return
		}
		if n > 0 {
			logger.Info("posts: scheduled posts published", "count", n)
		}
	})
	schedule.Start(ctx)

	return nil
}
