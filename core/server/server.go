package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"mentor-scheduler/core/cache"
	"mentor-scheduler/core/config"
	"mentor-scheduler/core/constants"
	"mentor-scheduler/core/database"
	"mentor-scheduler/core/logger"
	"mentor-scheduler/core/middleware"
	"mentor-scheduler/core/queue"
	"mentor-scheduler/core/storage"
	"mentor-scheduler/modules/calendar"
	"mentor-scheduler/modules/class"
	"mentor-scheduler/modules/event"
	eventService "mentor-scheduler/modules/event/service"
	"mentor-scheduler/modules/feed"
	feedService "mentor-scheduler/modules/feed/service"
	"mentor-scheduler/modules/notification"
	"mentor-scheduler/modules/role"
	roleMiddleware "mentor-scheduler/modules/role/middleware"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run serves the HTTP API until ctx is cancelled, then drains in-flight
// requests for up to constants.ShutdownTimeout.
func Run(ctx context.Context, cfg *config.Config) error {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLogger())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	classSvc := class.NewService(db)
	roleSvc := role.NewService(db, cache.NewModeStore(redisClient, cfg.Redis.ModeTTL), classSvc)

	v1 := e.Group("/api/v1")
	public := v1.Group("/public")
	private := v1.Group("/private",
		middleware.NewMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer).AuthMiddleware(),
		roleMiddleware.Resolve(roleSvc),
	)

	notifSvc := notification.NewService(db)
	var notifier eventService.Notifier = notifSvc
	if cfg.Queue.Enabled {
		client := queue.NewClient(queue.RedisOpt(cfg.Redis), cfg.Queue.MaxRetry)
		defer client.Close()
		notifier = client
	}

	eventSvc := event.NewService(db, roleSvc, classSvc, notifier)
	calendarSvc := calendar.Init(private, db, eventSvc, roleSvc)
	event.Init(private, eventSvc)
	notification.Init(private, notifSvc)
	role.Init(private, roleSvc)
	class.Init(private, classSvc)

	var store feedService.ObjectStore
	if cfg.Storage.Bucket != "" {
		s3, err := storage.NewS3Storage(storage.S3Config{
			Bucket:          cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UsePathStyle:    cfg.Storage.UsePathStyle,
		})
		if err != nil {
			return err
		}
		store = s3
	} else {
		logger.Info("Server:Storage:Skipped", "reason", "storage.bucket not configured")
	}
	feed.Init(public, private, calendarSvc, eventSvc, store, cfg.Storage.FeedPrefix, cfg.Server.PublicURL)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", "addr", addr, "queue", cfg.Queue.Enabled)
		if err := e.Start(addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server:Shutdown", err)
		return err
	}
	return nil
}
