// Package bootstrap builds the stores, clients and services shared by the
// server and the operator CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"socialautomator/internal/auth"
	"socialautomator/internal/cache"
	"socialautomator/internal/config"
	"socialautomator/internal/database"
	"socialautomator/internal/events"
	"socialautomator/internal/mockdata"
	"socialautomator/internal/models"
	"socialautomator/internal/observability"
	"socialautomator/internal/repository"
	"socialautomator/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// Now anchors the generated mock data. Zero means time.Now.
	Now time.Time
	// SkipRedis runs without Redis even when REDIS_URL is set.
	SkipRedis bool
}

// Runtime is the wired application state for one process.
type Runtime struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Dataset *mockdata.Dataset

	Users         repository.UserRepository
	Posts         repository.PostRepository
	Notifications repository.NotificationRepository
	ManagedUsers  repository.ManagedUserRepository
	Settings      repository.SettingsRepository
	Activity      repository.ActivityRepository

	Emitter *events.Emitter
	Gate    *auth.Gate

	PostService      *service.PostService
	AnalyticsService *service.AnalyticsService
	AdminService     *service.AdminService
}

// InitRuntime generates the mock dataset and wires every store and service for cfg.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	observability.Config.EnableRepoLogging = cfg.EnableRepoLogging

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	rt := &Runtime{
		Config:  cfg,
		Dataset: mockdata.Generate(now, cfg.MockSeed),
	}

	if cfg.RedisURL != "" && !opts.SkipRedis {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			// Redis is optional; fall back to in-process stores.
			observability.GlobalLogger.WarnContext(ctx, "redis unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			rt.Redis = client
		}
	}

	if err := rt.initPosts(ctx); err != nil {
		rt.Close()
		return nil, err
	}

	publisher, err := newPublisher(cfg, rt.Redis)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Emitter = events.NewEmitter(publisher)

	ds := rt.Dataset
	rt.Users = repository.NewUserRepository(ds.Users)
	rt.Notifications = repository.NewNotificationRepository(ds.Notifications)
	rt.ManagedUsers = repository.NewManagedUserRepository(ds.ManagedUsers)
	rt.Settings = repository.NewSettingsRepository(models.DefaultSystemSettings())
	rt.Activity = repository.NewActivityRepository(ds.Activity, repository.DefaultActivityLimit)

	var revoked auth.RevocationStore = auth.NewMemoryRevocations()
	if rt.Redis != nil {
		revoked = auth.NewRedisRevocations(rt.Redis)
	}
	rt.Gate = auth.NewGate(rt.Users, auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL), revoked, cfg.LoginDelay)

	rt.PostService = service.NewPostService(rt.Posts, rt.Activity, rt.Emitter, loc)
	analyticsCache := cache.New(rt.Redis)
	// The dataset is regenerated per process; an overview cached by an earlier process is stale.
	analyticsCache.Invalidate(ctx, cache.AnalyticsOverviewKey)
	rt.AnalyticsService = service.NewAnalyticsService(ds.Analytics, ds.Timeline, rt.Posts, analyticsCache, cfg.AnalyticsCacheTTL)
	rt.AdminService = service.NewAdminService(rt.ManagedUsers, rt.Settings, rt.Activity, rt.Emitter)

	return rt, nil
}

func (rt *Runtime) initPosts(ctx context.Context) error {
	if rt.Config.StoreDriver == config.StoreMemory {
		rt.Posts = repository.NewMemoryPostRepository(rt.Dataset.Posts)
		return nil
	}

	db, err := database.Connect(rt.Config)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	rt.DB = db
	if err := database.SeedPosts(ctx, db, rt.Dataset.Posts); err != nil {
		return err
	}
	rt.Posts = repository.NewPostRepository(db)
	return nil
}

func newPublisher(cfg *config.Config, rdb *redis.Client) (events.Publisher, error) {
	switch cfg.EventsDriver {
	case config.EventsKafka:
		writer := events.NewKafkaWriter(events.KafkaConfig{
			Brokers: cfg.Brokers(),
			Topic:   cfg.KafkaTopic,
		})
		return events.NewKafkaPublisher(writer), nil
	case config.EventsRedis:
		if rdb == nil {
			return nil, errors.New("EVENTS_DRIVER=redis requires a reachable REDIS_URL")
		}
		return events.NewRedisPublisher(rdb, cfg.RedisEventsChannel), nil
	default:
		return events.Nop{}, nil
	}
}

// Close releases the event publisher, database and Redis connections.
func (rt *Runtime) Close() {
	if rt.Emitter != nil {
		if err := rt.Emitter.Close(); err != nil {
			observability.GlobalLogger.Warn("error closing event publisher", slog.String("error", err.Error()))
		}
	}
	if rt.DB != nil {
		if sqlDB, err := rt.DB.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				observability.GlobalLogger.Warn("error closing sql DB", slog.String("error", cerr.Error()))
			}
		}
	}
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			observability.GlobalLogger.Warn("error closing redis", slog.String("error", err.Error()))
		}
	}
}
