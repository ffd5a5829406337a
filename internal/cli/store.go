package cli

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/terraincognita07/lunacycle/internal/config"
	"github.com/terraincognita07/lunacycle/internal/db"
	"github.com/terraincognita07/lunacycle/internal/redisstore"
	"github.com/terraincognita07/lunacycle/internal/services"
)

// openDocumentStore builds the configured backend. The returned close func
// releases whatever connection the backend holds.
func openDocumentStore(ctx context.Context, cfg *config.Config) (services.DocumentStore, func() error, error) {
	switch cfg.Store {
	case config.StoreRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := redisstore.NewStore(redisClient)
		if err := store.Ping(ctx); err != nil {
			_ = redisClient.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		log.Infof("using redis document store at %s", cfg.RedisAddr)
		return store, redisClient.Close, nil

	default:
		database, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("database init failed: %w", err)
		}
		log.Infof("using sqlite document store at %s", cfg.DBPath)
		return db.NewRepositories(database).Documents, func() error { return db.Close(database) }, nil
	}
}

func newPeriodService(cfg *config.Config, documents services.DocumentStore, options ...services.PeriodServiceOption) *services.PeriodService {
	options = append(options, services.WithStoreOptions(services.WithMergeAdjacent(cfg.MergeAdjacentPeriods)))
	if cacheBytes := cfg.PredictionCacheBytes(); cacheBytes > 0 {
		options = append(options, services.WithPredictionCache(cacheBytes))
	}
	return services.NewPeriodService(documents, options...)
}
