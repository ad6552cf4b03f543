package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/claireundgeorge/accessible-site/internal/clients/cms"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

type Clients struct {
	Redis goredis.UniversalClient
	CMS   cms.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var rdb goredis.UniversalClient
	if cfg.RedisAddr != "" {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
	}

	backend, err := cms.NewClient(log, cms.ConfigFromEnv(log))
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return Clients{}, fmt.Errorf("init content backend client: %w", err)
	}
	return Clients{Redis: rdb, CMS: backend}, nil
}
