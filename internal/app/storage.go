package app

import (
	"fmt"

	"github.com/claireundgeorge/accessible-site/internal/data/db"
	"github.com/claireundgeorge/accessible-site/internal/data/kv"
	"github.com/claireundgeorge/accessible-site/internal/modules/persona"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

func openDatabase(log *logger.Logger, cfg Config) (*db.Service, error) {
	driver := cfg.databaseDriver()
	if driver == "" {
		return nil, nil
	}
	return db.NewService(log, db.Driver(driver))
}

// wireStorage picks the persona storage backend named by PERSONA_STORAGE.
func wireStorage(log *logger.Logger, cfg Config, clients Clients, database *db.Service) (persona.Storage, error) {
	switch cfg.Storage {
	case StorageMemory:
		log.Warn("Persona storage is in-memory; choices are lost on restart")
		return kv.NewMemory(), nil
	case StorageRedis:
		if clients.Redis == nil {
			return nil, fmt.Errorf("redis persona storage: no redis client")
		}
		return kv.NewRedis(clients.Redis, cfg.RedisPrefix, cfg.RedisTTL), nil
	case StorageSQLite, StoragePostgres:
		if database == nil {
			return nil, fmt.Errorf("%s persona storage: database not opened", cfg.Storage)
		}
		return kv.NewSQL(database.DB(), log), nil
	}
	return nil, fmt.Errorf("unknown persona storage %q", cfg.Storage)
}
