package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/claireundgeorge/accessible-site/internal/modules/persona"
	"github.com/claireundgeorge/accessible-site/internal/platform/envutil"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

type StorageMode string

const (
	StorageMemory   StorageMode = "memory"
	StorageRedis    StorageMode = "redis"
	StorageSQLite   StorageMode = "sqlite"
	StoragePostgres StorageMode = "postgres"
)

func ParseStorageMode(raw string) (StorageMode, error) {
	switch m := StorageMode(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return StorageMemory, nil
	case StorageMemory, StorageRedis, StorageSQLite, StoragePostgres:
		return m, nil
	default:
		return "", fmt.Errorf("unknown PERSONA_STORAGE %q (want memory|redis|sqlite|postgres)", raw)
	}
}

type Config struct {
	Port        string
	Environment string
	Version     string

	Storage        StorageMode
	Persona        persona.Config
	IdleTTL        time.Duration
	JanitorEvery   time.Duration
	ChoiceHashSalt string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	RedisTTL      time.Duration
	// SSEBus selects "redis" fan-out across instances; anything else keeps
	// events in this process.
	SSEBus        string
	SSEBusChannel string

	// AnalyticsDB names the database for choice events when persona
	// storage is not already SQL. Empty disables analytics.
	AnalyticsDB string

	AllowOrigins  []string
	SecureCookies bool
}

func LoadConfig(log *logger.Logger) (Config, error) {
	mode, err := ParseStorageMode(envutil.String("PERSONA_STORAGE", string(StorageMemory), log))
	if err != nil {
		return Config{}, err
	}

	pcfg := persona.DefaultConfig()
	pcfg.PersistAcrossSessions = envutil.Bool("PERSONA_PERSIST", pcfg.PersistAcrossSessions, log)
	pcfg.TransitionDuration = envutil.Duration("PERSONA_TRANSITION_MS", pcfg.TransitionDuration, time.Millisecond, log)

	cfg := Config{
		Port:        envutil.String("PORT", "8080", log),
		Environment: envutil.String("APP_ENV", "development", log),
		Version:     envutil.String("APP_VERSION", "dev", log),

		Storage:        mode,
		Persona:        pcfg,
		IdleTTL:        envutil.Duration("PERSONA_IDLE_TTL_SECONDS", 30*time.Minute, time.Second, log),
		JanitorEvery:   envutil.Duration("PERSONA_JANITOR_SECONDS", time.Minute, time.Second, log),
		ChoiceHashSalt: envutil.String("LOG_HASH_SALT", "", log),

		RedisAddr:     envutil.String("REDIS_ADDR", "", log),
		RedisPassword: envutil.String("REDIS_PASSWORD", "", log),
		RedisDB:       envutil.Int("REDIS_DB", 0, log),
		RedisPrefix:   envutil.String("REDIS_PREFIX", "cg:persona", log),
		RedisTTL:      envutil.Duration("REDIS_TTL_SECONDS", 0, time.Second, log),
		SSEBus:        strings.ToLower(envutil.String("SSE_BUS", "local", log)),
		SSEBusChannel: envutil.String("SSE_BUS_CHANNEL", "cg:sse", log),

		AnalyticsDB: strings.ToLower(envutil.String("ANALYTICS_DB", "", log)),

		AllowOrigins:  envutil.List("CORS_ALLOW_ORIGINS", nil, log),
		SecureCookies: envutil.Bool("COOKIE_SECURE", false, log),
	}
	if cfg.Storage == StorageRedis && cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("PERSONA_STORAGE=redis requires REDIS_ADDR")
	}
	if cfg.SSEBus == "redis" && cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("SSE_BUS=redis requires REDIS_ADDR")
	}
	switch cfg.AnalyticsDB {
	case "", string(StorageSQLite), string(StoragePostgres):
	default:
		return Config{}, fmt.Errorf("unknown ANALYTICS_DB %q (want sqlite|postgres)", cfg.AnalyticsDB)
	}
	return cfg, nil
}

// databaseDriver picks the SQL database to open, if any. SQL persona
// storage and analytics share one connection.
func (c Config) databaseDriver() string {
	switch c.Storage {
	case StorageSQLite, StoragePostgres:
		return string(c.Storage)
	}
	return c.AnalyticsDB
}
