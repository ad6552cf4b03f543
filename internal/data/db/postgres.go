package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/claireundgeorge/accessible-site/internal/platform/envutil"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

type Service struct {
	db     *gorm.DB
	driver Driver
	log    *logger.Logger
}

// NewService opens the database selected by driver, configured from the
// environment, and migrates the persona tables.
func NewService(logg *logger.Logger, driver Driver) (*Service, error) {
	serviceLog := logg.With("service", "DatabaseService", "driver", string(driver))

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(postgresDSN(logg))
	case DriverSQLite:
		dialector = sqlite.Open(envutil.String("SQLITE_PATH", "accessible-site.db", logg))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	if err := AutoMigrateAll(db); err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", driver, err)
	}
	serviceLog.Info("Database ready")
	return &Service{db: db, driver: driver, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func postgresDSN(logg *logger.Logger) string {
	if dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN")); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		envutil.String("POSTGRES_USER", "postgres", logg),
		envutil.String("POSTGRES_PASSWORD", "", logg),
		envutil.String("POSTGRES_HOST", "localhost", logg),
		envutil.String("POSTGRES_PORT", "5432", logg),
		envutil.String("POSTGRES_NAME", "accessible_site", logg),
		envutil.String("POSTGRES_SSLMODE", "disable", logg),
	)
}
