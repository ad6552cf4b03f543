package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/claireundgeorge/accessible-site/internal/data/db"
	"github.com/claireundgeorge/accessible-site/internal/pkg/dbctx"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

// SQL stores persona entries in the persona_entry table (postgres or
// sqlite through gorm).
type SQL struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSQL(gdb *gorm.DB, baseLog *logger.Logger) *SQL {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &SQL{db: gdb, log: baseLog.With("store", "SQLPersonaStore")}
}

func (s *SQL) Get(ctx context.Context, visitorID, key string) (string, bool, error) {
	var row db.Entry
	err := dbctx.Context{Ctx: ctx}.DB(s.db).
		Where("visitor_id = ? AND storage_key = ?", visitorID, key).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select persona entry: %w", err)
	}
	return row.Value, true, nil
}

func (s *SQL) Set(ctx context.Context, visitorID, key, value string) error {
	row := db.Entry{VisitorID: visitorID, Key: key, Value: value, UpdatedAt: time.Now().UnixMilli()}
	upsert := func() error {
		return dbctx.Context{Ctx: ctx}.DB(s.db).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "visitor_id"}, {Name: "storage_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).
			Create(&row).Error
	}
	err := upsert()
	if err != nil && IsTransient(err) && ctx.Err() == nil {
		s.log.Warn("Transient persona write failure, retrying once", "error", err)
		err = upsert()
	}
	if err != nil {
		return fmt.Errorf("upsert persona entry: %w", err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, visitorID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := dbctx.Context{Ctx: ctx}.DB(s.db).
		Where("visitor_id = ? AND storage_key IN ?", visitorID, keys).
		Delete(&db.Entry{}).Error
	if err != nil {
		return fmt.Errorf("delete persona entries: %w", err)
	}
	return nil
}

// IsTransient reports postgres failures worth one retry: lost
// connections, serialization failures and deadlocks.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch {
	case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08":
		return true
	case pgErr.Code == "40001", pgErr.Code == "40P01":
		return true
	}
	return false
}
