package db

import (
	"gorm.io/gorm"

	pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"
)

// Entry is one persona storage key for one visitor.
type Entry struct {
	VisitorID string `gorm:"column:visitor_id;primaryKey;size:64"`
	Key       string `gorm:"column:storage_key;primaryKey;size:64"`
	Value     string `gorm:"column:value;type:text;not null"`
	UpdatedAt int64  `gorm:"column:updated_at;autoUpdateTime:milli;index"`
}

func (Entry) TableName() string { return "persona_entry" }

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&Entry{},
		&pdomain.ChoiceEvent{},
	)
}
