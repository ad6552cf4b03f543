package persona

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"
	"github.com/claireundgeorge/accessible-site/internal/pkg/dbctx"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

type CategoryCount struct {
	Category string `gorm:"column:category" json:"category"`
	Count    int64  `gorm:"column:total" json:"count"`
}

type ChoiceEventRepo interface {
	Create(dbc dbctx.Context, events []*pdomain.ChoiceEvent) ([]*pdomain.ChoiceEvent, error)
	CountByCategory(dbc dbctx.Context, since time.Time) ([]CategoryCount, error)
	ListRecent(dbc dbctx.Context, limit int) ([]*pdomain.ChoiceEvent, error)
}

type choiceEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChoiceEventRepo(db *gorm.DB, baseLog *logger.Logger) ChoiceEventRepo {
	repoLog := baseLog.With("repo", "ChoiceEventRepo")
	return &choiceEventRepo{db: db, log: repoLog}
}

func (r *choiceEventRepo) Create(dbc dbctx.Context, events []*pdomain.ChoiceEvent) ([]*pdomain.ChoiceEvent, error) {
	if len(events) == 0 {
		return []*pdomain.ChoiceEvent{}, nil
	}
	if err := dbc.DB(r.db).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// CountByCategory groups choices made at or after since. Declined choices
// are reported under "none", custom ones under "custom".
func (r *choiceEventRepo) CountByCategory(dbc dbctx.Context, since time.Time) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := dbc.DB(r.db).
		Model(&pdomain.ChoiceEvent{}).
		Select("CASE WHEN custom THEN 'custom' WHEN category = '' THEN 'none' ELSE category END AS category, COUNT(*) AS total").
		Where("created_at >= ?", since.UTC()).
		Group("1").
		Order("total DESC, category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []CategoryCount{}
	}
	return rows, nil
}

func (r *choiceEventRepo) ListRecent(dbc dbctx.Context, limit int) ([]*pdomain.ChoiceEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	var results []*pdomain.ChoiceEvent
	if err := dbc.DB(r.db).Order("created_at DESC").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// NewChoiceEvent builds the record for a committed profile. The visitor id
// is salted and hashed before it reaches the table.
func NewChoiceEvent(visitorID, salt string, p pdomain.Profile) *pdomain.ChoiceEvent {
	h := sha256.Sum256([]byte(salt + visitorID))
	payload, _ := json.Marshal(p)
	return &pdomain.ChoiceEvent{
		VisitorHash:   hex.EncodeToString(h[:16]),
		Category:      string(p.Category),
		Custom:        p.Category.IsCustom(),
		HasDisability: p.HasDisability != nil && *p.HasDisability,
		Payload:       datatypes.JSON(payload),
		CreatedAt:     time.Now().UTC(),
	}
}
