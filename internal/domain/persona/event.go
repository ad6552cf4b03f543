package persona

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChoiceEvent is one committed persona choice, kept for the CMS dashboard.
// VisitorHash is a salted hash, never the raw visitor cookie.
type ChoiceEvent struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	VisitorHash   string         `gorm:"column:visitor_hash;index;not null" json:"visitor_hash"`
	Category      string         `gorm:"column:category;index" json:"category"`
	Custom        bool           `gorm:"column:custom;not null;default:false" json:"custom"`
	HasDisability bool           `gorm:"column:has_disability;not null" json:"has_disability"`
	Payload       datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	CreatedAt     time.Time      `gorm:"not null;index" json:"created_at"`
}

func (ChoiceEvent) TableName() string { return "persona_choice_event" }

func (e *ChoiceEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
