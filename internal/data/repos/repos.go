package repos

import (
	"gorm.io/gorm"

	"github.com/claireundgeorge/accessible-site/internal/data/repos/persona"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

type ChoiceEventRepo = persona.ChoiceEventRepo
type CategoryCount = persona.CategoryCount

func NewChoiceEventRepo(db *gorm.DB, baseLog *logger.Logger) ChoiceEventRepo {
	return persona.NewChoiceEventRepo(db, baseLog)
}
