package app

import (
	"github.com/claireundgeorge/accessible-site/internal/data/db"
	"github.com/claireundgeorge/accessible-site/internal/data/repos"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

type Repos struct {
	// ChoiceEvents is nil when no database is configured.
	ChoiceEvents repos.ChoiceEventRepo
}

func wireRepos(database *db.Service, log *logger.Logger) Repos {
	if database == nil {
		log.Info("No database configured; persona choice analytics disabled")
		return Repos{}
	}
	log.Info("Wiring repos...")
	return Repos{ChoiceEvents: repos.NewChoiceEventRepo(database.DB(), log)}
}
