package app

import (
	"fmt"

	prepo "github.com/claireundgeorge/accessible-site/internal/data/repos/persona"
	"github.com/claireundgeorge/accessible-site/internal/modules/adaptation"
	"github.com/claireundgeorge/accessible-site/internal/modules/persona"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
	"github.com/claireundgeorge/accessible-site/internal/services"
)

type Services struct {
	Personas *persona.Manager
	Persona  services.PersonaService
	Site     services.SiteService
	CMS      services.CMSService
	Auth     services.AuthService
}

func wireServices(log *logger.Logger, cfg Config, storage persona.Storage, clients Clients, reposet Repos, rt Realtime) (Services, error) {
	log.Info("Wiring services...")

	deps := persona.StoreDeps{
		Storage:  storage,
		Notifier: services.PersonaNotifier{Emitter: rt.Emitter},
		Log:      log,
	}
	if reposet.ChoiceEvents != nil {
		deps.Recorder = prepo.Recorder{Repo: reposet.ChoiceEvents, Salt: cfg.ChoiceHashSalt}
	}
	manager := persona.NewManager(cfg.Persona, deps)

	authCfg, err := services.AuthConfigFromEnv(log)
	if err != nil {
		return Services{}, fmt.Errorf("auth config: %w", err)
	}

	return Services{
		Personas: manager,
		Persona:  services.NewPersonaService(log, manager),
		Site:     services.NewSiteService(log, manager, adaptation.LoadCatalog(log)),
		CMS:      services.NewCMSService(log, clients.CMS, reposet.ChoiceEvents),
		Auth:     services.NewAuthService(log, authCfg),
	}, nil
}
