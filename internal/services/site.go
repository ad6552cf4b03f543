package services

import (
	"context"

	pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"
	"github.com/claireundgeorge/accessible-site/internal/modules/adaptation"
	"github.com/claireundgeorge/accessible-site/internal/modules/persona"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

// PageContext is the persona part of every page model.
type PageContext struct {
	Category       pdomain.Category        `json:"category"`
	CategoryName   string                  `json:"category_name,omitempty"`
	Phase          pdomain.Phase           `json:"phase"`
	Transitioning  bool                    `json:"transitioning"`
	ShowAssessment bool                    `json:"show_assessment"`
	Presentation   adaptation.Presentation `json:"presentation"`
}

type HomePage struct {
	Persona PageContext            `json:"persona"`
	Content adaptation.HomeContent `json:"content"`
}

type HotelsPage struct {
	Persona PageContext           `json:"persona"`
	Content adaptation.HotelsView `json:"content"`
}

type ToursPage struct {
	Persona PageContext          `json:"persona"`
	Content adaptation.ToursView `json:"content"`
}

type CareServicesPage struct {
	Persona PageContext                 `json:"persona"`
	Content adaptation.CareServicesView `json:"content"`
}

// SiteService renders the public pages for a visitor. Content is adapted
// on every call from the committed category.
type SiteService interface {
	Home(ctx context.Context, visitorID string) HomePage
	Hotels(ctx context.Context, visitorID string) HotelsPage
	Tours(ctx context.Context, visitorID string) ToursPage
	CareServices(ctx context.Context, visitorID string) CareServicesPage
}

type siteService struct {
	log      *logger.Logger
	personas *persona.Manager
	catalog  *adaptation.Catalog
}

func NewSiteService(log *logger.Logger, personas *persona.Manager, catalog *adaptation.Catalog) SiteService {
	return &siteService{
		log:      log.With("service", "SiteService"),
		personas: personas,
		catalog:  catalog,
	}
}

func (s *siteService) pageContext(ctx context.Context, visitorID string) (PageContext, pdomain.Category) {
	snap := s.personas.Get(ctx, visitorID).Current()
	c := snap.Category()
	pc := PageContext{
		Category:       c,
		Phase:          snap.Phase,
		Transitioning:  snap.Phase == pdomain.PhaseTransitioning,
		ShowAssessment: snap.ShowAssessment,
		Presentation:   adaptation.PresentationFor(c),
	}
	if c != pdomain.None {
		info, _ := pdomain.Info(c)
		pc.CategoryName = info.Name
	}
	return pc, c
}

func (s *siteService) Home(ctx context.Context, visitorID string) HomePage {
	pc, c := s.pageContext(ctx, visitorID)
	return HomePage{Persona: pc, Content: adaptation.Home(c)}
}

func (s *siteService) Hotels(ctx context.Context, visitorID string) HotelsPage {
	pc, c := s.pageContext(ctx, visitorID)
	return HotelsPage{Persona: pc, Content: adaptation.Hotels(c, s.catalog)}
}

func (s *siteService) Tours(ctx context.Context, visitorID string) ToursPage {
	pc, c := s.pageContext(ctx, visitorID)
	return ToursPage{Persona: pc, Content: adaptation.Tours(c, s.catalog)}
}

func (s *siteService) CareServices(ctx context.Context, visitorID string) CareServicesPage {
	pc, c := s.pageContext(ctx, visitorID)
	return CareServicesPage{Persona: pc, Content: adaptation.CareServices(c, s.catalog)}
}
