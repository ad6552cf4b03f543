package services

import (
	"context"
	"errors"

	pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"
	"github.com/claireundgeorge/accessible-site/internal/modules/persona"
	"github.com/claireundgeorge/accessible-site/internal/platform/apierr"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

type PersonaService interface {
	State(ctx context.Context, visitorID string) persona.Snapshot
	Categories() []pdomain.CategoryInfo
	AnswerNeedsSupport(ctx context.Context, visitorID string, yes bool) (persona.Snapshot, error)
	Back(ctx context.Context, visitorID string) (persona.Snapshot, error)
	SelectCategory(ctx context.Context, visitorID, raw string) (persona.Snapshot, error)
	Reset(ctx context.Context, visitorID string) (persona.Snapshot, error)
}

type personaService struct {
	log      *logger.Logger
	personas *persona.Manager
}

func NewPersonaService(log *logger.Logger, personas *persona.Manager) PersonaService {
	return &personaService{log: log.With("service", "PersonaService"), personas: personas}
}

func (s *personaService) State(ctx context.Context, visitorID string) persona.Snapshot {
	return s.personas.Get(ctx, visitorID).Current()
}

func (s *personaService) Categories() []pdomain.CategoryInfo {
	return pdomain.Infos()
}

func (s *personaService) AnswerNeedsSupport(ctx context.Context, visitorID string, yes bool) (persona.Snapshot, error) {
	snap, err := s.personas.Get(ctx, visitorID).AnswerNeedsSupport(ctx, yes)
	return snap, personaError(err)
}

func (s *personaService) Back(ctx context.Context, visitorID string) (persona.Snapshot, error) {
	snap, err := s.personas.Get(ctx, visitorID).Back(ctx)
	return snap, personaError(err)
}

// SelectCategory accepts any text; unknown values become custom categories
// and "null" resolves to no preference.
func (s *personaService) SelectCategory(ctx context.Context, visitorID, raw string) (persona.Snapshot, error) {
	snap, err := s.personas.Get(ctx, visitorID).SelectCategory(ctx, pdomain.ParseCategory(raw))
	return snap, personaError(err)
}

func (s *personaService) Reset(ctx context.Context, visitorID string) (persona.Snapshot, error) {
	snap, err := s.personas.Get(ctx, visitorID).Reset(ctx)
	return snap, personaError(err)
}

func personaError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persona.ErrTransitionInProgress):
		return apierr.Conflict("transition_in_progress", err)
	case errors.Is(err, persona.ErrInvalidPhase):
		return apierr.Conflict("invalid_phase", err)
	}
	return err
}
