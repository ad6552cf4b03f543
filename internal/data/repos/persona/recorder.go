package persona

import (
	"context"

	pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"
	"github.com/claireundgeorge/accessible-site/internal/pkg/dbctx"
)

// Recorder writes committed persona choices through a ChoiceEventRepo.
type Recorder struct {
	Repo ChoiceEventRepo
	Salt string
}

func (r Recorder) RecordChoice(ctx context.Context, visitorID string, p pdomain.Profile) error {
	_, err := r.Repo.Create(dbctx.Context{Ctx: ctx}, []*pdomain.ChoiceEvent{NewChoiceEvent(visitorID, r.Salt, p)})
	return err
}
