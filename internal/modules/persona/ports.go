package persona

import (
	"context"
	"errors"

	pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"
)

var (
	ErrTransitionInProgress = errors.New("persona transition in progress")
	ErrInvalidPhase         = errors.New("operation not allowed in current assessment phase")
)

// Storage is a string key/value namespace per visitor. Get reports false
// when the key is absent.
type Storage interface {
	Get(ctx context.Context, visitorID, key string) (string, bool, error)
	Set(ctx context.Context, visitorID, key, value string) error
	Delete(ctx context.Context, visitorID string, keys ...string) error
}

type EventType string

const (
	EventTransitionStarted EventType = "PersonaTransitionStarted"
	EventTransitionStep    EventType = "PersonaTransitionStep"
	EventCommitted         EventType = "PersonaCommitted"
	EventReset             EventType = "PersonaReset"
)

type Event struct {
	Type      EventType
	VisitorID string
	Snapshot  Snapshot
}

type Notifier interface {
	PersonaEvent(ev Event)
}

type NotifierFunc func(ev Event)

func (f NotifierFunc) PersonaEvent(ev Event) { f(ev) }

// Recorder receives committed choices. Errors are logged by the store.
type Recorder interface {
	RecordChoice(ctx context.Context, visitorID string, p pdomain.Profile) error
}

type nopNotifier struct{}

func (nopNotifier) PersonaEvent(Event) {}
