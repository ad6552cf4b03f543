package persona

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

// Snapshot is a point-in-time view of one visitor's persona.
type Snapshot struct {
	Profile          pdomain.Profile  `json:"profile"`
	Phase            pdomain.Phase    `json:"phase"`
	Pending          pdomain.Category `json:"pending_category,omitempty"`
	Progress         int              `json:"progress"`
	StepIndex        int              `json:"step_index"`
	Step             string           `json:"step,omitempty"`
	ReturningVisitor bool             `json:"returning_visitor"`
	ShowAssessment   bool             `json:"show_assessment"`
}

// Category is the committed category; pending choices are not visible here.
func (s Snapshot) Category() pdomain.Category { return s.Profile.Category }

type StoreDeps struct {
	Storage  Storage
	Clock    Clock
	Notifier Notifier
	Recorder Recorder
	Log      *logger.Logger
}

// Store holds one visitor's persona. All methods are safe for concurrent use.
type Store struct {
	visitorID string
	cfg       Config
	storage   Storage
	clock     Clock
	notifier  Notifier
	recorder  Recorder
	log       *logger.Logger

	mu          sync.Mutex
	profile     pdomain.Profile
	phase       pdomain.Phase
	pending     pdomain.Category
	startedAt   time.Time
	stepIndex   int
	generation  uint64
	returning   bool
	lastTouched time.Time

	// ioMu orders storage writes to match the order of in-memory mutations.
	ioMu sync.Mutex
}

func NewStore(visitorID string, cfg Config, deps StoreDeps) *Store {
	if deps.Clock == nil {
		deps.Clock = SystemClock()
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &Store{
		visitorID:   visitorID,
		cfg:         cfg.normalized(),
		storage:     deps.Storage,
		clock:       deps.Clock,
		notifier:    deps.Notifier,
		recorder:    deps.Recorder,
		log:         deps.Log.With("component", "PersonaStore", "visitor_id", visitorID),
		profile:     pdomain.DefaultProfile(),
		phase:       pdomain.PhaseUnanswered,
		lastTouched: deps.Clock.Now(),
	}
}

func (s *Store) VisitorID() string { return s.visitorID }

// Load reads the stored persona. Read failures and malformed data fall
// back to the unanswered default. A store mid-transition is left alone.
func (s *Store) Load(ctx context.Context) Snapshot {
	s.mu.Lock()
	if s.phase == pdomain.PhaseTransitioning {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.mu.Unlock()

	ctx, cancel := s.storageCtx(ctx)
	defer cancel()

	profile := pdomain.DefaultProfile()
	if s.cfg.PersistAcrossSessions {
		profile = s.readProfile(ctx)
	} else if s.storage != nil {
		if err := s.storage.Delete(ctx, s.visitorID, pdomain.KeyCategory, pdomain.KeyProfile); err != nil {
			s.log.Warn("Failed to clear session-only persona", "error", err)
		}
	}

	returning := false
	if s.storage != nil {
		_, seen, err := s.storage.Get(ctx, s.visitorID, pdomain.KeyVisited)
		if err != nil {
			s.log.Warn("Failed to read visited marker", "error", err)
		}
		returning = seen
		if !seen {
			if err := s.storage.Set(ctx, s.visitorID, pdomain.KeyVisited, "1"); err != nil {
				s.log.Warn("Failed to write visited marker", "error", err)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == pdomain.PhaseTransitioning {
		return s.snapshotLocked()
	}
	s.profile = profile
	s.phase = pdomain.PhaseUnanswered
	if profile.AssessmentCompleted {
		s.phase = pdomain.PhaseResolved
	}
	s.returning = returning
	s.touchLocked()
	return s.snapshotLocked()
}

// readProfile applies the returning-visitor rule: the category key is
// authoritative, the profile key is consulted only when it is absent.
func (s *Store) readProfile(ctx context.Context) pdomain.Profile {
	if s.storage == nil {
		return pdomain.DefaultProfile()
	}
	raw, ok, err := s.storage.Get(ctx, s.visitorID, pdomain.KeyCategory)
	if err != nil {
		s.log.Warn("Failed to read persona category, using default", "error", err)
		return pdomain.DefaultProfile()
	}
	if ok {
		return pdomain.ResolvedProfile(pdomain.ParseCategory(raw))
	}
	rawProfile, ok, err := s.storage.Get(ctx, s.visitorID, pdomain.KeyProfile)
	if err != nil {
		s.log.Warn("Failed to read persona profile, using default", "error", err)
		return pdomain.DefaultProfile()
	}
	if !ok {
		return pdomain.DefaultProfile()
	}
	p, err := pdomain.DecodeProfile(rawProfile)
	if err != nil {
		s.log.Warn("Stored persona profile is malformed, using default", "error", err)
		return pdomain.DefaultProfile()
	}
	if !p.AssessmentCompleted {
		return pdomain.DefaultProfile()
	}
	return pdomain.ResolvedProfile(p.Category)
}

// AnswerNeedsSupport records the yes/no question. "No" resolves to the
// baseline persona immediately.
func (s *Store) AnswerNeedsSupport(ctx context.Context, yes bool) (Snapshot, error) {
	s.mu.Lock()
	switch s.phase {
	case pdomain.PhaseTransitioning:
		s.mu.Unlock()
		return s.Current(), ErrTransitionInProgress
	case pdomain.PhaseResolved:
		s.mu.Unlock()
		return s.Current(), ErrInvalidPhase
	}
	if yes {
		s.phase = pdomain.PhaseChoosingCategory
		s.touchLocked()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	return s.commitLocked(ctx, pdomain.None), nil
}

// Back returns from the category picker to the yes/no question.
func (s *Store) Back(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case pdomain.PhaseTransitioning:
		return s.snapshotLocked(), ErrTransitionInProgress
	case pdomain.PhaseResolved:
		return s.snapshotLocked(), ErrInvalidPhase
	}
	s.phase = pdomain.PhaseUnanswered
	s.touchLocked()
	return s.snapshotLocked(), nil
}

// SelectCategory records the visitor's choice. A non-empty category only
// becomes visible after the transition duration has elapsed.
func (s *Store) SelectCategory(ctx context.Context, c pdomain.Category) (Snapshot, error) {
	s.mu.Lock()
	if s.phase == pdomain.PhaseTransitioning {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrTransitionInProgress
	}
	if s.phase == pdomain.PhaseResolved && s.profile.Category == c {
		s.touchLocked()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	if c == pdomain.None || s.cfg.TransitionDuration == 0 {
		return s.commitLocked(ctx, c), nil
	}

	s.generation++
	gen := s.generation
	s.phase = pdomain.PhaseTransitioning
	s.pending = c
	s.startedAt = s.clock.Now()
	s.stepIndex = 0
	s.touchLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	d := s.cfg.TransitionDuration
	s.clock.AfterFunc(d/3, func() { s.advanceStep(gen, 1) })
	s.clock.AfterFunc(2*d/3, func() { s.advanceStep(gen, 2) })
	s.clock.AfterFunc(d, func() { s.finishTransition(gen) })

	s.log.Debug("Persona transition started", "category", c.String(), "duration_ms", d.Milliseconds())
	s.notifier.PersonaEvent(Event{Type: EventTransitionStarted, VisitorID: s.visitorID, Snapshot: snap})
	return snap, nil
}

func (s *Store) advanceStep(gen uint64, idx int) {
	s.mu.Lock()
	if s.generation != gen || s.phase != pdomain.PhaseTransitioning || idx <= s.stepIndex {
		s.mu.Unlock()
		return
	}
	s.stepIndex = idx
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notifier.PersonaEvent(Event{Type: EventTransitionStep, VisitorID: s.visitorID, Snapshot: snap})
}

func (s *Store) finishTransition(gen uint64) {
	s.mu.Lock()
	if s.generation != gen || s.phase != pdomain.PhaseTransitioning {
		s.mu.Unlock()
		return
	}
	// Runs off the request path, so it gets its own deadline.
	s.commitLocked(context.Background(), s.pending)
}

// commitLocked resolves the persona to c. It must be called with mu held
// and releases it.
func (s *Store) commitLocked(ctx context.Context, c pdomain.Category) Snapshot {
	profile := pdomain.ResolvedProfile(c)
	s.profile = profile
	s.phase = pdomain.PhaseResolved
	s.pending = pdomain.None
	s.stepIndex = 0
	s.touchLocked()
	snap := s.snapshotLocked()
	s.ioMu.Lock()
	s.mu.Unlock()

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	s.persist(sctx, profile)
	s.ioMu.Unlock()

	if s.recorder != nil {
		if err := s.recorder.RecordChoice(sctx, s.visitorID, profile); err != nil {
			s.log.Warn("Failed to record persona choice", "error", err)
		}
	}

	s.log.Info("Persona committed", "category", c.String(), "custom", c.IsCustom())
	s.notifier.PersonaEvent(Event{Type: EventCommitted, VisitorID: s.visitorID, Snapshot: snap})
	return snap
}

func (s *Store) persist(ctx context.Context, p pdomain.Profile) {
	if s.storage == nil || !s.cfg.PersistAcrossSessions {
		return
	}
	if err := s.storage.Set(ctx, s.visitorID, pdomain.KeyCategory, p.Category.StorageValue()); err != nil {
		s.log.Error("Failed to persist persona category", "error", err)
	}
	b, err := json.Marshal(p)
	if err != nil {
		s.log.Error("Failed to encode persona profile", "error", err)
		return
	}
	if err := s.storage.Set(ctx, s.visitorID, pdomain.KeyProfile, string(b)); err != nil {
		s.log.Error("Failed to persist persona profile", "error", err)
	}
}

// Reset clears the persona back to unanswered. The visited marker stays.
func (s *Store) Reset(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.phase == pdomain.PhaseTransitioning {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrTransitionInProgress
	}
	s.profile = pdomain.DefaultProfile()
	s.phase = pdomain.PhaseUnanswered
	s.pending = pdomain.None
	s.touchLocked()
	snap := s.snapshotLocked()
	s.ioMu.Lock()
	s.mu.Unlock()

	if s.storage != nil {
		sctx, cancel := s.storageCtx(ctx)
		if err := s.storage.Delete(sctx, s.visitorID, pdomain.KeyCategory, pdomain.KeyProfile); err != nil {
			s.log.Error("Failed to clear persona", "error", err)
		}
		cancel()
	}
	s.ioMu.Unlock()

	s.log.Info("Persona reset")
	s.notifier.PersonaEvent(Event{Type: EventReset, VisitorID: s.visitorID, Snapshot: snap})
	return snap, nil
}

// Current returns the live in-memory state without touching storage.
func (s *Store) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Touch marks the store as recently used.
func (s *Store) Touch() {
	s.mu.Lock()
	s.touchLocked()
	s.mu.Unlock()
}

func (s *Store) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTouched, s.phase == pdomain.PhaseTransitioning
}

func (s *Store) touchLocked() { s.lastTouched = s.clock.Now() }

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Profile:          s.profile,
		Phase:            s.phase,
		ReturningVisitor: s.returning,
		ShowAssessment:   s.phase == pdomain.PhaseUnanswered || s.phase == pdomain.PhaseChoosingCategory,
	}
	if s.phase != pdomain.PhaseTransitioning {
		return snap
	}
	snap.Pending = s.pending
	snap.StepIndex = s.stepIndex
	info, _ := pdomain.Info(s.pending)
	snap.Step = info.Steps[s.stepIndex]
	if d := s.cfg.TransitionDuration; d > 0 {
		pct := int(s.clock.Now().Sub(s.startedAt) * 100 / d)
		if pct < 0 {
			pct = 0
		}
		// 100 is reserved for the committed state.
		if pct > 99 {
			pct = 99
		}
		snap.Progress = pct
	}
	return snap
}

func (s *Store) storageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.cfg.StorageTimeout)
}
