package persona

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"
)

type fakeTimer struct {
	at      time.Time
	seq     int
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{at: c.now.Add(d), seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward, firing due timers in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()
	for {
		c.mu.Lock()
		sort.SliceStable(c.timers, func(i, j int) bool {
			if c.timers[i].at.Equal(c.timers[j].at) {
				return c.timers[i].seq < c.timers[j].seq
			}
			return c.timers[i].at.Before(c.timers[j].at)
		})
		if len(c.timers) == 0 || c.timers[0].at.After(target) {
			c.now = target
			c.mu.Unlock()
			return
		}
		next := c.timers[0]
		c.timers = c.timers[1:]
		c.now = next.at
		c.mu.Unlock()
		if !next.stopped {
			next.fn()
		}
	}
}

type mapStorage struct {
	mu       sync.Mutex
	data     map[string]map[string]string
	failSet  bool
	failGet  bool
	setCalls int
}

func newMapStorage() *mapStorage {
	return &mapStorage{data: map[string]map[string]string{}}
}

func (m *mapStorage) Get(_ context.Context, visitorID, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return "", false, errors.New("read failed")
	}
	v, ok := m.data[visitorID][key]
	return v, ok, nil
}

func (m *mapStorage) Set(_ context.Context, visitorID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.failSet {
		return errors.New("write failed")
	}
	if m.data[visitorID] == nil {
		m.data[visitorID] = map[string]string{}
	}
	m.data[visitorID][key] = value
	return nil
}

func (m *mapStorage) Delete(_ context.Context, visitorID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data[visitorID], k)
	}
	return nil
}

func (m *mapStorage) value(visitorID, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[visitorID][key]
	return v, ok
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) PersonaEvent(ev Event) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *eventLog) types() []EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]EventType, 0, len(l.events))
	for _, ev := range l.events {
		out = append(out, ev.Type)
	}
	return out
}

type recorded struct {
	visitorID string
	category  pdomain.Category
}

type fakeRecorder struct {
	mu   sync.Mutex
	got  []recorded
	fail bool
}

func (r *fakeRecorder) RecordChoice(_ context.Context, visitorID string, p pdomain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("insert failed")
	}
	r.got = append(r.got, recorded{visitorID, p.Category})
	return nil
}

func newTestStore(t *testing.T, cfg Config) (*Store, *mapStorage, *fakeClock, *eventLog) {
	t.Helper()
	storage := newMapStorage()
	clock := newFakeClock()
	events := &eventLog{}
	s := NewStore("visitor-1", cfg, StoreDeps{Storage: storage, Clock: clock, Notifier: events})
	return s, storage, clock, events
}

func TestFreshVisitorDeclines(t *testing.T) {
	s, storage, _, _ := newTestStore(t, DefaultConfig())
	snap := s.Load(context.Background())
	if snap.Phase != pdomain.PhaseUnanswered || !snap.ShowAssessment || snap.ReturningVisitor {
		t.Fatalf("fresh load: got=%+v", snap)
	}
	if snap.Profile.HasDisability != nil || snap.Profile.AssessmentCompleted {
		t.Fatalf("fresh profile should be unanswered: %+v", snap.Profile)
	}

	snap, err := s.AnswerNeedsSupport(context.Background(), false)
	if err != nil {
		t.Fatalf("AnswerNeedsSupport: %v", err)
	}
	if snap.Category() != pdomain.None || !snap.Profile.AssessmentCompleted || snap.ShowAssessment {
		t.Fatalf("declined: got=%+v", snap)
	}
	if v, _ := storage.value("visitor-1", pdomain.KeyCategory); v != pdomain.NullSentinel {
		t.Fatalf("stored category: want=%q got=%q", pdomain.NullSentinel, v)
	}
}

func TestReturningVisitorWithNullSentinelSkipsAssessment(t *testing.T) {
	s, storage, _, _ := newTestStore(t, DefaultConfig())
	_ = storage.Set(context.Background(), "visitor-1", pdomain.KeyCategory, "null")
	_ = storage.Set(context.Background(), "visitor-1", pdomain.KeyVisited, "1")

	snap := s.Load(context.Background())
	if snap.Category() != pdomain.None || !snap.Profile.AssessmentCompleted {
		t.Fatalf("load: got=%+v", snap.Profile)
	}
	if snap.ShowAssessment || snap.Phase != pdomain.PhaseResolved || !snap.ReturningVisitor {
		t.Fatalf("load: got=%+v", snap)
	}
}

func TestTransitionDelaysCommit(t *testing.T) {
	s, storage, clock, events := newTestStore(t, DefaultConfig())
	s.Load(context.Background())
	if _, err := s.AnswerNeedsSupport(context.Background(), true); err != nil {
		t.Fatalf("AnswerNeedsSupport: %v", err)
	}

	snap, err := s.SelectCategory(context.Background(), pdomain.Wheelchair)
	if err != nil {
		t.Fatalf("SelectCategory: %v", err)
	}
	if snap.Phase != pdomain.PhaseTransitioning || snap.Pending != pdomain.Wheelchair {
		t.Fatalf("after select: got=%+v", snap)
	}
	if s.Current().Category() != pdomain.None {
		t.Fatalf("category visible before transition elapsed")
	}
	if snap.Step != "Scanning accessibility features..." {
		t.Fatalf("first step: got=%q", snap.Step)
	}
	if _, ok := storage.value("visitor-1", pdomain.KeyCategory); ok {
		t.Fatalf("category persisted before commit")
	}

	clock.Advance(1500 * time.Millisecond)
	mid := s.Current()
	if mid.StepIndex != 1 || mid.Step != "Optimizing for mobility access..." || mid.Progress != 50 {
		t.Fatalf("mid transition: got=%+v", mid)
	}
	if mid.Category() != pdomain.None {
		t.Fatalf("category visible mid transition")
	}

	clock.Advance(1499 * time.Millisecond)
	if s.Current().Phase != pdomain.PhaseTransitioning {
		t.Fatalf("committed early")
	}

	clock.Advance(time.Millisecond)
	done := s.Current()
	if done.Phase != pdomain.PhaseResolved || done.Category() != pdomain.Wheelchair {
		t.Fatalf("after transition: got=%+v", done)
	}
	if !done.Profile.Preferences.KeyboardNavigation || done.Progress != 0 || done.Step != "" {
		t.Fatalf("after transition: got=%+v", done)
	}
	if v, _ := storage.value("visitor-1", pdomain.KeyCategory); v != "wheelchair" {
		t.Fatalf("stored category: got=%q", v)
	}
	if raw, _ := storage.value("visitor-1", pdomain.KeyProfile); raw == "" {
		t.Fatalf("profile not persisted")
	}

	want := []EventType{EventTransitionStarted, EventTransitionStep, EventTransitionStep, EventCommitted}
	got := events.types()
	if len(got) != len(want) {
		t.Fatalf("events: want=%v got=%v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events: want=%v got=%v", want, got)
		}
	}
}

func TestTransitionRejectsMutations(t *testing.T) {
	s, _, clock, _ := newTestStore(t, DefaultConfig())
	s.Load(context.Background())
	if _, err := s.SelectCategory(context.Background(), pdomain.Dyslexia); err != nil {
		t.Fatalf("SelectCategory: %v", err)
	}

	ctx := context.Background()
	if _, err := s.SelectCategory(ctx, pdomain.Anxiety); !errors.Is(err, ErrTransitionInProgress) {
		t.Fatalf("SelectCategory during transition: err=%v", err)
	}
	if _, err := s.Reset(ctx); !errors.Is(err, ErrTransitionInProgress) {
		t.Fatalf("Reset during transition: err=%v", err)
	}
	if _, err := s.Back(ctx); !errors.Is(err, ErrTransitionInProgress) {
		t.Fatalf("Back during transition: err=%v", err)
	}
	if _, err := s.AnswerNeedsSupport(ctx, false); !errors.Is(err, ErrTransitionInProgress) {
		t.Fatalf("AnswerNeedsSupport during transition: err=%v", err)
	}

	clock.Advance(DefaultTransitionDuration)
	if got := s.Current().Category(); got != pdomain.Dyslexia {
		t.Fatalf("original choice should commit: got=%q", got)
	}
}

func TestSelectSameCategoryIsIdempotent(t *testing.T) {
	s, storage, clock, events := newTestStore(t, DefaultConfig())
	s.Load(context.Background())
	_, _ = s.SelectCategory(context.Background(), pdomain.LowVision)
	clock.Advance(DefaultTransitionDuration)
	first, _ := storage.value("visitor-1", pdomain.KeyProfile)
	before := len(events.types())

	snap, err := s.SelectCategory(context.Background(), pdomain.LowVision)
	if err != nil {
		t.Fatalf("second select: %v", err)
	}
	if snap.Phase != pdomain.PhaseResolved || snap.Category() != pdomain.LowVision {
		t.Fatalf("second select: got=%+v", snap)
	}
	second, _ := storage.value("visitor-1", pdomain.KeyProfile)
	if first != second {
		t.Fatalf("persisted state changed: %q vs %q", first, second)
	}
	if len(events.types()) != before {
		t.Fatalf("second select emitted events")
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	s, storage, _, events := newTestStore(t, Config{PersistAcrossSessions: true})
	s.Load(context.Background())
	if _, err := s.SelectCategory(context.Background(), pdomain.Cognitive); err != nil {
		t.Fatalf("SelectCategory: %v", err)
	}
	if s.Current().Category() != pdomain.Cognitive {
		t.Fatalf("zero duration should commit synchronously")
	}

	snap, err := s.Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if snap.Category() != pdomain.None || snap.Profile.AssessmentCompleted || !snap.ShowAssessment {
		t.Fatalf("after reset: got=%+v", snap)
	}
	if _, ok := storage.value("visitor-1", pdomain.KeyCategory); ok {
		t.Fatalf("category key should be cleared")
	}
	if _, ok := storage.value("visitor-1", pdomain.KeyVisited); !ok {
		t.Fatalf("visited marker should survive reset")
	}

	reloaded := NewStore("visitor-1", Config{PersistAcrossSessions: true}, StoreDeps{Storage: storage, Clock: newFakeClock()})
	again := reloaded.Load(context.Background())
	if again.Phase != pdomain.PhaseUnanswered || !again.ReturningVisitor {
		t.Fatalf("reload after reset: got=%+v", again)
	}

	got := events.types()
	if got[len(got)-1] != EventReset {
		t.Fatalf("last event: got=%v", got)
	}
}

func TestMalformedProfileFallsBackToDefault(t *testing.T) {
	s, storage, _, _ := newTestStore(t, DefaultConfig())
	_ = storage.Set(context.Background(), "visitor-1", pdomain.KeyProfile, "{broken")
	snap := s.Load(context.Background())
	if snap.Phase != pdomain.PhaseUnanswered || snap.Profile.AssessmentCompleted {
		t.Fatalf("malformed profile: got=%+v", snap)
	}
}

func TestProfileKeyUsedWhenCategoryKeyMissing(t *testing.T) {
	s, storage, _, _ := newTestStore(t, DefaultConfig())
	_ = storage.Set(context.Background(), "visitor-1", pdomain.KeyProfile,
		`{"hasDisability":true,"disabilityType":"hearing","assessmentCompleted":true}`)
	snap := s.Load(context.Background())
	if snap.Category() != pdomain.Hearing || snap.Phase != pdomain.PhaseResolved {
		t.Fatalf("profile fallback: got=%+v", snap)
	}
}

func TestStorageReadFailureFallsBackToDefault(t *testing.T) {
	s, storage, _, _ := newTestStore(t, DefaultConfig())
	storage.failGet = true
	snap := s.Load(context.Background())
	if snap.Phase != pdomain.PhaseUnanswered {
		t.Fatalf("read failure: got=%+v", snap)
	}
}

func TestStorageWriteFailureStillAdvances(t *testing.T) {
	s, storage, _, _ := newTestStore(t, Config{PersistAcrossSessions: true})
	s.Load(context.Background())
	storage.failSet = true
	snap, err := s.SelectCategory(context.Background(), pdomain.Anxiety)
	if err != nil {
		t.Fatalf("SelectCategory: %v", err)
	}
	if snap.Category() != pdomain.Anxiety {
		t.Fatalf("in-memory state should advance: got=%+v", snap)
	}
}

func TestSessionOnlyModeNeverPersists(t *testing.T) {
	storage := newMapStorage()
	_ = storage.Set(context.Background(), "visitor-1", pdomain.KeyCategory, "wheelchair")
	s := NewStore("visitor-1", Config{PersistAcrossSessions: false}, StoreDeps{Storage: storage, Clock: newFakeClock()})

	snap := s.Load(context.Background())
	if snap.Phase != pdomain.PhaseUnanswered {
		t.Fatalf("session-only load should force assessment: got=%+v", snap)
	}
	if _, ok := storage.value("visitor-1", pdomain.KeyCategory); ok {
		t.Fatalf("session-only load should clear stored category")
	}

	if _, err := s.SelectCategory(context.Background(), pdomain.Hearing); err != nil {
		t.Fatalf("SelectCategory: %v", err)
	}
	if s.Current().Category() != pdomain.Hearing {
		t.Fatalf("choice should apply in memory")
	}
	if _, ok := storage.value("visitor-1", pdomain.KeyCategory); ok {
		t.Fatalf("session-only mode wrote the category")
	}
}

func TestCustomCategoryRoundTrips(t *testing.T) {
	s, storage, _, _ := newTestStore(t, Config{PersistAcrossSessions: true})
	s.Load(context.Background())
	custom := pdomain.ParseCategory("  chronic fatigue ")
	if _, err := s.SelectCategory(context.Background(), custom); err != nil {
		t.Fatalf("SelectCategory: %v", err)
	}
	if v, _ := storage.value("visitor-1", pdomain.KeyCategory); v != "chronic fatigue" {
		t.Fatalf("stored custom: got=%q", v)
	}
	reloaded := NewStore("visitor-1", Config{PersistAcrossSessions: true}, StoreDeps{Storage: storage})
	if got := reloaded.Load(context.Background()).Category(); got != custom {
		t.Fatalf("reloaded custom: got=%q", got)
	}
}

func TestBackAndPhaseGuards(t *testing.T) {
	s, _, _, _ := newTestStore(t, Config{PersistAcrossSessions: true})
	s.Load(context.Background())
	if _, err := s.AnswerNeedsSupport(context.Background(), true); err != nil {
		t.Fatalf("AnswerNeedsSupport: %v", err)
	}
	snap, err := s.Back(context.Background())
	if err != nil || snap.Phase != pdomain.PhaseUnanswered {
		t.Fatalf("Back: snap=%+v err=%v", snap, err)
	}
	_, _ = s.AnswerNeedsSupport(context.Background(), false)
	if _, err := s.AnswerNeedsSupport(context.Background(), true); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("answer after resolve: err=%v", err)
	}
	if _, err := s.Back(context.Background()); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("back after resolve: err=%v", err)
	}
}

func TestRecorderReceivesCommits(t *testing.T) {
	rec := &fakeRecorder{}
	s := NewStore("visitor-9", Config{PersistAcrossSessions: true}, StoreDeps{Storage: newMapStorage(), Recorder: rec})
	s.Load(context.Background())
	_, _ = s.SelectCategory(context.Background(), pdomain.Dyslexia)
	if len(rec.got) != 1 || rec.got[0].category != pdomain.Dyslexia || rec.got[0].visitorID != "visitor-9" {
		t.Fatalf("recorder: got=%+v", rec.got)
	}

	rec.fail = true
	if _, err := s.SelectCategory(context.Background(), pdomain.Anxiety); err != nil {
		t.Fatalf("recorder failure must not surface: %v", err)
	}
}
