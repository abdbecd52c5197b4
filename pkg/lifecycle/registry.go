package lifecycle

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

// State is the position of a Registry in its start sequence.
type State int

const (
	StateUninitialized State = iota
	StateStarting
	StateStarted
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateStarting:
		return "starting"
	case StateStarted:
		return "started"
	default:
		return "unknown"
	}
}

// Registry collects participants and runs the start and stop phases.
//
// A Registry is not safe for concurrent use. Register, Start and Stop are expected
// to be called from one lifecycle goroutine; callers that need more must synchronize.
type Registry struct {
	participants           []Participant
	registeredViaInjection bool
	initialized            bool
	discovered             bool
	state                  State
	stopped                bool

	debug    bool
	naming   Naming
	scanner  Scanner
	logger   *slog.Logger
	observer Observer
	runID    string
}

// Option configures a Registry.
type Option func(*Registry)

// WithScanner replaces the scan path source. The default scans DefaultCatalog.
func WithScanner(scanner Scanner) Option {
	return func(r *Registry) {
		if scanner != nil {
			r.scanner = scanner
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDebug toggles verbose discovery logging.
func WithDebug(debug bool) Option {
	return func(r *Registry) {
		r.debug = debug
	}
}

// WithObserver installs an observer for discovery and hook events.
func WithObserver(observer Observer) Option {
	return func(r *Registry) {
		if observer != nil {
			r.observer = observer
		}
	}
}

// WithNaming sets the naming the scan path matches against. It must equal the
// naming lifecyclegen used.
func WithNaming(naming Naming) Option {
	return func(r *Registry) {
		r.naming = naming
	}
}

// WithConfig applies a Config loaded from the environment.
func WithConfig(cfg Config) Option {
	return func(r *Registry) {
		r.debug = cfg.Debug
		r.naming = cfg.Naming()
	}
}

// New creates a Registry in the uninitialized state.
func New(opts ...Option) *Registry {
	r := &Registry{
		naming:   DefaultNaming(),
		scanner:  NewCatalogScanner(DefaultCatalog),
		logger:   slog.Default(),
		observer: nopObserver{},
		state:    StateUninitialized,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetDebug toggles verbose discovery logging.
func (r *Registry) SetDebug(debug bool) {
	r.debug = debug
}

// Debug reports whether verbose discovery logging is on.
func (r *Registry) Debug() bool {
	return r.debug
}

// Register adds a participant through the injection path. Once any participant
// has been registered, the scan path is skipped for this registry.
func (r *Registry) Register(p Participant) error {
	if p == nil {
		return ErrNilParticipant
	}
	if r.discovered {
		return ErrRegistryClosed
	}
	r.registeredViaInjection = true
	r.participants = append(r.participants, p)
	if r.debug {
		r.trace("participant registered", "participant", Name(p), "priority", p.Priority())
	}
	return nil
}

// RegisterAll registers each participant in order and stops at the first error.
func (r *Registry) RegisterAll(participants ...Participant) error {
	for _, p := range participants {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Start runs discovery once, sorts participants by descending priority and calls
// OnStart on each in order. Calls after the first are no-ops. The first hook error
// aborts the phase and is returned as a *HookError.
func (r *Registry) Start(ctx context.Context) error {
	if r.initialized {
		return nil
	}
	r.initialized = true
	r.state = StateStarting
	r.runID = uuid.NewString()

	r.discover()
	r.sortParticipants()

	for _, p := range r.participants {
		if err := r.invoke(PhaseStart, p, func() error { return p.OnStart(ctx) }); err != nil {
			return err
		}
	}

	r.state = StateStarted
	r.logger.Info("lifecycle started", "run_id", r.runID, "participants", len(r.participants))
	return nil
}

// Stop calls OnStop on every participant in start order. It is not idempotent:
// each call repeats every hook. The first hook error aborts the phase.
func (r *Registry) Stop() error {
	if !r.initialized {
		return ErrNotStarted
	}

	for _, p := range r.participants {
		if err := r.invoke(PhaseStop, p, p.OnStop); err != nil {
			return err
		}
	}

	r.stopped = true
	r.logger.Info("lifecycle stopped", "run_id", r.runID, "participants", len(r.participants))
	return nil
}

// Participants returns the participants in their current order.
func (r *Registry) Participants() []Participant {
	return append([]Participant(nil), r.participants...)
}

// State returns the start state.
func (r *Registry) State() State {
	return r.state
}

// Stopped reports whether a stop phase has completed.
func (r *Registry) Stopped() bool {
	return r.stopped
}

// RegisteredViaInjection reports whether the injection path was used.
func (r *Registry) RegisteredViaInjection() bool {
	return r.registeredViaInjection
}

func (r *Registry) discover() {
	r.discovered = true

	if r.registeredViaInjection {
		r.logger.Debug("participants registered by injection, skipping scan",
			"run_id", r.runID, "count", len(r.participants))
		r.observer.Discovered(StrategyInjection, len(r.participants), nil)
		return
	}

	r.trace("scanning namespace for participants", "run_id", r.runID, "naming", r.naming.String())

	var skipped []error
	for _, candidate := range r.scanner.Scan(r.naming) {
		r.trace("scan candidate", "run_id", r.runID, "name", candidate.Name)

		p, err := instantiate(candidate)
		if err != nil {
			r.logger.Warn("skipping scan candidate", "run_id", r.runID, "name", candidate.Name, "error", err)
			skipped = append(skipped, err)
			continue
		}
		r.participants = append(r.participants, p)
	}

	r.observer.Discovered(StrategyScan, len(r.participants), skipped)
}

func (r *Registry) sortParticipants() {
	type ranked struct {
		participant Participant
		priority    int
	}

	entries := make([]ranked, len(r.participants))
	for i, p := range r.participants {
		priority := p.Priority()
		if clamped := clampPriority(priority); clamped != priority {
			r.logger.Warn("participant priority out of range, clamping",
				"participant", Name(p), "priority", priority, "min", MinPriority, "max", MaxPriority)
			priority = clamped
		}
		entries[i] = ranked{participant: p, priority: priority}
	}

	// Stable so equal priorities keep discovery order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority > entries[j].priority
	})

	for i, entry := range entries {
		r.participants[i] = entry.participant
		r.trace("participant order", "run_id", r.runID, "position", i, "participant", Name(entry.participant), "priority", entry.priority)
	}
}

func (r *Registry) invoke(phase Phase, p Participant, hook func() error) error {
	name := Name(p)
	priority := p.Priority()

	r.observer.HookStarted(phase, name, priority)
	began := time.Now()
	err := hook()
	r.observer.HookFinished(phase, name, priority, time.Since(began), err)

	if err != nil {
		return &HookError{Phase: phase, Participant: name, Priority: priority, Err: err}
	}
	return nil
}

// trace logs discovery details when debug is on.
func (r *Registry) trace(msg string, args ...any) {
	if r.debug {
		r.logger.Info(msg, args...)
	}
}
