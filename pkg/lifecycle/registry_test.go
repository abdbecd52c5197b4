package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects hook calls in invocation order
type recorder struct {
	calls []string
}

type testParticipant struct {
	name     string
	priority int
	rec      *recorder
	startErr error
	stopErr  error
	ctxSeen  context.Context
}

func (p *testParticipant) Priority() int { return p.priority }

func (p *testParticipant) OnStart(ctx context.Context) error {
	p.ctxSeen = ctx
	p.rec.calls = append(p.rec.calls, "start:"+p.name)
	return p.startErr
}

func (p *testParticipant) OnStop() error {
	p.rec.calls = append(p.rec.calls, "stop:"+p.name)
	return p.stopErr
}

func newTestRegistry(opts ...Option) *Registry {
	base := []Option{
		WithScanner(NewCatalogScanner(NewCatalog())),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	}
	return New(append(base, opts...)...)
}

func TestRegistry_StartOrdersByPriorityWithStableTies(t *testing.T) {
	rec := &recorder{}
	registry := newTestRegistry()

	require.NoError(t, registry.Register(&testParticipant{name: "A", priority: 5, rec: rec}))
	require.NoError(t, registry.Register(&testParticipant{name: "B", priority: 10, rec: rec}))
	require.NoError(t, registry.Register(&testParticipant{name: "C", priority: 5, rec: rec}))

	require.NoError(t, registry.Start(context.Background()))

	assert.Equal(t, []string{"start:B", "start:A", "start:C"}, rec.calls)
	assert.Equal(t, StateStarted, registry.State())
}

func TestRegistry_StartIsIdempotent(t *testing.T) {
	rec := &recorder{}
	registry := newTestRegistry()
	require.NoError(t, registry.Register(&testParticipant{name: "A", priority: 5, rec: rec}))

	require.NoError(t, registry.Start(context.Background()))
	require.NoError(t, registry.Start(context.Background()))

	assert.Equal(t, []string{"start:A"}, rec.calls)
}

func TestRegistry_StopRepeatsHooksInStartOrder(t *testing.T) {
	rec := &recorder{}
	registry := newTestRegistry()
	require.NoError(t, registry.RegisterAll(
		&testParticipant{name: "low", priority: MinPriority, rec: rec},
		&testParticipant{name: "high", priority: MaxPriority, rec: rec},
		&testParticipant{name: "norm", priority: NormPriority, rec: rec},
	))
	require.NoError(t, registry.Start(context.Background()))
	rec.calls = nil

	require.NoError(t, registry.Stop())
	require.NoError(t, registry.Stop())

	expected := []string{"stop:high", "stop:norm", "stop:low"}
	assert.Equal(t, append(append([]string{}, expected...), expected...), rec.calls)
	assert.True(t, registry.Stopped())
}

func TestRegistry_StopBeforeStart(t *testing.T) {
	rec := &recorder{}
	registry := newTestRegistry()
	require.NoError(t, registry.Register(&testParticipant{name: "A", priority: 5, rec: rec}))

	err := registry.Stop()
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.Empty(t, rec.calls)
}

func TestRegistry_StartFailureAbortsRemainingHooks(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	registry := newTestRegistry()
	require.NoError(t, registry.RegisterAll(
		&testParticipant{name: "first", priority: 9, rec: rec},
		&testParticipant{name: "broken", priority: 7, rec: rec, startErr: boom},
		&testParticipant{name: "never", priority: 3, rec: rec},
	))

	err := registry.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var hookErr *HookError
	require.ErrorAs(t, err, &hookErr)
	assert.Equal(t, PhaseStart, hookErr.Phase)
	assert.Equal(t, 7, hookErr.Priority)
	assert.Contains(t, hookErr.Participant, "testParticipant")

	assert.Equal(t, []string{"start:first", "start:broken"}, rec.calls)
	assert.Equal(t, StateStarting, registry.State())

	// The guard is already set, a retry does not run hooks again.
	require.NoError(t, registry.Start(context.Background()))
	assert.Len(t, rec.calls, 2)
}

func TestRegistry_StopFailureAbortsRemainingHooks(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("teardown failed")
	registry := newTestRegistry()
	require.NoError(t, registry.RegisterAll(
		&testParticipant{name: "a", priority: 8, rec: rec, stopErr: boom},
		&testParticipant{name: "b", priority: 2, rec: rec},
	))
	require.NoError(t, registry.Start(context.Background()))
	rec.calls = nil

	err := registry.Stop()
	var hookErr *HookError
	require.ErrorAs(t, err, &hookErr)
	assert.Equal(t, PhaseStop, hookErr.Phase)
	assert.Equal(t, []string{"stop:a"}, rec.calls)
	assert.False(t, registry.Stopped())
}

func TestRegistry_StartPanicPropagates(t *testing.T) {
	registry := newTestRegistry()
	require.NoError(t, registry.Register(panickingParticipant{}))

	assert.Panics(t, func() {
		_ = registry.Start(context.Background())
	})
}

type panickingParticipant struct{}

func (panickingParticipant) Priority() int                 { return NormPriority }
func (panickingParticipant) OnStart(context.Context) error { panic("hook exploded") }
func (panickingParticipant) OnStop() error                 { return nil }

func TestRegistry_ContextPassedThroughUnmodified(t *testing.T) {
	rec := &recorder{}
	p := &testParticipant{name: "A", priority: 5, rec: rec}
	registry := newTestRegistry()
	require.NoError(t, registry.Register(p))

	type app struct{ name string }
	host := &app{name: "demo"}
	ctx := WithHost(context.Background(), host)

	require.NoError(t, registry.Start(ctx))
	assert.Equal(t, ctx, p.ctxSeen)

	got, ok := HostFrom(p.ctxSeen)
	require.True(t, ok)
	assert.Same(t, host, got)
}

func TestRegistry_RegisterValidation(t *testing.T) {
	registry := newTestRegistry()

	assert.ErrorIs(t, registry.Register(nil), ErrNilParticipant)
	assert.False(t, registry.RegisteredViaInjection())

	require.NoError(t, registry.Start(context.Background()))

	rec := &recorder{}
	err := registry.Register(&testParticipant{name: "late", priority: 5, rec: rec})
	assert.ErrorIs(t, err, ErrRegistryClosed)
	assert.Empty(t, registry.Participants())
}

type countingParticipant struct {
	priorityCalls int
}

func (p *countingParticipant) Priority() int {
	p.priorityCalls++
	return NormPriority
}
func (p *countingParticipant) OnStart(context.Context) error { return nil }
func (p *countingParticipant) OnStop() error                 { return nil }

func TestRegistry_RegisterDoesNotCallIntoParticipant(t *testing.T) {
	registry := newTestRegistry()

	counting := &countingParticipant{}
	require.NoError(t, registry.Register(counting))
	assert.Zero(t, counting.priorityCalls)

	var typedNil *countingParticipant
	assert.NotPanics(t, func() {
		require.NoError(t, registry.Register(typedNil))
	})

	debugRegistry := newTestRegistry(WithDebug(true))
	require.NoError(t, debugRegistry.Register(counting))
	assert.Equal(t, 1, counting.priorityCalls)
}

func TestRegistry_ScanSkipsTypedNilConstructors(t *testing.T) {
	rec := &recorder{}
	catalog := NewCatalog()
	catalog.Provide("lifecycleproxy.LifecycleBrokenProxy", func() any { return (*testParticipant)(nil) })
	catalog.Provide("lifecycleproxy.LifecycleWorkingProxy", func() any {
		return &testParticipant{name: "working", priority: 5, rec: rec}
	})

	observer := &recordingObserver{}
	registry := newTestRegistry(WithScanner(NewCatalogScanner(catalog)), WithObserver(observer))
	require.NoError(t, registry.Start(context.Background()))

	assert.Equal(t, []string{"start:working"}, rec.calls)
	require.Len(t, registry.Participants(), 1)
	require.Len(t, observer.skipped, 1)
	var instErr *InstantiationError
	require.True(t, errors.As(observer.skipped[0], &instErr))
	assert.Equal(t, "lifecycleproxy.LifecycleBrokenProxy", instErr.Name)
}

func TestRegistry_InjectionSkipsScan(t *testing.T) {
	rec := &recorder{}
	catalog := NewCatalog()
	catalog.Provide("lifecycleproxy.LifecycleScannedProxy", func() any {
		return &testParticipant{name: "scanned", priority: 10, rec: rec}
	})

	registry := newTestRegistry(WithScanner(NewCatalogScanner(catalog)))
	require.NoError(t, registry.Register(&testParticipant{name: "injected", priority: 1, rec: rec}))
	require.NoError(t, registry.Start(context.Background()))

	assert.Equal(t, []string{"start:injected"}, rec.calls)
	assert.True(t, registry.RegisteredViaInjection())
}

func TestRegistry_ScanPath(t *testing.T) {
	rec := &recorder{}
	catalog := NewCatalog()
	catalog.Provide("lifecycleproxy.LifecycleZetaProxy", func() any {
		return &testParticipant{name: "zeta", priority: 5, rec: rec}
	})
	catalog.Provide("lifecycleproxy.LifecycleAlphaProxy", func() any {
		return &testParticipant{name: "alpha", priority: 5, rec: rec}
	})
	catalog.Provide("lifecycleproxy.LifecycleTopProxy", func() any {
		return &testParticipant{name: "top", priority: 9, rec: rec}
	})
	catalog.Provide("otherpkg.LifecycleForeignProxy", func() any {
		return &testParticipant{name: "foreign", priority: 10, rec: rec}
	})
	catalog.Provide("lifecycleproxy.LifecycleNotAParticipantProxy", func() any {
		return struct{}{}
	})
	catalog.Provide("lifecycleproxy.LifecyclePanicsProxy", func() any {
		panic("constructor failed")
	})
	catalog.Provide("lifecycleproxy.LifecycleNilProxy", func() any {
		return nil
	})

	observer := &recordingObserver{}
	registry := newTestRegistry(WithScanner(NewCatalogScanner(catalog)), WithObserver(observer))
	require.NoError(t, registry.Start(context.Background()))

	assert.Equal(t, []string{"start:top", "start:alpha", "start:zeta"}, rec.calls)
	assert.False(t, registry.RegisteredViaInjection())

	assert.Equal(t, StrategyScan, observer.strategy)
	assert.Equal(t, 3, observer.count)
	require.Len(t, observer.skipped, 3)
	for _, err := range observer.skipped {
		var instErr *InstantiationError
		assert.ErrorAs(t, err, &instErr)
	}
}

func TestRegistry_ScanWithEmptyNamespace(t *testing.T) {
	registry := newTestRegistry()
	require.NoError(t, registry.Start(context.Background()))

	assert.Empty(t, registry.Participants())
	assert.Equal(t, StateStarted, registry.State())
	require.NoError(t, registry.Stop())
}

func TestRegistry_ScanUsesConfiguredNaming(t *testing.T) {
	rec := &recorder{}
	catalog := NewCatalog()
	catalog.Provide("com_hm_proxy.HeimaFooProxy", func() any {
		return &testParticipant{name: "foo", priority: 7, rec: rec}
	})

	t.Run("default naming misses custom adapters", func(t *testing.T) {
		registry := newTestRegistry(WithScanner(NewCatalogScanner(catalog)))
		require.NoError(t, registry.Start(context.Background()))
		assert.Empty(t, registry.Participants())
	})

	t.Run("matching naming finds them", func(t *testing.T) {
		registry := newTestRegistry(
			WithScanner(NewCatalogScanner(catalog)),
			WithNaming(Naming{Namespace: "com_hm_proxy", Prefix: "Heima", Suffix: "Proxy"}),
		)
		require.NoError(t, registry.Start(context.Background()))
		require.Len(t, registry.Participants(), 1)
		assert.Equal(t, 7, registry.Participants()[0].Priority())
	})
}

func TestRegistry_OutOfRangePrioritiesAreClamped(t *testing.T) {
	rec := &recorder{}
	registry := newTestRegistry()
	require.NoError(t, registry.RegisterAll(
		&testParticipant{name: "ten", priority: 10, rec: rec},
		&testParticipant{name: "huge", priority: 99, rec: rec},
		&testParticipant{name: "negative", priority: -4, rec: rec},
		&testParticipant{name: "one", priority: 1, rec: rec},
	))

	require.NoError(t, registry.Start(context.Background()))
	assert.Equal(t, []string{"start:ten", "start:huge", "start:negative", "start:one"}, rec.calls)
}

func TestRegistry_DebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	catalog := NewCatalog()
	rec := &recorder{}
	catalog.Provide("lifecycleproxy.LifecycleLoggedProxy", func() any {
		return &testParticipant{name: "logged", priority: 5, rec: rec}
	})

	registry := New(WithScanner(NewCatalogScanner(catalog)), WithLogger(logger))
	assert.False(t, registry.Debug())
	registry.SetDebug(true)
	assert.True(t, registry.Debug())

	require.NoError(t, registry.Start(context.Background()))

	output := buf.String()
	assert.Contains(t, output, "scan candidate")
	assert.Contains(t, output, "lifecycleproxy.LifecycleLoggedProxy")
	assert.Contains(t, output, "run_id=")
}

func TestRegistry_QuietWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	catalog := NewCatalog()
	rec := &recorder{}
	catalog.Provide("lifecycleproxy.LifecycleQuietProxy", func() any {
		return &testParticipant{name: "quiet", priority: 5, rec: rec}
	})

	registry := New(WithScanner(NewCatalogScanner(catalog)), WithLogger(logger))
	require.NoError(t, registry.Start(context.Background()))

	assert.NotContains(t, buf.String(), "scan candidate")
}

func TestRegistry_IndependentInstances(t *testing.T) {
	recA, recB := &recorder{}, &recorder{}
	first := newTestRegistry()
	second := newTestRegistry()

	require.NoError(t, first.Register(&testParticipant{name: "A", priority: 5, rec: recA}))
	require.NoError(t, first.Start(context.Background()))

	require.NoError(t, second.Register(&testParticipant{name: "B", priority: 5, rec: recB}))
	require.NoError(t, second.Start(context.Background()))

	assert.Equal(t, []string{"start:A"}, recA.calls)
	assert.Equal(t, []string{"start:B"}, recB.calls)
}

func TestRegistry_ObserverSeesEveryHook(t *testing.T) {
	rec := &recorder{}
	observer := &recordingObserver{}
	boom := errors.New("boom")
	registry := newTestRegistry(WithObserver(observer))
	require.NoError(t, registry.RegisterAll(
		&testParticipant{name: "a", priority: 6, rec: rec},
		&testParticipant{name: "b", priority: 4, rec: rec, stopErr: boom},
	))

	require.NoError(t, registry.Start(context.Background()))
	require.Error(t, registry.Stop())

	assert.Equal(t, StrategyInjection, observer.strategy)
	assert.Equal(t, 2, observer.count)
	assert.Equal(t, []Phase{PhaseStart, PhaseStart, PhaseStop, PhaseStop}, observer.phases)
	require.Len(t, observer.errs, 4)
	assert.ErrorIs(t, observer.errs[3], boom)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "starting", StateStarting.String())
	assert.Equal(t, "started", StateStarted.String())
	assert.Equal(t, "unknown", State(42).String())
}

type recordingObserver struct {
	strategy Strategy
	count    int
	skipped  []error
	phases   []Phase
	errs     []error
}

func (o *recordingObserver) Discovered(strategy Strategy, count int, skipped []error) {
	o.strategy = strategy
	o.count = count
	o.skipped = skipped
}

func (o *recordingObserver) HookStarted(Phase, string, int) {}

func (o *recordingObserver) HookFinished(phase Phase, _ string, _ int, _ time.Duration, err error) {
	o.phases = append(o.phases, phase)
	o.errs = append(o.errs, err)
}
