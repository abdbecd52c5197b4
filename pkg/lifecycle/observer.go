package lifecycle

import "time"

// Strategy names the discovery path used for a run.
type Strategy string

const (
	StrategyInjection Strategy = "injection"
	StrategyScan      Strategy = "scan"
)

// Observer is notified about discovery and every hook invocation.
type Observer interface {
	Discovered(strategy Strategy, count int, skipped []error)
	HookStarted(phase Phase, participant string, priority int)
	HookFinished(phase Phase, participant string, priority int, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) Discovered(Strategy, int, []error)                     {}
func (nopObserver) HookStarted(Phase, string, int)                        {}
func (nopObserver) HookFinished(Phase, string, int, time.Duration, error) {}
