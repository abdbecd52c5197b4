// Package lifecycle drives start and stop hooks for independently built modules.
//
// A module declares a participant by implementing Participant directly or by marking
// a type with the //lifecycle::participant directive and running lifecyclegen, which
// emits a delegating adapter into the proxy namespace. A Registry collects participants,
// orders them by priority and runs the two phases.
package lifecycle

import (
	"context"
	"fmt"
)

// Priority bounds. Higher priorities start first.
const (
	MinPriority  = 1
	NormPriority = 5
	MaxPriority  = 10
)

// Participant is the contract shared by hand-written participants and generated adapters.
type Participant interface {
	// Priority returns a value in [MinPriority, MaxPriority].
	Priority() int

	// OnStart runs during the start phase. A non-nil error aborts the phase.
	OnStart(ctx context.Context) error

	// OnStop runs during the stop phase. A non-nil error aborts the phase.
	OnStop() error
}

type hostKey struct{}

// WithHost attaches an opaque host handle to ctx.
func WithHost(ctx context.Context, host any) context.Context {
	return context.WithValue(ctx, hostKey{}, host)
}

// HostFrom returns the host handle attached with WithHost.
func HostFrom(ctx context.Context) (any, bool) {
	if ctx == nil {
		return nil, false
	}
	host := ctx.Value(hostKey{})
	return host, host != nil
}

// Name returns a printable identity for a participant.
func Name(p Participant) string {
	return fmt.Sprintf("%T", p)
}

func clampPriority(priority int) int {
	if priority < MinPriority {
		return MinPriority
	}
	if priority > MaxPriority {
		return MaxPriority
	}
	return priority
}
