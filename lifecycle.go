package main

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/looplab/fsm"
)

// Session states.
const (
	StateNew          = "new"
	StateInitializing = "initializing"
	StateReady        = "ready"
)

// Session events.
const (
	EventInitialize  = "initialize"
	EventInitialized = "initialized"
)

// lifecycle tracks the MCP handshake: initialize request, then the
// initialized notification.
type lifecycle struct {
	machine *fsm.FSM
}

func newLifecycle(logger *slog.Logger) *lifecycle {
	machine := fsm.NewFSM(
		StateNew,
		fsm.Events{
			{Name: EventInitialize, Src: []string{StateNew, StateInitializing, StateReady}, Dst: StateInitializing},
			{Name: EventInitialized, Src: []string{StateInitializing}, Dst: StateReady},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debug("session state changed", "from", e.Src, "to", e.Dst)
			},
		},
	)
	return &lifecycle{machine: machine}
}

func (l *lifecycle) fire(ctx context.Context, event string) error {
	err := l.machine.Event(ctx, event)
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}
	return err
}

// initialize records an initialize request. A repeated initialize restarts
// the handshake.
func (l *lifecycle) initialize(ctx context.Context) error {
	return l.fire(ctx, EventInitialize)
}

// initialized records the client's initialized notification.
func (l *lifecycle) initialized(ctx context.Context) error {
	return l.fire(ctx, EventInitialized)
}

// requireStarted rejects requests that arrive before initialize.
func (l *lifecycle) requireStarted() error {
	if l.machine.Is(StateNew) {
		return errors.Mark(errors.New("Server not initialized: send initialize first"), ErrNotInitialized)
	}
	return nil
}

func (l *lifecycle) current() string {
	return l.machine.Current()
}
