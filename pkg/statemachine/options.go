package statemachine

import (
	"errors"
	"fmt"
	"time"
)

// Option configures a state machine during construction.
type Option func(*machine) error

// TransitionOption configures a single transition with guards and actions.
type TransitionOption func(*transitionConfig)

type transitionConfig struct {
	guards  []Guard
	actions []Action
}

// New creates a new state machine with the given initial state and options.
func New(initial State, opts ...Option) (StateMachine, error) {
	if initial == nil {
		return nil, errors.New("initial state cannot be nil")
	}

	m := newMachine(initial)
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is like New but panics on invalid configuration.
func MustNew(initial State, opts ...Option) StateMachine {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// WithTransition adds a single transition to the state machine.
func WithTransition(from, to State, event Event, opts ...TransitionOption) Option {
	return func(m *machine) error {
		cfg := &transitionConfig{}
		for _, opt := range opts {
			opt(cfg)
		}
		return m.addTransition(from, to, event, cfg.guards, cfg.actions)
	}
}

// WithFinalStates marks states that reject every further event.
func WithFinalStates(states ...State) Option {
	return func(m *machine) error {
		for _, s := range states {
			if s == nil {
				return ErrInvalidTransition
			}
			m.final[s.Name()] = struct{}{}
		}
		return nil
	}
}

// WithObserver registers a callback invoked after each completed transition,
// outside the machine lock.
func WithObserver(obs Observer) Option {
	return func(m *machine) error {
		if obs != nil {
			m.observers = append(m.observers, obs)
		}
		return nil
	}
}

// WithClock overrides the time source used for Step timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *machine) error {
		if now != nil {
			m.now = now
		}
		return nil
	}
}

// WithGuard adds a single guard to a transition.
func WithGuard(guard Guard) TransitionOption {
	return func(cfg *transitionConfig) {
		if guard != nil {
			cfg.guards = append(cfg.guards, guard)
		}
	}
}

// WithAction adds a single action to a transition.
func WithAction(action Action) TransitionOption {
	return func(cfg *transitionConfig) {
		if action != nil {
			cfg.actions = append(cfg.actions, action)
		}
	}
}
