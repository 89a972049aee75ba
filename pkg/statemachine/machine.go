package statemachine

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// machine is a thread-safe in-memory state machine.
// Transitions are indexed as [fromState][event][]Transition.
type machine struct {
	mu          sync.RWMutex
	current     State
	transitions map[string]map[string][]Transition
	final       map[string]struct{}
	observers   []Observer
	history     []Step
	now         func() time.Time
}

func newMachine(initial State) *machine {
	return &machine{
		current:     initial,
		transitions: make(map[string]map[string][]Transition),
		final:       make(map[string]struct{}),
		now:         time.Now,
	}
}

func (m *machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *machine) IsFinal() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.final[m.current.Name()]
	return ok
}

func (m *machine) History() []Step {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Step, len(m.history))
	copy(out, m.history)
	return out
}

func (m *machine) addTransition(from, to State, event Event, guards []Guard, actions []Action) error {
	if from == nil || to == nil || event == nil {
		return ErrInvalidTransition
	}
	if _, ok := m.transitions[from.Name()]; !ok {
		m.transitions[from.Name()] = make(map[string][]Transition)
	}
	// Several transitions for the same from/event pair branch on guards.
	m.transitions[from.Name()][event.Name()] = append(m.transitions[from.Name()][event.Name()], Transition{
		From:    from,
		To:      to,
		Event:   event,
		Guards:  guards,
		Actions: actions,
	})
	return nil
}

func (m *machine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	from := m.current
	if _, ok := m.final[from.Name()]; ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrFinalState, from.Name())
	}

	t, err := m.match(ctx, event, data)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	for _, action := range t.Actions {
		if err := action(ctx, from, t.To, event, data); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("action failed: %w", err)
		}
	}

	step := Step{From: from, To: t.To, Event: event, At: m.now()}
	m.current = t.To
	m.history = append(m.history, step)
	observers := m.observers
	m.mu.Unlock()

	for _, obs := range observers {
		obs(ctx, step)
	}
	return nil
}

func (m *machine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.final[m.current.Name()]; ok {
		return false
	}
	_, err := m.match(ctx, event, data)
	return err == nil
}

// match returns the first transition whose guards all pass. Must be called with lock held.
func (m *machine) match(ctx context.Context, event Event, data any) (*Transition, error) {
	stateName := m.current.Name()
	candidates := m.transitions[stateName][event.Name()]
	if len(candidates) == 0 {
		return nil, NewErrNoTransitionAvailable(stateName, event.Name())
	}

	for i := range candidates {
		passed := true
		for _, guard := range candidates[i].Guards {
			if !guard(ctx, m.current, event, data) {
				passed = false
				break
			}
		}
		if passed {
			return &candidates[i], nil
		}
	}
	return nil, NewErrTransitionRejected(stateName, event.Name())
}
