// Package statemachine implements a small finite state machine used to drive
// multi-phase workflows.
//
// States and events are anything with a Name; StringState and StringEvent
// cover the common case. Transitions are declared up front with functional
// options, may carry guards that veto them and actions that run before the
// state changes. States passed to WithFinalStates reject further events, and
// History returns every completed Step so a caller can report the path a run
// took.
//
//	const (
//		Start   = statemachine.StringState("start")
//		Billing = statemachine.StringState("billing")
//		Failed  = statemachine.StringState("failed")
//		Begin   = statemachine.StringEvent("begin")
//		Fail    = statemachine.StringEvent("fail")
//	)
//
//	sm := statemachine.MustNew(Start,
//		statemachine.WithTransition(Start, Billing, Begin),
//		statemachine.WithTransition(Billing, Failed, Fail),
//		statemachine.WithFinalStates(Failed),
//	)
//	_ = sm.Fire(ctx, Begin, nil)
//
// Use IsNoTransitionAvailableError and IsTransitionRejectedError to tell an
// undefined transition from a guard veto.
package statemachine
