package flow

import (
	"fmt"
	"runtime/debug"
)

// Phase names the part of a flow in which a fault happened.
type Phase string

const (
	PhaseObtain    Phase = "obtain"
	PhaseTransform Phase = "transform"
	PhaseCall      Phase = "call"
	PhaseMap       Phase = "map"
)

// FaultContext is handed to WrapError alongside the fault itself.
type FaultContext struct {
	// Case is the name of the flow, if known.
	Case string
	// Phase is where the fault happened.
	Phase Phase
	// Step is the name of the resolved task, for faults raised by GetValue.
	Step string
	// Panicked is true when the fault was recovered from a panic.
	Panicked bool
	// Stack is the goroutine stack at the point of the panic.
	Stack []byte
}

// WrapErrorFunc classifies a fault that is not already a failure.
type WrapErrorFunc[L any] func(err error, fc FaultContext) L

// PanicError is the error a recovered panic turns into.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// guarded is the outcome of guard.
type guarded struct {
	err      error
	panicked bool
	stack    []byte
}

// guard runs fn and converts a panic into an error. Panics carrying an
// abort are returned as-is so callers can unwrap them.
func guard(fn func() error) (g guarded) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		g.panicked = true
		if e, ok := rec.(error); ok && isAbort(e) {
			g.err = e
			return
		}
		g.stack = debug.Stack()
		g.err = &PanicError{Value: rec, Stack: g.stack}
	}()
	return guarded{err: fn()}
}

func (g guarded) context(caseName string, phase Phase) FaultContext {
	return FaultContext{
		Case:     caseName,
		Phase:    phase,
		Panicked: g.panicked,
		Stack:    g.stack,
	}
}
