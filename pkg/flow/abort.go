package flow

import (
	"errors"
	"fmt"
)

// abort carries a pre-built failure through error returns (or a panic in
// MustResolve) until Execute unwraps it. owner is the resolver that raised
// it; nil means an explicit Fail.
type abort[L any] struct {
	failure L
	owner   *Resolver[L]
}

func (a *abort[L]) Error() string {
	return fmt.Sprintf("flow aborted: %v", a.failure)
}

func (a *abort[L]) isAbort() {}

func (a *abort[L]) failureValue() any { return a.failure }

func (a *abort[L]) raisedBy() any {
	if a.owner == nil {
		return nil
	}
	return a.owner
}

type aborter interface {
	isAbort()
}

// carrier is an abort of any failure type. Fail infers its type parameter
// from the argument, so a concrete failure passed to Fail must still match
// a flow declared over an interface such as api.Failure.
type carrier interface {
	aborter
	failureValue() any
	raisedBy() any
}

func isAbort(err error) bool {
	var a aborter
	return errors.As(err, &a)
}

// Fail returns an error that makes the surrounding flow end with exactly
// failure. Return it (or panic with it) from Transform or Obtain, or from
// a function passed to Mapper, to fail late with a pre-built
// classification; WrapError is bypassed. The carried value only has to be
// assignable to the flow's failure type, so Fail(AccountFrozen{...}) works
// in a flow over api.Failure.
func Fail[L any](failure L) error {
	return &abort[L]{failure: failure}
}

// explicitFailure extracts a failure carried by err. Carriers raised by a
// resolver other than owner belong to another execution and are rejected,
// as are carriers whose value is not an L.
func explicitFailure[L any](err error, owner *Resolver[L]) (L, bool) {
	var zero L
	var c carrier
	if !errors.As(err, &c) {
		return zero, false
	}
	if by := c.raisedBy(); by != nil && by != any(owner) {
		return zero, false
	}
	l, ok := c.failureValue().(L)
	if !ok {
		return zero, false
	}
	return l, true
}
