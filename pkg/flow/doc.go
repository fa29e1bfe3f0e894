// Package flow implements the two-phase executor behind most caseflow use
// cases.
//
// A Flow is made of three functions:
//
//   - Obtain gathers values. Every fallible call goes through the Resolver,
//     usually via Resolve or Value.
//   - Transform maps the gathered values to the success entity.
//   - WrapError classifies any fault that is not already a failure.
//
// The first failure surfaced through the resolver ends the flow: Resolve
// hands back an error that Obtain returns immediately, and Transform never
// runs. Go's own error propagation plays the role of an early return:
//
//	func obtain(ctx context.Context, r *flow.Resolver[api.Failure], p Params) (values, error) {
//	    user, err := flow.Value(ctx, r, users.Find(p.UserID))
//	    if err != nil {
//	        return values{}, err
//	    }
//	    orders, err := flow.Value(ctx, r, orders.ForUser(user.ID))
//	    if err != nil {
//	        return values{}, err
//	    }
//	    return values{user: user, orders: orders}, nil
//	}
//
// Transform can end the flow with a pre-built failure by returning
// Fail(failure); that failure is returned verbatim. Any other error, and any
// panic in either phase, goes through WrapError. Execute therefore always
// returns exactly one api.Result and never panics.
//
// GetValue and Mapper expose the same classification rules for code that
// builds tasks or transforms by hand.
package flow
