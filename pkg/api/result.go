package api

// Result holds either a Left failure or a Right value, never both.
//
// The zero value is a Left holding the zero L; construct results with Left
// and Right instead.
type Result[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// Left returns a failed Result.
func Left[L, R any](l L) Result[L, R] {
	return Result[L, R]{left: l}
}

// Right returns a successful Result.
func Right[L, R any](r R) Result[L, R] {
	return Result[L, R]{right: r, isRight: true}
}

// IsLeft reports whether the result holds a failure.
func (r Result[L, R]) IsLeft() bool { return !r.isRight }

// IsRight reports whether the result holds a value.
func (r Result[L, R]) IsRight() bool { return r.isRight }

// Left returns the failure and true, or the zero L and false.
func (r Result[L, R]) Left() (L, bool) {
	if r.isRight {
		var zero L
		return zero, false
	}
	return r.left, true
}

// Right returns the value and true, or the zero R and false.
func (r Result[L, R]) Right() (R, bool) {
	if !r.isRight {
		var zero R
		return zero, false
	}
	return r.right, true
}

// GetOrElse returns the value, or def when the result is a Left.
func (r Result[L, R]) GetOrElse(def R) R {
	if r.isRight {
		return r.right
	}
	return def
}

// Swap turns a Left into a Right and vice versa.
func (r Result[L, R]) Swap() Result[R, L] {
	if r.isRight {
		return Left[R, L](r.right)
	}
	return Right[R](r.left)
}

// ToOption drops the failure side.
func (r Result[L, R]) ToOption() Option[R] {
	if r.isRight {
		return Some(r.right)
	}
	return None[R]()
}

// LeftOption drops the success side.
func (r Result[L, R]) LeftOption() Option[L] {
	if r.isRight {
		return None[L]()
	}
	return Some(r.left)
}

// Fold collapses a Result into a single value.
func Fold[L, R, T any](r Result[L, R], onLeft func(L) T, onRight func(R) T) T {
	if r.isRight {
		return onRight(r.right)
	}
	return onLeft(r.left)
}

// Map applies fn to the value of a Right and leaves a Left untouched.
func Map[L, R, T any](r Result[L, R], fn func(R) T) Result[L, T] {
	if r.isRight {
		return Right[L](fn(r.right))
	}
	return Left[L, T](r.left)
}

// MapLeft applies fn to the failure of a Left and leaves a Right untouched.
func MapLeft[L, R, M any](r Result[L, R], fn func(L) M) Result[M, R] {
	if r.isRight {
		return Right[M](r.right)
	}
	return Left[M, R](fn(r.left))
}

// FlatMap chains a fallible computation onto a Right.
func FlatMap[L, R, T any](r Result[L, R], fn func(R) Result[L, T]) Result[L, T] {
	if r.isRight {
		return fn(r.right)
	}
	return Left[L, T](r.left)
}

// FromError lifts a Go (value, error) pair into a Result, classifying the
// error with onErr.
func FromError[L, R any](v R, err error, onErr func(error) L) Result[L, R] {
	if err != nil {
		return Left[L, R](onErr(err))
	}
	return Right[L](v)
}
