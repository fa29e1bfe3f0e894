package api

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Params is the input bundle of a validated case. Implementations are plain
// values that are never mutated after construction.
type Params interface {
	IsValid() bool
}

// NoParams is the Params of cases that take no input.
type NoParams struct{}

func (NoParams) IsValid() bool { return true }

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct checks the `validate` struct tags of p.
func ValidateStruct(p any) error {
	return structValidator().Struct(p)
}

// StructIsValid is a convenience for Params whose validity is entirely
// described by struct tags:
//
//	func (p GetUserParams) IsValid() bool { return api.StructIsValid(p) }
func StructIsValid(p any) bool {
	return ValidateStruct(p) == nil
}

// ValidationProblems renders the field errors of p, one entry per failed
// tag. It returns nil when p is valid.
func ValidationProblems(p any) []string {
	err := ValidateStruct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return problems
}
