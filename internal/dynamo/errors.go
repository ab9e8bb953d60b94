package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for model setup. Both are reported before a run starts.
var (
	// ErrInvalidParameter indicates a run parameter outside its valid range.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrGeneratorContract indicates a topology generator returned a matrix
	// of the wrong shape, a non-zero diagonal or weights outside [0,1].
	ErrGeneratorContract = errors.New("dynamo: topology generator contract violated")

	// ErrDimensionMismatch indicates inconsistent matrix/vector sizes.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")
)

// ParameterError names the offending parameter.
type ParameterError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%v %s", ErrInvalidParameter, e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// ContractError wraps a generator contract violation with its location.
// Row and Col are -1 when the violation is about shape.
type ContractError struct {
	Generator string
	Row, Col  int
	Value     float64
	Reason    string
}

func (e *ContractError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: %s: %s", ErrGeneratorContract, e.Generator, e.Reason)
	}
	return fmt.Sprintf("%s: %s: entry (%d,%d)=%g %s", ErrGeneratorContract, e.Generator, e.Row, e.Col, e.Value, e.Reason)
}

func (e *ContractError) Unwrap() error {
	return ErrGeneratorContract
}
