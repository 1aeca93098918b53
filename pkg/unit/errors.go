// pkg/unit/errors.go
package unit

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("unit: not found")
	ErrContractViolation = errors.New("unit: missing run(data) entry point")
)

// NotFound wraps ErrNotFound with the unit name.
func NotFound(name string) error { return fmt.Errorf("%w: %q", ErrNotFound, name) }

// ContractViolation wraps ErrContractViolation with the unit name.
func ContractViolation(name string) error {
	return fmt.Errorf("%w: %q", ErrContractViolation, name)
}

// ExecutionError is any failure raised while loading or running a unit.
// Error() is the underlying message, unchanged.
type ExecutionError struct {
	Unit string
	Err  error
}

func (e *ExecutionError) Error() string {
	if e.Err == nil {
		return "unit " + e.Unit + ": execution failed"
	}
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Execution wraps err as an ExecutionError unless it already is one
// or it carries one of the sentinel kinds.
func Execution(name string, err error) error {
	if err == nil {
		return nil
	}
	var ee *ExecutionError
	if errors.As(err, &ee) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrContractViolation) {
		return err
	}
	return &ExecutionError{Unit: name, Err: err}
}

// IOError is a failure reading a catalog's backing store while listing.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("list units in %s: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// Outcome labels, used for logs and metrics.
const (
	KindOK                = "ok"
	KindNotFound          = "not_found"
	KindContractViolation = "contract_violation"
	KindExecutionError    = "execution_error"
	KindIOError           = "io_error"
)

// Kind classifies err into one of the outcome labels.
func Kind(err error) string {
	var ioe *IOError
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrContractViolation):
		return KindContractViolation
	case errors.As(err, &ioe):
		return KindIOError
	default:
		return KindExecutionError
	}
}
