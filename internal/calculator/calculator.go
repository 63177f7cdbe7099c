package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// Operation names a supported arithmetic operation.
type Operation string

// Supported operations.
const (
	OperationAdd      Operation = "add"
	OperationSubtract Operation = "subtract"
	OperationMultiply Operation = "multiply"
	OperationDivide   Operation = "divide"
)

// Operations lists the supported operations in display order.
var Operations = []Operation{OperationAdd, OperationSubtract, OperationMultiply, OperationDivide}

// ErrDivisionByZero is returned by Divide when the divisor is exactly zero.
var ErrDivisionByZero = errors.New("cannot divide by zero")

// ErrInvalidOperation is returned when an operation name is not supported.
var ErrInvalidOperation = errors.New("invalid operation")

// Add returns a + b.
func Add(a, b float64) float64 { return a + b }

// Subtract returns a - b.
func Subtract(a, b float64) float64 { return a - b }

// Multiply returns a * b.
func Multiply(a, b float64) float64 { return a * b }

// Divide returns a / b, or ErrDivisionByZero when b == 0.
func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

// ParseOperation lowercases name and maps it to a supported Operation.
// Surrounding whitespace is not stripped, so " add" is rejected.
func ParseOperation(name string) (Operation, error) {
	normalized := Operation(strings.ToLower(name))
	for _, op := range Operations {
		if op == normalized {
			return op, nil
		}
	}
	return "", &InvalidOperationError{Name: string(normalized)}
}

// Apply dispatches to the arithmetic function for op.
func Apply(op Operation, a, b float64) (float64, error) {
	switch op {
	case OperationAdd:
		return Add(a, b), nil
	case OperationSubtract:
		return Subtract(a, b), nil
	case OperationMultiply:
		return Multiply(a, b), nil
	case OperationDivide:
		return Divide(a, b)
	default:
		return 0, &InvalidOperationError{Name: string(op)}
	}
}

// InvalidOperationError reports an unsupported operation name.
type InvalidOperationError struct {
	Name string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation %q (supported: %s)", e.Name, SupportedNames())
}

// SupportedNames returns the supported operation names joined for display.
func SupportedNames() string {
	names := make([]string, 0, len(Operations))
	for _, op := range Operations {
		names = append(names, string(op))
	}
	return strings.Join(names, ", ")
}

// Unwrap lets errors.Is match ErrInvalidOperation.
func (e *InvalidOperationError) Unwrap() error { return ErrInvalidOperation }
