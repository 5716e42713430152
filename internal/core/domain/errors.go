package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSeed        = errors.New("invalid seed")
	ErrEmptyInput         = errors.New("empty input")
	ErrUnknownGroupKey    = errors.New("unknown group key")
	ErrUnknownColumn      = errors.New("unknown column")
	ErrUnknownReduction   = errors.New("unknown reduction")
	ErrMissingMetric      = errors.New("missing metric")
	ErrUnsupportedModel   = errors.New("unsupported prediction model")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInternal           = errors.New("internal server error")
)

type InvalidSeedError struct {
	Seed   string
	Reason string
}

func (e *InvalidSeedError) Error() string {
	return fmt.Sprintf("invalid seed %q: %s", e.Seed, e.Reason)
}

func (e *InvalidSeedError) Unwrap() error { return ErrInvalidSeed }

// EmptyInputError is returned when an operation that reduces rows gets none.
type EmptyInputError struct {
	Operation string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no input rows", e.Operation)
}

func (e *EmptyInputError) Unwrap() error { return ErrEmptyInput }

type UnknownGroupKeyError struct {
	Key string
}

func (e *UnknownGroupKeyError) Error() string {
	return fmt.Sprintf("unknown group key %q", e.Key)
}

func (e *UnknownGroupKeyError) Unwrap() error { return ErrUnknownGroupKey }

type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown numeric column %q", e.Column)
}

func (e *UnknownColumnError) Unwrap() error { return ErrUnknownColumn }

type UnknownReductionError struct {
	Reduction string
}

func (e *UnknownReductionError) Error() string {
	return fmt.Sprintf("unknown reduction %q", e.Reduction)
}

func (e *UnknownReductionError) Unwrap() error { return ErrUnknownReduction }

type MissingMetricError struct {
	Metric string
}

func (e *MissingMetricError) Error() string {
	return fmt.Sprintf("aggregate row is missing %s", e.Metric)
}

func (e *MissingMetricError) Unwrap() error { return ErrMissingMetric }

type UnsupportedModelError struct {
	Model string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("prediction model %q is not implemented", e.Model)
}

func (e *UnsupportedModelError) Unwrap() error { return ErrUnsupportedModel }

// IsCallerError reports whether err was caused by bad input rather than a fault.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrInvalidSeed) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrUnknownGroupKey) ||
		errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrUnknownReduction) ||
		errors.Is(err, ErrMissingMetric) ||
		errors.Is(err, ErrUnsupportedModel)
}
