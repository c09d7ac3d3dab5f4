package models

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrInvalidOptionType     = errors.New("invalid option type")
	ErrInvalidSkewParameters = errors.New("invalid skew parameters")
	ErrOutOfDomain           = errors.New("moneyness out of domain")
	ErrDataUnavailable       = errors.New("data unavailable")
)

// ParameterError reports a pricing input outside its domain.
type ParameterError struct {
	Name  string
	Value float64
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s must be positive and finite, got %v", ErrInvalidParameter, e.Name, e.Value)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// OutOfDomainError names the moneyness point that matched no skew region.
type OutOfDomainError struct {
	X float64
}

func (e *OutOfDomainError) Error() string {
	return fmt.Sprintf("%s: x=%v matches no skew region", ErrOutOfDomain, e.X)
}

func (e *OutOfDomainError) Unwrap() error {
	return ErrOutOfDomain
}

// RequirePositive returns a ParameterError for the first value that is not
// strictly positive and finite. Names and values are given as pairs.
func RequirePositive(pairs ...NamedValue) error {
	for _, p := range pairs {
		if !(p.Value > 0) || math.IsInf(p.Value, 0) {
			return &ParameterError{Name: p.Name, Value: p.Value}
		}
	}
	return nil
}

type NamedValue struct {
	Name  string
	Value float64
}
