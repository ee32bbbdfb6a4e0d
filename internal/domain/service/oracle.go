package service

import (
	"context"
	"errors"
	"fmt"
)

// Prompt is a compiled brief: a fixed domain instruction plus the request-specific text.
type Prompt struct {
	System string
	User   string
}

// Oracle is the external structured-reasoning capability. Invoke decodes a
// schema-conforming result into dest or fails with an *OracleError.
// Optional fields may come back unset.
type Oracle interface {
	Name() string
	Invoke(ctx context.Context, prompt Prompt, schema *Schema, dest interface{}) error
}

type OracleErrorKind string

const (
	KindUnavailable OracleErrorKind = "unavailable"
	KindTransport   OracleErrorKind = "transport"
	KindSchema      OracleErrorKind = "schema"
)

var (
	ErrOracleUnavailable = errors.New("oracle unavailable")
	ErrOracleTransport   = errors.New("oracle transport failure")
	ErrOracleSchema      = errors.New("oracle output violates schema")
)

// OracleError is the only error Invoke returns.
type OracleError struct {
	Kind     OracleErrorKind
	Provider string
	Err      error
}

func (e *OracleError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("oracle %s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("oracle %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

// Is matches the kind sentinels so callers can use errors.Is.
func (e *OracleError) Is(target error) bool {
	switch target {
	case ErrOracleUnavailable:
		return e.Kind == KindUnavailable
	case ErrOracleTransport:
		return e.Kind == KindTransport
	case ErrOracleSchema:
		return e.Kind == KindSchema
	}
	return false
}

func Unavailable(provider string, err error) *OracleError {
	return &OracleError{Kind: KindUnavailable, Provider: provider, Err: err}
}

func TransportFailure(provider string, err error) *OracleError {
	return &OracleError{Kind: KindTransport, Provider: provider, Err: err}
}

func SchemaFailure(provider string, err error) *OracleError {
	return &OracleError{Kind: KindSchema, Provider: provider, Err: err}
}

// AsOracleError extracts the kind, treating foreign errors as transport failures.
func AsOracleError(provider string, err error) *OracleError {
	var oe *OracleError
	if errors.As(err, &oe) {
		return oe
	}
	return TransportFailure(provider, err)
}
