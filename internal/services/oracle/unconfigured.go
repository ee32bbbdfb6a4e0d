package oracle

import (
	"context"
	"errors"

	"TruthSource/internal/domain/service"
)

var ErrNotConfigured = errors.New("no oracle backend configured")

// Unconfigured stands in when no backend could be built. Every call fails
// as unavailable.
type Unconfigured struct {
	provider string
	reason   error
}

var _ service.Oracle = (*Unconfigured)(nil)

func NewUnconfigured(provider string, reason error) *Unconfigured {
	if reason == nil {
		reason = ErrNotConfigured
	}
	return &Unconfigured{provider: provider, reason: reason}
}

func (u *Unconfigured) Name() string { return u.provider }

func (u *Unconfigured) Invoke(context.Context, service.Prompt, *service.Schema, interface{}) error {
	return service.Unavailable(u.provider, u.reason)
}
