package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TruthSource/internal/domain/repository"
	"TruthSource/internal/domain/service"
	"TruthSource/pkg/logger"
)

// Guarded bounds every call with a deadline, normalizes foreign errors into
// *service.OracleError and records latency by outcome.
type Guarded struct {
	next    service.Oracle
	timeout time.Duration
	metrics repository.Metrics
	log     *logger.Logger
}

var _ service.Oracle = (*Guarded)(nil)

func NewGuarded(next service.Oracle, timeout time.Duration, m repository.Metrics, l *logger.Logger) *Guarded {
	if l == nil {
		l = logger.NewNop()
	}
	return &Guarded{next: next, timeout: timeout, metrics: m, log: l}
}

func (g *Guarded) Name() string { return g.next.Name() }

func (g *Guarded) Invoke(ctx context.Context, prompt service.Prompt, schema *service.Schema, dest interface{}) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	err := g.next.Invoke(ctx, prompt, schema, dest)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, service.ErrOracleUnavailable) {
			err = service.TransportFailure(g.Name(), fmt.Errorf("deadline of %s exceeded: %w", g.timeout, err))
		}
		oe := service.AsOracleError(g.Name(), err)
		err = oe
		outcome = string(oe.Kind)
		g.log.Error("oracle call failed",
			logger.String("provider", g.Name()),
			logger.String("schema", schemaName(schema)),
			logger.String("kind", outcome),
			logger.Duration("elapsed", elapsed),
			logger.Error(oe.Err),
		)
	}
	if g.metrics != nil {
		g.metrics.RecordOracleCall(g.Name(), outcome, elapsed)
	}
	return err
}

func schemaName(s *service.Schema) string {
	if s == nil || s.Name == "" {
		return "unnamed"
	}
	return s.Name
}
