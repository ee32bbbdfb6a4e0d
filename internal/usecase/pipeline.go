package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"TruthSource/internal/domain/models"
	domrepo "TruthSource/internal/domain/repository"
	"TruthSource/internal/domain/service"
	"TruthSource/internal/services/features"
	"TruthSource/pkg/logger"
)

const eventPublishTimeout = 3 * time.Second

// Windows are the history spans each pipeline reads.
type Windows struct {
	DemandLookback   time.Duration
	DeliveryLookback time.Duration
	Recent           time.Duration
}

// DefaultWindows returns the lookback periods used when Deps leaves them unset.
func DefaultWindows() Windows {
	return Windows{
		DemandLookback:   365 * 24 * time.Hour,
		DeliveryLookback: 180 * 24 * time.Hour,
		Recent:           features.DefaultRecentWindow,
	}
}

// Deps are the collaborators shared by every pipeline. They are read-only
// after construction.
type Deps struct {
	Fetcher    domrepo.RecordFetcher
	Warehouses domrepo.WarehouseDirectory
	Oracle     service.Oracle
	Events     domrepo.EventPublisher
	Metrics    domrepo.Metrics
	Logger     *logger.Logger
	Clock      func() time.Time
	Windows    Windows
}

type pipeline struct {
	Deps
}

func newPipeline(d Deps) pipeline {
	if d.Logger == nil {
		d.Logger = logger.NewNop()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Windows == (Windows{}) {
		d.Windows = DefaultWindows()
	}
	return pipeline{Deps: d}
}

type sourceKey struct{}

// WithSource tags ctx with the entry point (http, kafka) reported on analysis events.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

func sourceOf(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey{}).(string); ok && s != "" {
		return s
	}
	return "http"
}

// run is the bookkeeping for one pipeline execution.
type run struct {
	id      string
	domain  string
	started time.Time
	records int
}

func (p pipeline) begin(domain string) *run {
	return &run{id: uuid.NewString(), domain: domain, started: time.Now()}
}

// absorbed logs feature computations that degraded to defaults.
func (p pipeline) absorbed(r *run, dropped []*features.ComputationError) {
	for _, ce := range dropped {
		p.Logger.Warn("feature computation dropped",
			logger.String("request_id", r.id),
			logger.String("domain", r.domain),
			logger.String("family", ce.Family),
			logger.Error(ce.Err),
		)
		if p.Metrics != nil {
			p.Metrics.RecordAbsorbed(ce.Family)
		}
	}
}

// finish records metrics and publishes the AnalysisEvent. Publish failures
// are logged and never change the outcome.
func (p pipeline) finish(ctx context.Context, r *run, resultCount int, payload interface{}, err error) {
	elapsed := time.Since(r.started)
	outcome := models.EventStatusOK
	if err != nil {
		outcome = models.EventStatusError
		var oe *service.OracleError
		if errors.As(err, &oe) {
			outcome = string(oe.Kind)
		}
	}
	if p.Metrics != nil {
		p.Metrics.RecordPipeline(r.domain, outcome, elapsed)
	}

	event := &models.AnalysisEvent{
		RequestID:   r.id,
		Domain:      r.domain,
		Status:      models.EventStatusOK,
		RecordCount: r.records,
		ResultCount: resultCount,
		DurationMs:  elapsed.Milliseconds(),
		Oracle:      p.Oracle.Name(),
		Source:      sourceOf(ctx),
		OccurredAt:  p.Clock(),
		Payload:     payload,
	}
	if err != nil {
		event.Status = models.EventStatusError
		event.Error = err.Error()
		event.Payload = nil
	}

	p.Logger.Info("analysis finished",
		logger.String("request_id", r.id),
		logger.String("domain", r.domain),
		logger.String("outcome", outcome),
		logger.Int("records", r.records),
		logger.Int("results", resultCount),
		logger.Duration("elapsed", elapsed),
	)

	if p.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	if perr := p.Events.PublishEvent(pubCtx, event); perr != nil {
		p.Logger.Warn("analysis event not published",
			logger.String("request_id", r.id),
			logger.Error(perr),
		)
	}
}
