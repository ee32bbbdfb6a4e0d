package repository

import (
	"context"

	"TruthSource/internal/domain/models"
	"TruthSource/internal/domain/repository"
	"TruthSource/pkg/logger"
)

// RecordFetcher turns source failures into an empty result so a pipeline
// always reaches the oracle.
type RecordFetcher struct {
	source  repository.RecordSource
	metrics repository.Metrics
	log     *logger.Logger
}

var _ repository.RecordFetcher = (*RecordFetcher)(nil)

func NewRecordFetcher(source repository.RecordSource, m repository.Metrics, l *logger.Logger) *RecordFetcher {
	if l == nil {
		l = logger.NewNop()
	}
	return &RecordFetcher{source: source, metrics: m, log: l}
}

func (f *RecordFetcher) Fetch(ctx context.Context, q repository.RecordQuery) repository.FetchResult {
	if err := q.Window.Validate(); err != nil {
		return f.absorb(q, err)
	}

	records, err := f.source.FetchRecords(ctx, q)
	if err != nil {
		return f.absorb(q, err)
	}
	if records == nil {
		records = []models.Record{}
	}
	f.record(q.Tag, len(records), false)
	return repository.FetchResult{Records: records}
}

func (f *RecordFetcher) absorb(q repository.RecordQuery, err error) repository.FetchResult {
	f.log.Warn("record fetch failed, continuing with empty history",
		logger.String("tag", string(q.Tag)),
		logger.Time("window_start", q.Window.Start),
		logger.Time("window_end", q.Window.End),
		logger.Error(err),
	)
	f.record(q.Tag, 0, true)
	return repository.FetchResult{Records: []models.Record{}, Err: err}
}

func (f *RecordFetcher) record(tag models.DataType, n int, failed bool) {
	if f.metrics != nil {
		f.metrics.RecordFetch(string(tag), n, failed)
	}
}
