package repository

import (
	"context"
	"time"

	"TruthSource/internal/domain/models"
)

// RecordQuery selects one family of records. Empty filters match everything.
type RecordQuery struct {
	Tag          models.DataType
	Window       models.TimeWindow
	ProductIDs   []string
	WarehouseIDs []string
	Carrier      string
}

// RecordSource returns records ascending by created_at, window bounds inclusive.
// A source that caps its result keeps the newest rows.
type RecordSource interface {
	FetchRecords(ctx context.Context, q RecordQuery) ([]models.Record, error)
}

// FetchResult carries records or the failure that was absorbed while
// fetching them. Records is empty whenever Err is set.
type FetchResult struct {
	Records []models.Record
	Err     error
}

// RecordFetcher is the fail-soft front of a RecordSource. It never fails;
// Err tells "no rows" apart from "could not read".
type RecordFetcher interface {
	Fetch(ctx context.Context, q RecordQuery) FetchResult
}

// WarehouseDirectory resolves warehouse attributes needed by the delivery pipeline.
type WarehouseDirectory interface {
	PostalCode(ctx context.Context, warehouseID string) (string, error)
}

// EventPublisher ships AnalysisEvents downstream.
type EventPublisher interface {
	PublishEvent(ctx context.Context, e *models.AnalysisEvent) error
	Close() error
}

type Metrics interface {
	RecordPipeline(domain, outcome string, d time.Duration)
	RecordOracleCall(provider, outcome string, d time.Duration)
	RecordFetch(tag string, records int, failed bool)
	RecordAbsorbed(family string)
	RecordTruncated(tag string)
}
