package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TruthSource/internal/domain/models"
	domrepo "TruthSource/internal/domain/repository"
	"TruthSource/internal/domain/service"
	"TruthSource/internal/repository"
	"TruthSource/pkg/metrics"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

type fakeSource struct {
	mu      sync.Mutex
	records []models.Record
	err     error
	queries []domrepo.RecordQuery
}

func (s *fakeSource) FetchRecords(_ context.Context, q domrepo.RecordQuery) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	return s.records, s.err
}

type fakeOracle struct {
	output  string
	err     error
	prompts []service.Prompt
}

func (o *fakeOracle) Name() string { return "fake" }

func (o *fakeOracle) Invoke(_ context.Context, p service.Prompt, schema *service.Schema, dest interface{}) error {
	o.prompts = append(o.prompts, p)
	if o.err != nil {
		return o.err
	}
	return service.DecodeChecked(o.Name(), []byte(o.output), schema, dest)
}

type fakeEvents struct {
	mu     sync.Mutex
	events []*models.AnalysisEvent
	err    error
}

func (e *fakeEvents) PublishEvent(_ context.Context, ev *models.AnalysisEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
	return e.err
}

func (e *fakeEvents) Close() error { return nil }

type fakeWarehouses struct {
	zip string
	err error
}

func (w fakeWarehouses) PostalCode(context.Context, string) (string, error) { return w.zip, w.err }

func deps(src *fakeSource, o *fakeOracle, ev *fakeEvents) Deps {
	return Deps{
		Fetcher: repository.NewRecordFetcher(src, metrics.Nop{}, nil),
		Oracle:  o,
		Events:  ev,
		Metrics: metrics.Nop{},
		Clock:   clock,
	}
}

func orders(n int, start time.Time) []models.Record {
	out := make([]models.Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Record{
			"created_at":   start.Add(time.Duration(i) * 3 * time.Hour),
			"id":           fmt.Sprintf("o-%d", i),
			"total_amount": 100.0 + float64(i%5)*10,
		})
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func TestDetectAnomaliesEndToEnd(t *testing.T) {
	window := models.TimeWindow{Start: now.Add(-7 * 24 * time.Hour), End: now}
	src := &fakeSource{records: orders(50, window.Start)}
	o := &fakeOracle{output: `{"anomalies":[]}`}
	ev := &fakeEvents{}

	resp, err := NewAnomalyDetector(deps(src, o, ev)).Detect(context.Background(), models.AnomalyDetectionRequest{
		DataType:    models.DataOrders,
		TimeRange:   window,
		Sensitivity: floatPtr(0.5),
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Anomalies)
	assert.Equal(t, 0, resp.TotalAnomalies)
	// 50 records and 6 baseline metrics
	assert.InDelta(t, 0.55, resp.ModelConfidence, 1e-9)
	assert.Equal(t, now.Add(4*time.Hour), resp.NextCheckRecommended)
	assert.Equal(t, window, resp.AnalysisPeriod)

	require.Len(t, src.queries, 1)
	assert.Equal(t, models.DataOrders, src.queries[0].Tag)
	assert.Equal(t, window, src.queries[0].Window)

	require.Len(t, o.prompts, 1)
	assert.Contains(t, o.prompts[0].User, "- Total records analyzed: 50")
	assert.Contains(t, o.prompts[0].User, "avg_order_value")
	assert.Contains(t, o.prompts[0].User, "std_order_value_threshold")

	require.Len(t, ev.events, 1)
	assert.Equal(t, models.DomainAnomaly, ev.events[0].Domain)
	assert.Equal(t, models.EventStatusOK, ev.events[0].Status)
	assert.Equal(t, 50, ev.events[0].RecordCount)
	assert.Equal(t, "http", ev.events[0].Source)
	assert.NotEmpty(t, ev.events[0].RequestID)
}

func TestDetectAnomaliesWithFailingSource(t *testing.T) {
	src := &fakeSource{err: errors.New("clickhouse down")}
	o := &fakeOracle{output: `{"anomalies":[{"anomaly_type":"gap","severity":"critical","description":"no data"}]}`}

	resp, err := NewAnomalyDetector(deps(src, o, &fakeEvents{})).Detect(context.Background(), models.AnomalyDetectionRequest{
		DataType:  models.DataInventory,
		TimeRange: models.TimeWindow{Start: now.Add(-time.Hour), End: now},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.TotalAnomalies)
	assert.Equal(t, 0.0, resp.ModelConfidence)
	assert.Equal(t, now.Add(15*time.Minute), resp.NextCheckRecommended)
	assert.Contains(t, o.prompts[0].User, "- Total records analyzed: 0")
}

func TestOracleFailureIsTerminal(t *testing.T) {
	ev := &fakeEvents{}
	o := &fakeOracle{err: service.Unavailable("fake", errors.New("not configured"))}

	resp, err := NewAnomalyDetector(deps(&fakeSource{}, o, ev)).Detect(context.Background(), models.AnomalyDetectionRequest{
		DataType:  models.DataPricing,
		TimeRange: models.TimeWindow{Start: now.Add(-time.Hour), End: now},
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, service.ErrOracleUnavailable)
	require.Len(t, ev.events, 1)
	assert.Equal(t, models.EventStatusError, ev.events[0].Status)
	assert.Nil(t, ev.events[0].Payload)
}

func TestOracleSchemaViolationSurfaces(t *testing.T) {
	o := &fakeOracle{output: `{"forecasts":"soon"}`}

	_, err := NewDemandForecaster(deps(&fakeSource{}, o, &fakeEvents{})).Forecast(context.Background(), models.DemandForecastRequest{
		ProductIDs: []string{"p1"},
	})
	assert.ErrorIs(t, err, service.ErrOracleSchema)
}

func TestEventPublishFailureIsIgnored(t *testing.T) {
	ev := &fakeEvents{err: errors.New("kafka down")}
	o := &fakeOracle{output: `{"forecasts":[]}`}

	resp, err := NewDemandForecaster(deps(&fakeSource{}, o, ev)).Forecast(context.Background(), models.DemandForecastRequest{
		ProductIDs:   []string{"p1"},
		ForecastDays: intPtr(3),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Forecasts, 3)
	assert.Len(t, ev.events, 1)
}

func TestForecastDemandQueriesHistory(t *testing.T) {
	src := &fakeSource{records: []models.Record{
		{"created_at": time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "quantity": 4.0},
		{"created_at": time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), "quantity": 8.0},
	}}
	o := &fakeOracle{output: `{"forecasts":[{"product_id":"p1","date":"2024-06-02T00:00:00Z","predicted_demand":6,"confidence_score":0.8}],"model_accuracy":0.9}`}

	resp, err := NewDemandForecaster(deps(src, o, &fakeEvents{})).Forecast(context.Background(), models.DemandForecastRequest{
		ProductIDs:   []string{"p1"},
		WarehouseIDs: []string{"w1"},
		ForecastDays: intPtr(14),
	})
	require.NoError(t, err)

	require.Len(t, src.queries, 1)
	q := src.queries[0]
	assert.Equal(t, models.DataDemandHistory, q.Tag)
	assert.Equal(t, []string{"p1"}, q.ProductIDs)
	assert.Equal(t, []string{"w1"}, q.WarehouseIDs)
	assert.Equal(t, now.Add(-365*24*time.Hour), q.Window.Start)
	assert.Equal(t, now, q.Window.End)

	assert.Contains(t, o.prompts[0].User, "- month_1: 0.6667")
	assert.Contains(t, o.prompts[0].User, "- month_2: 1.3333")

	assert.Len(t, resp.Forecasts, 1)
	assert.Equal(t, 0.9, resp.ModelAccuracy)
	assert.Equal(t, 14, resp.ForecastHorizonDays)
	assert.Equal(t, now, resp.GeneratedAt)
}

func TestPredictDeliveryUsesOriginAndCarrier(t *testing.T) {
	src := &fakeSource{}
	o := &fakeOracle{output: `{}`}
	d := deps(src, o, &fakeEvents{})
	d.Warehouses = fakeWarehouses{zip: "10001"}

	resp, err := NewDeliveryPredictor(d).Predict(context.Background(), models.DeliveryPredictionRequest{
		OriginWarehouse:    "w1",
		DestinationAddress: map[string]string{"city": "Austin", "state": "TX", "zip": "78701"},
		ProductIDs:         []string{"p1"},
		Carrier:            "usps",
		ServiceLevel:       models.ServiceStandard,
	})
	require.NoError(t, err)

	require.Len(t, src.queries, 1)
	assert.Equal(t, models.DataDeliveryHistory, src.queries[0].Tag)
	assert.Equal(t, []string{"w1"}, src.queries[0].WarehouseIDs)
	assert.Equal(t, "usps", src.queries[0].Carrier)
	assert.Equal(t, now.Add(-180*24*time.Hour), src.queries[0].Window.Start)

	assert.Contains(t, o.prompts[0].User, "- profile: USPS")
	assert.Contains(t, o.prompts[0].User, "- estimated_miles: 3000")

	// USPS standard is five days
	assert.Equal(t, now.Add(5*24*time.Hour), resp.EstimatedDeliveryDate)
	assert.Equal(t, 5, resp.TransitDays)
	assert.Equal(t, "FedEx", resp.CarrierRecommendation)
}

func TestPredictDeliveryWarehouseLookupFails(t *testing.T) {
	o := &fakeOracle{output: `{"carrier_recommendation":"UPS"}`}
	d := deps(&fakeSource{}, o, &fakeEvents{})
	d.Warehouses = fakeWarehouses{err: errors.New("unknown warehouse")}

	resp, err := NewDeliveryPredictor(d).Predict(context.Background(), models.DeliveryPredictionRequest{
		OriginWarehouse:    "w404",
		DestinationAddress: map[string]string{"zip": "78701"},
		ProductIDs:         []string{"p1"},
	})
	require.NoError(t, err)

	assert.Contains(t, o.prompts[0].User, "- estimated_miles: 500")
	assert.Contains(t, o.prompts[0].User, "- profile: composite average of known carriers")
	assert.Equal(t, "UPS", resp.CarrierRecommendation)
	assert.Equal(t, 4, resp.TransitDays)
}

func TestAnomalyCheckHandler(t *testing.T) {
	src := &fakeSource{records: orders(10, now.Add(-24*time.Hour))}
	ev := &fakeEvents{}
	h := NewAnomalyCheckHandler("anomaly-checks", NewAnomalyDetector(deps(src, &fakeOracle{output: `{"anomalies":[]}`}, ev)))

	assert.Equal(t, "anomaly-checks", h.Topic())

	body := `{"data_type":"orders","time_range":{"start":"2024-05-31T12:00:00Z","end":"2024-06-01T12:00:00Z"}}`
	require.NoError(t, h.Handle(context.Background(), []byte(body)))

	require.Len(t, ev.events, 1)
	assert.Equal(t, "kafka", ev.events[0].Source)
	resp, ok := ev.events[0].Payload.(models.AnomalyDetectionResponse)
	require.True(t, ok)
	assert.Equal(t, 0, resp.TotalAnomalies)
}

func TestAnomalyCheckHandlerRejectsBadInput(t *testing.T) {
	h := NewAnomalyCheckHandler("anomaly-checks", NewAnomalyDetector(deps(&fakeSource{}, &fakeOracle{}, &fakeEvents{})))

	for _, body := range []string{
		`not json`,
		`{"data_type":"weather","time_range":{"start":"2024-05-31T12:00:00Z","end":"2024-06-01T12:00:00Z"}}`,
		`{"data_type":"orders","time_range":{"start":"2024-06-02T12:00:00Z","end":"2024-06-01T12:00:00Z"}}`,
		`{"data_type":"orders","sensitivity":3,"time_range":{"start":"2024-05-31T12:00:00Z","end":"2024-06-01T12:00:00Z"}}`,
	} {
		err := h.Handle(context.Background(), []byte(body))
		var permanent *backoff.PermanentError
		assert.True(t, errors.As(err, &permanent), body)
	}
}
