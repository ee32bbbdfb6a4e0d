package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalDistinguishesAbsentNullAndZero(t *testing.T) {
	var d DeliveryPredictionDraft
	require.NoError(t, json.Unmarshal([]byte(`{"confidence_score":0,"transit_days":null}`), &d))

	assert.True(t, d.ConfidenceScore.Set)
	assert.False(t, Filled(d.ConfidenceScore))
	assert.False(t, d.TransitDays.Set)
	assert.False(t, d.CarrierRecommendation.Set)
}

func TestOptionalMarshal(t *testing.T) {
	b, err := json.Marshal(struct {
		A Optional[int] `json:"a"`
		B Optional[int] `json:"b"`
	}{A: Some(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(b))
}

func TestFilledSlice(t *testing.T) {
	assert.False(t, FilledSlice(Optional[[]string]{}))
	assert.False(t, FilledSlice(Some([]string{})))
	assert.True(t, FilledSlice(Some([]string{"fedex"})))
}

func TestTimeWindow(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w := TimeWindow{Start: start, End: start.Add(time.Hour)}

	require.NoError(t, w.Validate())
	assert.True(t, w.Contains(start), "start is inclusive")
	assert.True(t, w.Contains(w.End), "end is inclusive")
	assert.False(t, w.Contains(w.End.Add(time.Nanosecond)))

	inverted := TimeWindow{Start: w.End, End: w.Start}
	assert.ErrorIs(t, inverted.Validate(), ErrInvertedWindow)

	assert.Equal(t, TimeWindow{Start: start.Add(-time.Hour), End: start}, TrailingWindow(start, time.Hour))
}

func TestRecordAccessors(t *testing.T) {
	ts := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	r := Record{
		"created_at": ts,
		"shipped_at": "2024-03-04 05:06:07",
		"quantity":   int64(12),
		"price":      "19.5",
		"status":     "delivered",
		"count":      7,
		"broken":     []int{1},
	}

	got, err := r.CreatedAt()
	require.NoError(t, err)
	assert.Equal(t, ts, got)

	shipped, err := r.Time("shipped_at")
	require.NoError(t, err)
	assert.Equal(t, ts, shipped)

	q, err := r.Float("quantity")
	require.NoError(t, err)
	assert.Equal(t, 12.0, q)

	_, err = r.Float("missing")
	assert.ErrorIs(t, err, ErrFieldMissing)
	_, err = r.Float("broken")
	assert.ErrorIs(t, err, ErrFieldType)
	_, err = r.Time("status")
	assert.ErrorIs(t, err, ErrFieldType)

	assert.Equal(t, "delivered", r.String("status"))
	assert.Equal(t, "7", r.String("count"))
	assert.Equal(t, "", r.String("missing"))
}

func TestRequestHelpers(t *testing.T) {
	var demand DemandForecastRequest
	assert.Equal(t, 30, demand.Days())
	assert.True(t, demand.Seasonality())

	delivery := DeliveryPredictionRequest{DestinationAddress: map[string]string{"postal_code": " 10001 "}}
	assert.Equal(t, "10001", delivery.DestinationZip())

	var anomaly AnomalyDetectionRequest
	assert.Equal(t, 0.5, anomaly.SensitivityValue())
	assert.True(t, anomaly.Recommendations())
}

func TestCarrierDaysFallsBackToStandard(t *testing.T) {
	p := CarrierProfile{ServiceLevels: map[ServiceLevel]int{ServiceStandard: 5}}
	d, ok := p.Days(ServiceOvernight)
	assert.True(t, ok)
	assert.Equal(t, 5, d)

	_, ok = CarrierProfile{}.Days(ServiceStandard)
	assert.False(t, ok)
}

func TestAnalyzable(t *testing.T) {
	assert.True(t, DataOrders.Analyzable())
	assert.False(t, DataDemandHistory.Analyzable())
}
