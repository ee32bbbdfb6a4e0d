package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TruthSource/internal/domain/models"
	"TruthSource/internal/services/features"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func TestDemandPlaceholders(t *testing.T) {
	req := models.DemandForecastRequest{ProductIDs: []string{"p1", "p2"}, ForecastDays: intPtr(3)}
	draft := models.DemandForecastDraft{Forecasts: models.Some([]models.ForecastItemDraft{})}

	resp := Demand(draft, req, now)

	require.Len(t, resp.Forecasts, 3)
	for i, item := range resp.Forecasts {
		assert.Equal(t, now.Add(time.Duration(i)*24*time.Hour), item.Date)
		assert.Equal(t, "p1", item.ProductID)
		assert.Nil(t, item.WarehouseID)
		assert.Equal(t, 10.0, item.PredictedDemand)
		assert.Equal(t, 0.7, item.ConfidenceScore)
		require.NotNil(t, item.SeasonalFactor)
		assert.Equal(t, 1.0, *item.SeasonalFactor)
	}
	assert.Equal(t, 0.85, resp.ModelAccuracy)
	assert.Equal(t, now, resp.GeneratedAt)
	assert.Equal(t, 3, resp.ForecastHorizonDays)
}

func TestDemandPlaceholdersCappedAtAWeek(t *testing.T) {
	req := models.DemandForecastRequest{ProductIDs: []string{"p1"}, WarehouseIDs: []string{"w9"}, ForecastDays: intPtr(90)}

	resp := Demand(models.DemandForecastDraft{}, req, now)

	require.Len(t, resp.Forecasts, 7)
	require.NotNil(t, resp.Forecasts[0].WarehouseID)
	assert.Equal(t, "w9", *resp.Forecasts[0].WarehouseID)
	assert.Equal(t, 90, resp.ForecastHorizonDays)
}

func TestDemandKeepsOracleValues(t *testing.T) {
	req := models.DemandForecastRequest{ProductIDs: []string{"p1"}, ForecastDays: intPtr(30)}
	draft := models.DemandForecastDraft{
		Forecasts: models.Some([]models.ForecastItemDraft{
			{ProductID: "p1", Date: "2024-06-02T00:00:00Z", PredictedDemand: 42, ConfidenceScore: 0.9},
			{Date: "tomorrow-ish", PredictedDemand: 5, ConfidenceScore: 0.5},
		}),
		ModelAccuracy: models.Some(0.6),
	}

	resp := Demand(draft, req, now)

	require.Len(t, resp.Forecasts, 2)
	assert.Equal(t, 42.0, resp.Forecasts[0].PredictedDemand)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), resp.Forecasts[0].Date)
	assert.Equal(t, "p1", resp.Forecasts[1].ProductID)
	assert.Equal(t, now.Add(24*time.Hour), resp.Forecasts[1].Date)
	assert.Equal(t, 0.6, resp.ModelAccuracy)
	assert.Equal(t, 30, resp.ForecastHorizonDays)
}

func TestDemandZeroAccuracyDefaults(t *testing.T) {
	req := models.DemandForecastRequest{ProductIDs: []string{"p1"}}
	resp := Demand(models.DemandForecastDraft{ModelAccuracy: models.Some(0.0)}, req, now)

	assert.Equal(t, 0.85, resp.ModelAccuracy)
	assert.Equal(t, 30, resp.ForecastHorizonDays)
}

func TestDeliveryEmptyDraft(t *testing.T) {
	resp := Delivery(models.DeliveryPredictionDraft{}, features.CarrierPerformance("usps"), now)

	assert.Equal(t, now.Add(5*24*time.Hour), resp.EstimatedDeliveryDate)
	assert.Equal(t, 5, resp.TransitDays)
	assert.Equal(t, 0.8, resp.ConfidenceScore)
	assert.Equal(t, "FedEx", resp.CarrierRecommendation)
	assert.Equal(t, DefaultFactors, resp.FactorsConsidered)
	assert.NotNil(t, resp.AlternativeOptions)
}

func TestDeliveryWithoutCarrierData(t *testing.T) {
	resp := Delivery(models.DeliveryPredictionDraft{}, models.CarrierProfile{}, now)

	assert.Equal(t, now.Add(4*24*time.Hour), resp.EstimatedDeliveryDate)
	assert.Equal(t, 4, resp.TransitDays)
}

func TestDeliveryTransitFromOracleDate(t *testing.T) {
	draft := models.DeliveryPredictionDraft{
		EstimatedDeliveryDate: models.Some("2024-06-04T18:00:00Z"),
		TransitDays:           models.Some(0.0),
		ConfidenceScore:       models.Some(0.95),
		CarrierRecommendation: models.Some("UPS"),
		FactorsConsidered:     models.Some([]string{"distance"}),
	}

	resp := Delivery(draft, features.CompositeCarrier(), now)

	// 3 days 6 hours floors to 3
	assert.Equal(t, 3, resp.TransitDays)
	assert.Equal(t, 0.95, resp.ConfidenceScore)
	assert.Equal(t, "UPS", resp.CarrierRecommendation)
	assert.Equal(t, []string{"distance"}, resp.FactorsConsidered)
}

func TestDeliveryKeepsOracleTransitDays(t *testing.T) {
	draft := models.DeliveryPredictionDraft{TransitDays: models.Some(2.0)}
	resp := Delivery(draft, features.CompositeCarrier(), now)
	assert.Equal(t, 2, resp.TransitDays)
}

func TestDeliveryPastEstimate(t *testing.T) {
	draft := models.DeliveryPredictionDraft{EstimatedDeliveryDate: models.Some("2024-05-30T00:00:00Z")}
	resp := Delivery(draft, features.CompositeCarrier(), now)
	assert.Equal(t, 0, resp.TransitDays)
}

func anomalyRequest() models.AnomalyDetectionRequest {
	return models.AnomalyDetectionRequest{
		DataType:  models.DataOrders,
		TimeRange: models.TimeWindow{Start: now.Add(-7 * 24 * time.Hour), End: now},
	}
}

func TestAnomalyNoFindings(t *testing.T) {
	resp := Anomaly(models.AnomalyDetectionDraft{}, anomalyRequest(), 50, 6, now)

	assert.NotNil(t, resp.Anomalies)
	assert.Empty(t, resp.Anomalies)
	assert.Equal(t, 0, resp.TotalAnomalies)
	assert.InDelta(t, 0.55, resp.ModelConfidence, 1e-9)
	assert.Equal(t, now.Add(4*time.Hour), resp.NextCheckRecommended)
	assert.Equal(t, anomalyRequest().TimeRange, resp.AnalysisPeriod)
}

func TestAnomalyCountIsRecomputed(t *testing.T) {
	draft := models.AnomalyDetectionDraft{
		Anomalies: models.Some([]models.AnomalyItemDraft{
			{AnomalyType: "spike", Severity: "High", Description: "d"},
			{AnomalyType: "gap", Severity: "low", Description: "d", DetectedAt: "2024-06-01T10:00:00Z"},
		}),
		TotalAnomalies: models.Some(7.0),
	}

	resp := Anomaly(draft, anomalyRequest(), 500, 20, now)

	assert.Equal(t, 2, resp.TotalAnomalies)
	assert.Equal(t, models.SeverityHigh, resp.Anomalies[0].Severity)
	assert.Equal(t, now, resp.Anomalies[0].DetectedAt)
	assert.Equal(t, []string{}, resp.Anomalies[0].AffectedEntities)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), resp.Anomalies[1].DetectedAt)
	assert.Equal(t, 1.0, resp.ModelConfidence)
	assert.Equal(t, now.Add(time.Hour), resp.NextCheckRecommended)
}

func TestAnomalyCriticalRecheck(t *testing.T) {
	draft := models.AnomalyDetectionDraft{
		Anomalies: models.Some([]models.AnomalyItemDraft{
			{AnomalyType: "a", Severity: "medium"},
			{AnomalyType: "b", Severity: "critical"},
		}),
	}
	resp := Anomaly(draft, anomalyRequest(), 0, 0, now)

	assert.Equal(t, now.Add(15*time.Minute), resp.NextCheckRecommended)
	assert.Equal(t, 0.0, resp.ModelConfidence)
}

func TestAnomalyKeepsOracleValues(t *testing.T) {
	draft := models.AnomalyDetectionDraft{
		ModelConfidence:      models.Some(0.33),
		NextCheckRecommended: models.Some("2024-06-01T13:30:00Z"),
	}
	resp := Anomaly(draft, anomalyRequest(), 50, 6, now)

	assert.Equal(t, 0.33, resp.ModelConfidence)
	assert.Equal(t, time.Date(2024, 6, 1, 13, 30, 0, 0, time.UTC), resp.NextCheckRecommended)
}

func TestAnomalyRecommendations(t *testing.T) {
	draft := models.AnomalyDetectionDraft{
		Anomalies: models.Some([]models.AnomalyItemDraft{
			{AnomalyType: "a", Severity: "low", Recommendation: strPtr("recount stock")},
		}),
	}

	with := Anomaly(draft, anomalyRequest(), 10, 1, now)
	require.NotNil(t, with.Anomalies[0].Recommendation)
	assert.Equal(t, "recount stock", *with.Anomalies[0].Recommendation)

	req := anomalyRequest()
	req.IncludeRecommendations = boolPtr(false)
	without := Anomaly(draft, req, 10, 1, now)
	assert.Nil(t, without.Anomalies[0].Recommendation)
}

func TestDataSufficiency(t *testing.T) {
	assert.InDelta(t, 0.55, DataSufficiency(50, 6), 1e-9)
	assert.Equal(t, 1.0, DataSufficiency(1000, 40))
	assert.Equal(t, 0.0, DataSufficiency(0, 0))
}
