package models

import "time"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type DemandForecastItem struct {
	ProductID       string    `json:"product_id"`
	WarehouseID     *string   `json:"warehouse_id"`
	Date            time.Time `json:"date"`
	PredictedDemand float64   `json:"predicted_demand"`
	ConfidenceScore float64   `json:"confidence_score"`
	SeasonalFactor  *float64  `json:"seasonal_factor"`
}

type DemandForecastResponse struct {
	Forecasts           []DemandForecastItem `json:"forecasts"`
	ModelAccuracy       float64              `json:"model_accuracy"`
	GeneratedAt         time.Time            `json:"generated_at"`
	ForecastHorizonDays int                  `json:"forecast_horizon_days"`
}

type DeliveryPredictionResponse struct {
	EstimatedDeliveryDate time.Time                `json:"estimated_delivery_date"`
	ConfidenceScore       float64                  `json:"confidence_score"`
	TransitDays           int                      `json:"transit_days"`
	CarrierRecommendation string                   `json:"carrier_recommendation"`
	FactorsConsidered     []string                 `json:"factors_considered"`
	AlternativeOptions    []map[string]interface{} `json:"alternative_options"`
}

type AnomalyItem struct {
	AnomalyType      string    `json:"anomaly_type"`
	Severity         Severity  `json:"severity"`
	Description      string    `json:"description"`
	AffectedEntities []string  `json:"affected_entities"`
	DetectedAt       time.Time `json:"detected_at"`
	Recommendation   *string   `json:"recommendation"`
}

type AnomalyDetectionResponse struct {
	Anomalies            []AnomalyItem `json:"anomalies"`
	TotalAnomalies       int           `json:"total_anomalies"`
	AnalysisPeriod       TimeWindow    `json:"analysis_period"`
	ModelConfidence      float64       `json:"model_confidence"`
	NextCheckRecommended time.Time     `json:"next_check_recommended"`
}

type HealthResponse struct {
	Status  string          `json:"status"`
	Service string          `json:"service"`
	Version string          `json:"version"`
	Agents  map[string]bool `json:"agents"`
}
