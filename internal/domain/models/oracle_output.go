package models

// Oracle output shapes. Top-level fields are Optional so that a field the
// oracle left out can be told apart from one it set to a zero value.
// Timestamps arrive as text and are parsed during normalization.

type ForecastItemDraft struct {
	ProductID       string   `json:"product_id"`
	WarehouseID     *string  `json:"warehouse_id"`
	Date            string   `json:"date"`
	PredictedDemand float64  `json:"predicted_demand"`
	ConfidenceScore float64  `json:"confidence_score"`
	SeasonalFactor  *float64 `json:"seasonal_factor"`
}

type DemandForecastDraft struct {
	Forecasts     Optional[[]ForecastItemDraft] `json:"forecasts"`
	ModelAccuracy Optional[float64]             `json:"model_accuracy"`
}

type DeliveryPredictionDraft struct {
	EstimatedDeliveryDate Optional[string]                   `json:"estimated_delivery_date"`
	ConfidenceScore       Optional[float64]                  `json:"confidence_score"`
	TransitDays           Optional[float64]                  `json:"transit_days"`
	CarrierRecommendation Optional[string]                   `json:"carrier_recommendation"`
	FactorsConsidered     Optional[[]string]                 `json:"factors_considered"`
	AlternativeOptions    Optional[[]map[string]interface{}] `json:"alternative_options"`
}

type AnomalyItemDraft struct {
	AnomalyType      string   `json:"anomaly_type"`
	Severity         string   `json:"severity"`
	Description      string   `json:"description"`
	AffectedEntities []string `json:"affected_entities"`
	DetectedAt       string   `json:"detected_at"`
	Recommendation   *string  `json:"recommendation"`
}

type AnomalyDetectionDraft struct {
	Anomalies            Optional[[]AnomalyItemDraft] `json:"anomalies"`
	TotalAnomalies       Optional[float64]            `json:"total_anomalies"`
	ModelConfidence      Optional[float64]            `json:"model_confidence"`
	NextCheckRecommended Optional[string]             `json:"next_check_recommended"`
}
