package models

import "time"

// AnalysisEvent is emitted once per pipeline run.
type AnalysisEvent struct {
	RequestID   string      `json:"request_id"`
	Domain      string      `json:"domain"`
	Status      string      `json:"status"`
	Error       string      `json:"error,omitempty"`
	RecordCount int         `json:"record_count"`
	ResultCount int         `json:"result_count"`
	DurationMs  int64       `json:"duration_ms"`
	Oracle      string      `json:"oracle"`
	Source      string      `json:"source"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Payload     interface{} `json:"payload,omitempty"`
}

const (
	DomainDemand   = "demand_forecast"
	DomainDelivery = "delivery_prediction"
	DomainAnomaly  = "anomaly_detection"

	EventStatusOK    = "ok"
	EventStatusError = "error"
)
