package usecase

import (
	"context"

	"TruthSource/internal/domain/models"
	"TruthSource/internal/domain/service"
	"TruthSource/internal/services/oracle"
)

const (
	ServiceName    = "truthsource-ai"
	ServiceVersion = "1.0.0"
)

// HealthReporter reports which pipelines can reach a working oracle.
type HealthReporter struct {
	oracle service.Oracle
}

func NewHealthReporter(o service.Oracle) *HealthReporter {
	return &HealthReporter{oracle: o}
}

func (h *HealthReporter) Health(context.Context) models.HealthResponse {
	ready := oracle.Ready(h.oracle)
	return models.HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: ServiceVersion,
		Agents: map[string]bool{
			"demand_forecasting":  ready,
			"delivery_prediction": ready,
			"anomaly_detection":   ready,
		},
	}
}
