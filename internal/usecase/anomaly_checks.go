package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"TruthSource/internal/domain/models"
	"TruthSource/internal/domain/service"
	pkghttp "TruthSource/pkg/http"
	pkgkafka "TruthSource/pkg/kafka"
)

// AnomalyCheckHandler runs anomaly detection for requests arriving on Kafka.
// Results leave through the analysis event stream.
type AnomalyCheckHandler struct {
	topic    string
	detector *AnomalyDetector
}

var _ pkgkafka.MessageHandler = (*AnomalyCheckHandler)(nil)

func NewAnomalyCheckHandler(topic string, detector *AnomalyDetector) *AnomalyCheckHandler {
	return &AnomalyCheckHandler{topic: topic, detector: detector}
}

func (h *AnomalyCheckHandler) Topic() string { return h.topic }

// Handle accepts the same body as POST /api/v1/detect/anomalies. Malformed
// requests and an unconfigured oracle are not retried.
func (h *AnomalyCheckHandler) Handle(ctx context.Context, b []byte) error {
	var req models.AnomalyDetectionRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return pkgkafka.Permanent(fmt.Errorf("decode anomaly check: %w", err))
	}
	if errs := pkghttp.PrepareRequest(ctx, &req); len(errs) > 0 {
		return pkgkafka.Permanent(fmt.Errorf("invalid anomaly check: %s", describe(errs)))
	}

	if _, err := h.detector.Detect(WithSource(ctx, "kafka"), req); err != nil {
		if errors.Is(err, service.ErrOracleUnavailable) {
			return pkgkafka.Permanent(err)
		}
		return err
	}
	return nil
}

func describe(errs []pkghttp.ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Field != "" {
			parts = append(parts, e.Field+": "+e.Message)
		} else {
			parts = append(parts, e.Message)
		}
	}
	return strings.Join(parts, "; ")
}
