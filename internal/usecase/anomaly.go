package usecase

import (
	"context"

	"TruthSource/internal/domain/models"
	domrepo "TruthSource/internal/domain/repository"
	"TruthSource/internal/services/features"
	"TruthSource/internal/services/normalize"
	"TruthSource/internal/services/oracle"
	"TruthSource/internal/services/prompt"
)

// AnomalyDetector runs the anomaly detection pipeline.
type AnomalyDetector struct {
	pipeline
}

func NewAnomalyDetector(d Deps) *AnomalyDetector {
	return &AnomalyDetector{pipeline: newPipeline(d)}
}

// Detect expects a validated request with defaults applied. Recent patterns
// are derived from the same history, filtered to the recent window.
func (uc *AnomalyDetector) Detect(ctx context.Context, req models.AnomalyDetectionRequest) (*models.AnomalyDetectionResponse, error) {
	r := uc.begin(models.DomainAnomaly)
	now := uc.Clock()

	history := uc.Fetcher.Fetch(ctx, domrepo.RecordQuery{
		Tag:    req.DataType,
		Window: req.TimeRange,
	})
	r.records = len(history.Records)

	baseline := features.Baseline(req.DataType, history.Records)
	uc.absorbed(r, baseline.Dropped)

	actx := models.AnomalyContext{
		HistoryCount: len(history.Records),
		Baseline:     baseline.Metrics,
		Thresholds:   features.Thresholds(baseline.Metrics, req.SensitivityValue()),
		Recent:       features.RecentPatterns(history.Records, now, uc.Windows.Recent),
	}

	var draft models.AnomalyDetectionDraft
	if err := uc.Oracle.Invoke(ctx, prompt.AnomalyBrief(req, actx), oracle.AnomalySchema(), &draft); err != nil {
		uc.finish(ctx, r, 0, nil, err)
		return nil, err
	}

	resp := normalize.Anomaly(draft, req, len(history.Records), len(baseline.Metrics), now)
	uc.finish(ctx, r, resp.TotalAnomalies, resp, nil)
	return &resp, nil
}
