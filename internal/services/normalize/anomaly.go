package normalize

import (
	"math"
	"strings"
	"time"

	"TruthSource/internal/domain/models"
	"TruthSource/pkg/util"
)

const (
	criticalRecheck = 15 * time.Minute
	anomalyRecheck  = time.Hour
	quietRecheck    = 4 * time.Hour
)

// Anomaly completes an anomaly detection draft. total_anomalies is always
// the length of the returned list.
func Anomaly(draft models.AnomalyDetectionDraft, req models.AnomalyDetectionRequest, historyCount, baselineCount int, now time.Time) models.AnomalyDetectionResponse {
	resp := models.AnomalyDetectionResponse{
		Anomalies:      make([]models.AnomalyItem, 0, len(draft.Anomalies.Value)),
		AnalysisPeriod: req.TimeRange,
	}

	for _, d := range draft.Anomalies.Value {
		resp.Anomalies = append(resp.Anomalies, anomalyItem(d, req.Recommendations(), now))
	}
	resp.TotalAnomalies = len(resp.Anomalies)

	if models.Filled(draft.ModelConfidence) {
		resp.ModelConfidence = draft.ModelConfidence.Value
	} else {
		resp.ModelConfidence = DataSufficiency(historyCount, baselineCount)
	}

	if t, ok := util.ParseTime(strings.TrimSpace(draft.NextCheckRecommended.Value)); ok && !t.IsZero() {
		resp.NextCheckRecommended = t
	} else {
		resp.NextCheckRecommended = now.Add(recheckAfter(resp.Anomalies))
	}
	return resp
}

// DataSufficiency averages how close the history and the baseline are to
// 100 records and 10 metrics respectively.
func DataSufficiency(historyCount, baselineCount int) float64 {
	return (math.Min(float64(historyCount)/100, 1) + math.Min(float64(baselineCount)/10, 1)) / 2
}

func recheckAfter(anomalies []models.AnomalyItem) time.Duration {
	if len(anomalies) == 0 {
		return quietRecheck
	}
	for _, a := range anomalies {
		if a.Severity == models.SeverityCritical {
			return criticalRecheck
		}
	}
	return anomalyRecheck
}

func anomalyItem(d models.AnomalyItemDraft, withRecommendation bool, now time.Time) models.AnomalyItem {
	item := models.AnomalyItem{
		AnomalyType:      d.AnomalyType,
		Severity:         models.Severity(strings.ToLower(strings.TrimSpace(d.Severity))),
		Description:      d.Description,
		AffectedEntities: d.AffectedEntities,
		DetectedAt:       now,
	}
	if item.AffectedEntities == nil {
		item.AffectedEntities = []string{}
	}
	if t, ok := util.ParseTime(strings.TrimSpace(d.DetectedAt)); ok && !t.IsZero() {
		item.DetectedAt = t
	}
	if withRecommendation {
		item.Recommendation = d.Recommendation
	}
	return item
}
