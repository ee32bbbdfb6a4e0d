package normalize

import (
	"math"
	"strings"
	"time"

	"TruthSource/internal/domain/models"
	"TruthSource/pkg/util"
)

const (
	DefaultCarrier            = "FedEx"
	defaultDeliveryConfidence = 0.8
	defaultTransitDays        = 4
)

// DefaultFactors is reported when the oracle names none.
var DefaultFactors = []string{
	"Historical performance data",
	"Distance and route complexity",
	"Carrier performance metrics",
	"Weather conditions",
	"Service level requirements",
}

// Delivery completes a delivery prediction draft. A missing estimate is
// derived from the carrier's standard day count.
func Delivery(draft models.DeliveryPredictionDraft, carrier models.CarrierProfile, now time.Time) models.DeliveryPredictionResponse {
	resp := models.DeliveryPredictionResponse{
		ConfidenceScore:       defaultDeliveryConfidence,
		CarrierRecommendation: DefaultCarrier,
		FactorsConsidered:     append([]string(nil), DefaultFactors...),
		AlternativeOptions:    []map[string]interface{}{},
	}

	if t, ok := util.ParseTime(strings.TrimSpace(draft.EstimatedDeliveryDate.Value)); ok && !t.IsZero() {
		resp.EstimatedDeliveryDate = t
	} else {
		days, ok := carrier.Days(models.ServiceStandard)
		if !ok || days <= 0 {
			days = defaultTransitDays
		}
		resp.EstimatedDeliveryDate = now.Add(time.Duration(days) * day)
	}

	if models.Filled(draft.ConfidenceScore) {
		resp.ConfidenceScore = draft.ConfidenceScore.Value
	}

	if models.Filled(draft.TransitDays) {
		resp.TransitDays = int(draft.TransitDays.Value)
	}
	if resp.TransitDays == 0 {
		resp.TransitDays = wholeDays(resp.EstimatedDeliveryDate.Sub(now))
	}

	if c := strings.TrimSpace(draft.CarrierRecommendation.Value); c != "" {
		resp.CarrierRecommendation = c
	}
	if models.FilledSlice(draft.FactorsConsidered) {
		resp.FactorsConsidered = draft.FactorsConsidered.Value
	}
	if models.FilledSlice(draft.AlternativeOptions) {
		resp.AlternativeOptions = draft.AlternativeOptions.Value
	}
	return resp
}

// wholeDays floors d to days, never below zero.
func wholeDays(d time.Duration) int {
	days := int(math.Floor(d.Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
