package normalize

import (
	"strings"
	"time"

	"TruthSource/internal/domain/models"
	"TruthSource/pkg/util"
)

const (
	placeholderDays       = 7
	placeholderDemand     = 10.0
	placeholderConfidence = 0.7
	placeholderSeasonal   = 1.0
	defaultModelAccuracy  = 0.85
)

const day = 24 * time.Hour

// Demand completes a demand forecast draft. generated_at and the horizon
// always come from the request and the clock.
func Demand(draft models.DemandForecastDraft, req models.DemandForecastRequest, now time.Time) models.DemandForecastResponse {
	resp := models.DemandForecastResponse{
		ModelAccuracy:       defaultModelAccuracy,
		GeneratedAt:         now,
		ForecastHorizonDays: req.Days(),
	}
	if models.Filled(draft.ModelAccuracy) {
		resp.ModelAccuracy = draft.ModelAccuracy.Value
	}

	for i, d := range draft.Forecasts.Value {
		resp.Forecasts = append(resp.Forecasts, demandItem(d, i, req, now))
	}
	if len(resp.Forecasts) == 0 {
		resp.Forecasts = placeholders(req, now)
	}
	return resp
}

func demandItem(d models.ForecastItemDraft, i int, req models.DemandForecastRequest, now time.Time) models.DemandForecastItem {
	item := models.DemandForecastItem{
		ProductID:       strings.TrimSpace(d.ProductID),
		WarehouseID:     d.WarehouseID,
		PredictedDemand: d.PredictedDemand,
		ConfidenceScore: d.ConfidenceScore,
		SeasonalFactor:  d.SeasonalFactor,
	}
	if item.ProductID == "" {
		item.ProductID = firstOr(req.ProductIDs, "")
	}
	item.Date = util.ParseTimeDefault(strings.TrimSpace(d.Date), now.Add(time.Duration(i)*day))
	return item
}

// placeholders is a flat forecast for the first requested product, one
// item per day for at most a week.
func placeholders(req models.DemandForecastRequest, now time.Time) []models.DemandForecastItem {
	n := min(req.Days(), placeholderDays)
	var warehouse *string
	if len(req.WarehouseIDs) > 0 {
		w := req.WarehouseIDs[0]
		warehouse = &w
	}

	items := make([]models.DemandForecastItem, 0, n)
	for i := 0; i < n; i++ {
		seasonal := placeholderSeasonal
		items = append(items, models.DemandForecastItem{
			ProductID:       firstOr(req.ProductIDs, ""),
			WarehouseID:     warehouse,
			Date:            now.Add(time.Duration(i) * day),
			PredictedDemand: placeholderDemand,
			ConfidenceScore: placeholderConfidence,
			SeasonalFactor:  &seasonal,
		})
	}
	return items
}

func firstOr(s []string, def string) string {
	if len(s) == 0 {
		return def
	}
	return s[0]
}
