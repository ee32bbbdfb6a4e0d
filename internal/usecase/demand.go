package usecase

import (
	"context"
	"errors"

	"TruthSource/internal/domain/models"
	domrepo "TruthSource/internal/domain/repository"
	"TruthSource/internal/services/features"
	"TruthSource/internal/services/normalize"
	"TruthSource/internal/services/oracle"
	"TruthSource/internal/services/prompt"
)

const demandColumn = "quantity"

// DemandForecaster runs the demand forecast pipeline.
type DemandForecaster struct {
	pipeline
}

func NewDemandForecaster(d Deps) *DemandForecaster {
	return &DemandForecaster{pipeline: newPipeline(d)}
}

// Forecast expects a validated request with defaults applied.
func (uc *DemandForecaster) Forecast(ctx context.Context, req models.DemandForecastRequest) (*models.DemandForecastResponse, error) {
	r := uc.begin(models.DomainDemand)
	now := uc.Clock()

	history := uc.Fetcher.Fetch(ctx, domrepo.RecordQuery{
		Tag:          models.DataDemandHistory,
		Window:       models.TrailingWindow(now, uc.Windows.DemandLookback),
		ProductIDs:   req.ProductIDs,
		WarehouseIDs: req.WarehouseIDs,
	})
	r.records = len(history.Records)

	baseline := features.Baseline(models.DataDemandHistory, history.Records)
	uc.absorbed(r, baseline.Dropped)

	dctx := models.DemandContext{
		HistoryCount: len(history.Records),
		Baseline:     baseline.Metrics,
		External:     features.MarketFactors(),
	}
	if req.Seasonality() {
		profile, err := features.Seasonal(history.Records, demandColumn)
		var ce *features.ComputationError
		if errors.As(err, &ce) {
			uc.absorbed(r, []*features.ComputationError{ce})
		}
		dctx.Seasonal = profile
	}

	var draft models.DemandForecastDraft
	if err := uc.Oracle.Invoke(ctx, prompt.DemandBrief(req, dctx), oracle.DemandSchema(), &draft); err != nil {
		uc.finish(ctx, r, 0, nil, err)
		return nil, err
	}

	resp := normalize.Demand(draft, req, now)
	uc.finish(ctx, r, len(resp.Forecasts), resp, nil)
	return &resp, nil
}
