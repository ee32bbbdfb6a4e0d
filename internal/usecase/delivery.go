package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"TruthSource/internal/domain/models"
	domrepo "TruthSource/internal/domain/repository"
	"TruthSource/internal/services/features"
	"TruthSource/internal/services/normalize"
	"TruthSource/internal/services/oracle"
	"TruthSource/internal/services/prompt"
	"TruthSource/pkg/logger"
)

// DeliveryPredictor runs the delivery prediction pipeline.
type DeliveryPredictor struct {
	pipeline
}

func NewDeliveryPredictor(d Deps) *DeliveryPredictor {
	return &DeliveryPredictor{pipeline: newPipeline(d)}
}

// Predict expects a validated request with defaults applied.
func (uc *DeliveryPredictor) Predict(ctx context.Context, req models.DeliveryPredictionRequest) (*models.DeliveryPredictionResponse, error) {
	r := uc.begin(models.DomainDelivery)
	now := uc.Clock()

	// history and the origin postal code are independent lookups; neither can fail the group
	var (
		history   domrepo.FetchResult
		originZip string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		history = uc.Fetcher.Fetch(gctx, domrepo.RecordQuery{
			Tag:          models.DataDeliveryHistory,
			Window:       models.TrailingWindow(now, uc.Windows.DeliveryLookback),
			WarehouseIDs: []string{req.OriginWarehouse},
			Carrier:      req.Carrier,
		})
		return nil
	})
	g.Go(func() error {
		originZip = uc.originPostalCode(gctx, r, req.OriginWarehouse)
		return nil
	})
	_ = g.Wait()
	r.records = len(history.Records)

	carrier := features.CompositeCarrier()
	if req.Carrier != "" {
		carrier = features.CarrierPerformance(req.Carrier)
	}
	destZip := req.DestinationZip()

	dctx := models.DeliveryContext{
		HistoryCount: len(history.Records),
		Carrier:      carrier,
		Distance:     features.EstimateDistance(originZip, destZip),
		Weather:      features.WeatherOutlook(req.OriginWarehouse, destZip),
	}

	var draft models.DeliveryPredictionDraft
	if err := uc.Oracle.Invoke(ctx, prompt.DeliveryBrief(req, dctx), oracle.DeliverySchema(), &draft); err != nil {
		uc.finish(ctx, r, 0, nil, err)
		return nil, err
	}

	resp := normalize.Delivery(draft, carrier, now)
	uc.finish(ctx, r, 1, resp, nil)
	return &resp, nil
}

// originPostalCode degrades to "" (the default distance) when the directory cannot answer.
func (uc *DeliveryPredictor) originPostalCode(ctx context.Context, r *run, warehouseID string) string {
	if uc.Warehouses == nil {
		return ""
	}
	zip, err := uc.Warehouses.PostalCode(ctx, warehouseID)
	if err != nil {
		uc.Logger.Warn("warehouse lookup failed, using default distance",
			logger.String("request_id", r.id),
			logger.String("warehouse_id", warehouseID),
			logger.Error(err),
		)
		if uc.Metrics != nil {
			uc.Metrics.RecordAbsorbed("warehouse")
		}
		return ""
	}
	return zip
}
