package api

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"TruthSource/internal/domain/models"
	"TruthSource/internal/domain/service"
	svcmetrics "TruthSource/internal/service/metrics"
	"TruthSource/internal/service/ratelimit"
	"TruthSource/internal/usecase"
	xhttp "TruthSource/pkg/http"
	"TruthSource/pkg/http/middleware"
	xlogger "TruthSource/pkg/logger"
)

const (
	endpointDemand   = "forecast_demand"
	endpointDelivery = "predict_delivery"
	endpointAnomaly  = "detect_anomalies"
)

// AnalysisEchoHandler exposes the three analysis pipelines and the health probe.
type AnalysisEchoHandler struct {
	logger   *xlogger.Logger
	demand   *usecase.DemandForecaster
	delivery *usecase.DeliveryPredictor
	anomaly  *usecase.AnomalyDetector
	health   *usecase.HealthReporter
	metrics  *svcmetrics.Endpoint
	limiter  *ratelimit.Limiter
}

func NewAnalysisEchoHandler(
	logger *xlogger.Logger,
	demand *usecase.DemandForecaster,
	delivery *usecase.DeliveryPredictor,
	anomaly *usecase.AnomalyDetector,
	health *usecase.HealthReporter,
	metrics *svcmetrics.Endpoint,
	limiter *ratelimit.Limiter,
) *AnalysisEchoHandler {
	if logger == nil {
		logger = xlogger.NewNop()
	}
	return &AnalysisEchoHandler{
		logger:   logger,
		demand:   demand,
		delivery: delivery,
		anomaly:  anomaly,
		health:   health,
		metrics:  metrics,
		limiter:  limiter,
	}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api/v1")
	if h.limiter != nil {
		g.Use(middleware.RateLimit(h.limiter))
	}
	g.POST("/forecast/demand", h.ForecastDemand)
	g.POST("/predict/delivery", h.PredictDelivery)
	g.POST("/detect/anomalies", h.DetectAnomalies)
}

func (h *AnalysisEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.health.Health(c.Request().Context()))
}

func (h *AnalysisEchoHandler) ForecastDemand(c echo.Context) error {
	start := time.Now()
	defer func() { h.metrics.Observe(endpointDemand, time.Since(start)) }()

	req := &models.DemandForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		h.metrics.Error(endpointDemand, "validation")
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.demand.Forecast(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, endpointDemand, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) PredictDelivery(c echo.Context) error {
	start := time.Now()
	defer func() { h.metrics.Observe(endpointDelivery, time.Since(start)) }()

	req := &models.DeliveryPredictionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		h.metrics.Error(endpointDelivery, "validation")
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.delivery.Predict(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, endpointDelivery, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) DetectAnomalies(c echo.Context) error {
	start := time.Now()
	defer func() { h.metrics.Observe(endpointAnomaly, time.Since(start)) }()

	req := &models.AnomalyDetectionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		h.metrics.Error(endpointAnomaly, "validation")
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.anomaly.Detect(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, endpointAnomaly, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	appErr := toAppError(err)
	h.metrics.Error(endpoint, appErr.Code)
	h.logger.Error("analysis failed",
		xlogger.String("endpoint", endpoint),
		xlogger.Int("status", appErr.Status),
		xlogger.Error(err),
	)
	return xhttp.AppErrorResponse(c, appErr)
}

// toAppError maps pipeline failures onto HTTP statuses: an oracle that was
// never configured is 503, any other oracle failure is 502.
func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, service.ErrOracleUnavailable) {
		return xhttp.ServiceUnavailableError("analysis oracle is not available").WithError(err)
	}
	var oe *service.OracleError
	if errors.As(err, &oe) {
		return xhttp.BadGatewayError("analysis oracle failed: " + string(oe.Kind)).WithError(err)
	}
	return xhttp.InternalError("internal error").WithError(err)
}
