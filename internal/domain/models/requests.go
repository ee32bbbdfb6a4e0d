package models

import "strings"

type DemandForecastRequest struct {
	ProductIDs         []string `json:"product_ids" validate:"required,min=1,dive,required"`
	WarehouseIDs       []string `json:"warehouse_ids" validate:"omitempty,dive,required"`
	ForecastDays       *int     `json:"forecast_days" default:"30" validate:"required,gte=1,lte=365"`
	IncludeSeasonality *bool    `json:"include_seasonality" default:"true"`
}

func (r DemandForecastRequest) Days() int {
	if r.ForecastDays == nil {
		return 30
	}
	return *r.ForecastDays
}

func (r DemandForecastRequest) Seasonality() bool {
	return r.IncludeSeasonality == nil || *r.IncludeSeasonality
}

type DeliveryPredictionRequest struct {
	OriginWarehouse    string            `json:"origin_warehouse" validate:"required"`
	DestinationAddress map[string]string `json:"destination_address" validate:"required"`
	ProductIDs         []string          `json:"product_ids" validate:"required,min=1,dive,required"`
	Carrier            string            `json:"carrier,omitempty"`
	ServiceLevel       ServiceLevel      `json:"service_level" default:"standard" validate:"oneof=standard express overnight"`
}

// DestinationZip accepts the common spellings of the postal code key.
func (r DeliveryPredictionRequest) DestinationZip() string {
	for _, k := range []string{"zip", "zip_code", "postal_code"} {
		if v := strings.TrimSpace(r.DestinationAddress[k]); v != "" {
			return v
		}
	}
	return ""
}

type AnomalyDetectionRequest struct {
	DataType               DataType   `json:"data_type" validate:"required,oneof=inventory pricing orders"`
	TimeRange              TimeWindow `json:"time_range"`
	Sensitivity            *float64   `json:"sensitivity" default:"0.5" validate:"required,gte=0,lte=1"`
	IncludeRecommendations *bool      `json:"include_recommendations" default:"true"`
}

// Validate rejects inverted windows.
func (r AnomalyDetectionRequest) Validate() error {
	return r.TimeRange.Validate()
}

func (r AnomalyDetectionRequest) SensitivityValue() float64 {
	if r.Sensitivity == nil {
		return 0.5
	}
	return *r.Sensitivity
}

func (r AnomalyDetectionRequest) Recommendations() bool {
	return r.IncludeRecommendations == nil || *r.IncludeRecommendations
}
