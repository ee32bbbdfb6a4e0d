package models

import (
	"fmt"
	"sort"
)

// BaselineMetrics maps metric name (avg_price, std_daily_orders, ...) to its value.
type BaselineMetrics map[string]float64

// AlertThresholds maps <metric>_threshold, <metric>_upper and <metric>_lower to bounds.
type AlertThresholds map[string]float64

// SeasonalProfile maps month (1-12) to that month's mean over the overall mean.
type SeasonalProfile map[int]float64

// MonthKey renders the month the way prompts and events name it.
func MonthKey(month int) string {
	return fmt.Sprintf("month_%d", month)
}

// SortedKeys returns the keys of a metric map in lexical order.
func SortedKeys[M ~map[string]float64](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RecentPatternSummary describes activity within the trailing recent window.
type RecentPatternSummary struct {
	TotalRecentRecords  int     `json:"total_recent_records"`
	RecentDataAvailable bool    `json:"recent_data_available"`
	DataFrequency       string  `json:"data_frequency"`
	PeakHour            *int    `json:"peak_hour,omitempty"`
	MinHour             *int    `json:"min_hour,omitempty"`
	HourlyVariance      float64 `json:"hourly_variance"`
}

// ServiceLevel is the shipping speed tier.
type ServiceLevel string

const (
	ServiceStandard  ServiceLevel = "standard"
	ServiceExpress   ServiceLevel = "express"
	ServiceOvernight ServiceLevel = "overnight"
)

// CarrierProfile is the static performance record for one carrier.
type CarrierProfile struct {
	Name               string               `json:"name"`
	OnTimeRate         float64              `json:"on_time_rate"`
	AverageTransitDays float64              `json:"average_transit_days"`
	ServiceLevels      map[ServiceLevel]int `json:"service_levels"`
	Composite          bool                 `json:"composite"`
}

// Days returns the day count for level, falling back to standard.
func (p CarrierProfile) Days(level ServiceLevel) (int, bool) {
	if d, ok := p.ServiceLevels[level]; ok {
		return d, true
	}
	d, ok := p.ServiceLevels[ServiceStandard]
	return d, ok
}

// DistanceEstimate is the zip-prefix route approximation.
type DistanceEstimate struct {
	EstimatedMiles        float64  `json:"estimated_miles"`
	EstimatedDrivingHours float64  `json:"estimated_driving_hours"`
	RouteComplexity       string   `json:"route_complexity"`
	MajorCitiesOnRoute    []string `json:"major_cities_on_route"`
	BorderCrossings       int      `json:"border_crossings"`
	Fallback              bool     `json:"fallback"`
}

// WeatherConditions is the route weather outlook.
type WeatherConditions struct {
	OriginWeather         string  `json:"origin_weather"`
	DestinationWeather    string  `json:"destination_weather"`
	RouteConditions       string  `json:"route_conditions"`
	SeasonalFactor        float64 `json:"seasonal_factor"`
	WeatherDelaysExpected bool    `json:"weather_delays_expected"`
}

// ExternalFactors is the market backdrop handed to demand forecasts.
type ExternalFactors struct {
	EconomicIndicator    string `json:"economic_indicator"`
	MarketTrend          string `json:"market_trend"`
	SupplyChainStatus    string `json:"supply_chain_status"`
	CompetitiveLandscape string `json:"competitive_landscape"`
}

// DemandContext is everything the demand brief is rendered from.
type DemandContext struct {
	HistoryCount int
	Baseline     BaselineMetrics
	Seasonal     SeasonalProfile // nil when seasonality was not requested
	External     ExternalFactors
}

// DeliveryContext is everything the delivery brief is rendered from.
type DeliveryContext struct {
	HistoryCount int
	Carrier      CarrierProfile
	Distance     DistanceEstimate
	Weather      WeatherConditions
}

// AnomalyContext is everything the anomaly brief is rendered from.
type AnomalyContext struct {
	HistoryCount int
	Baseline     BaselineMetrics
	Thresholds   AlertThresholds
	Recent       RecentPatternSummary
}
