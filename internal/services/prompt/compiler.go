package prompt

import (
	"fmt"
	"strconv"

	"TruthSource/internal/domain/models"
	"TruthSource/internal/domain/service"
)

// The compiler is a pure serialization of request parameters and analysis
// context. Identical inputs always produce identical text.

const (
	demandSystem = "You are an expert demand forecasting analyst for B2B e-commerce. " +
		"Use historical sales, inventory movements and seasonal patterns to predict future demand. Consider:\n" +
		"- historical sales trends\n" +
		"- seasonal patterns and holidays\n" +
		"- market conditions\n" +
		"- product lifecycle stage\n" +
		"- external economic factors\n\n" +
		"Give forecasts with confidence scores. Prefer conservative predictions to avoid overstocking."

	deliverySystem = "You are an expert logistics and delivery prediction analyst. " +
		"Use historical delivery data, carrier performance and route conditions to predict delivery times. Consider:\n" +
		"- historical performance by carrier and route\n" +
		"- distance and geography\n" +
		"- weather and seasonal impact\n" +
		"- carrier-specific performance metrics\n" +
		"- product weight and packaging\n" +
		"- service level commitments\n\n" +
		"Give realistic delivery estimates with confidence scores. Prefer conservative estimates."

	anomalySystem = "You are an expert anomaly detection analyst for B2B e-commerce systems. " +
		"Identify unusual behaviour that may indicate:\n" +
		"- inventory sync issues\n" +
		"- pricing discrepancies\n" +
		"- unusual order patterns\n" +
		"- system performance problems\n" +
		"- data quality issues\n" +
		"- potential fraud or errors\n\n" +
		"Categorize each anomaly by severity (low, medium, high, critical) and focus on issues " +
		"that could affect revenue or customer satisfaction."
)

// DemandBrief renders the demand forecast prompt.
func DemandBrief(req models.DemandForecastRequest, ctx models.DemandContext) service.Prompt {
	var b brief
	b.heading("Generate a demand forecast for the products below.")

	b.section("Parameters")
	b.field("Products", listOr(req.ProductIDs, "none"))
	b.field("Warehouses", listOr(req.WarehouseIDs, "all"))
	b.field("Forecast period", fmt.Sprintf("%d days", req.Days()))
	b.field("Include seasonality", yesNo(req.Seasonality()))

	b.section("Historical data summary")
	b.field("Total historical records", strconv.Itoa(ctx.HistoryCount))
	b.text("Records are order line items (sales transactions) over the trailing twelve months.")

	b.section("Baseline demand metrics")
	b.metrics(ctx.Baseline, "no usable history")

	b.section("Seasonal patterns (month mean / overall mean)")
	if ctx.Seasonal == nil {
		b.field("seasonality", "not requested")
	} else {
		seasonalLines(&b, ctx.Seasonal)
	}

	b.section("External factors")
	b.field("economic_indicator", ctx.External.EconomicIndicator)
	b.field("market_trend", ctx.External.MarketTrend)
	b.field("supply_chain_status", ctx.External.SupplyChainStatus)
	b.field("competitive_landscape", ctx.External.CompetitiveLandscape)

	b.section("Please provide")
	b.numbered(
		"Daily demand predictions for each product",
		"A confidence score between 0 and 1 for each prediction",
		"The seasonal factor applied to each prediction",
		"An overall model accuracy assessment between 0 and 1",
	)
	b.text("")
	b.text("Favour accurate, conservative estimates that avoid overstocking.")

	return service.Prompt{System: demandSystem, User: b.String()}
}

// DeliveryBrief renders the delivery prediction prompt.
func DeliveryBrief(req models.DeliveryPredictionRequest, ctx models.DeliveryContext) service.Prompt {
	var b brief
	b.heading("Predict the delivery time for the shipment below.")

	carrier := req.Carrier
	if carrier == "" {
		carrier = "not specified"
	}

	b.section("Parameters")
	b.field("Origin warehouse", req.OriginWarehouse)
	b.field("Destination", fmt.Sprintf("%s, %s %s",
		req.DestinationAddress["city"], req.DestinationAddress["state"], req.DestinationZip()))
	b.field("Products", listOr(req.ProductIDs, "none"))
	b.field("Carrier", carrier)
	b.field("Service level", string(req.ServiceLevel))

	b.section("Historical performance")
	b.field("Historical deliveries analyzed", strconv.Itoa(ctx.HistoryCount))

	b.section("Carrier performance")
	name := ctx.Carrier.Name
	if ctx.Carrier.Composite {
		name = "composite average of known carriers"
	}
	b.field("profile", name)
	b.field("on_time_rate", num(ctx.Carrier.OnTimeRate))
	b.field("average_transit_days", num(ctx.Carrier.AverageTransitDays))
	for _, lvl := range []models.ServiceLevel{models.ServiceStandard, models.ServiceExpress, models.ServiceOvernight} {
		if d, ok := ctx.Carrier.ServiceLevels[lvl]; ok {
			b.field(string(lvl)+"_days", strconv.Itoa(d))
		}
	}

	b.section("Route information")
	b.field("estimated_miles", num(ctx.Distance.EstimatedMiles))
	b.field("estimated_driving_hours", num(ctx.Distance.EstimatedDrivingHours))
	b.field("route_complexity", ctx.Distance.RouteComplexity)
	b.field("major_cities_on_route", listOr(ctx.Distance.MajorCitiesOnRoute, "none"))
	b.field("border_crossings", strconv.Itoa(ctx.Distance.BorderCrossings))
	if ctx.Distance.Fallback {
		b.text("Postal codes were incomplete; distance is a default estimate.")
	}

	b.section("Weather conditions")
	b.field("origin_weather", ctx.Weather.OriginWeather)
	b.field("destination_weather", ctx.Weather.DestinationWeather)
	b.field("route_conditions", ctx.Weather.RouteConditions)
	b.field("seasonal_factor", num(ctx.Weather.SeasonalFactor))
	b.field("weather_delays_expected", yesNo(ctx.Weather.WeatherDelaysExpected))

	b.section("Please provide")
	b.numbered(
		"Estimated delivery date and time (RFC3339)",
		"A confidence score between 0 and 1",
		"Transit days",
		"Recommended carrier if none was specified",
		"Key factors considered in the prediction",
		"Alternative delivery options if applicable",
	)
	b.text("")
	b.text("Be conservative, account for potential delays and give realistic timelines.")

	return service.Prompt{System: deliverySystem, User: b.String()}
}

// AnomalyBrief renders the anomaly detection prompt.
func AnomalyBrief(req models.AnomalyDetectionRequest, ctx models.AnomalyContext) service.Prompt {
	var b brief
	b.heading("Analyze the following data for anomalies.")

	b.section("Parameters")
	b.field("Data type", string(req.DataType))
	b.field("Time range", stamp(req.TimeRange.Start)+" to "+stamp(req.TimeRange.End))
	b.field("Detection sensitivity", num(req.SensitivityValue())+" (0 = least sensitive, 1 = most sensitive)")

	b.section("Historical data overview")
	b.field("Total records analyzed", strconv.Itoa(ctx.HistoryCount))

	b.section("Baseline metrics")
	b.metrics(ctx.Baseline, "no usable history")

	b.section("Alert thresholds")
	b.metrics(ctx.Thresholds, "no thresholds could be derived")

	b.section("Recent patterns (trailing 24 hours)")
	b.field("total_recent_records", strconv.Itoa(ctx.Recent.TotalRecentRecords))
	b.field("recent_data_available", yesNo(ctx.Recent.RecentDataAvailable))
	b.field("data_frequency", ctx.Recent.DataFrequency)
	if ctx.Recent.PeakHour != nil {
		b.field("peak_hour", strconv.Itoa(*ctx.Recent.PeakHour))
	}
	if ctx.Recent.MinHour != nil {
		b.field("min_hour", strconv.Itoa(*ctx.Recent.MinHour))
	}
	b.field("hourly_variance", num(ctx.Recent.HourlyVariance))

	asks := []string{
		"List of detected anomalies with severity levels",
		"Description of each anomaly",
		"Affected entities (products, customers, warehouses, etc.)",
	}
	if req.Recommendations() {
		asks = append(asks, "Recommended actions for each anomaly")
	}
	asks = append(asks, "Overall confidence in the analysis between 0 and 1", "Suggested next check time (RFC3339)")

	b.section("Please identify anomalies and provide")
	b.numbered(asks...)
	if !req.Recommendations() {
		b.text("Do not include recommendations.")
	}

	b.section("Focus on anomalies that could impact")
	b.text("- revenue and sales")
	b.text("- customer satisfaction")
	b.text("- inventory accuracy")
	b.text("- data integrity")
	b.text("- system performance")
	b.text("")
	b.text("Categorize severity as: low, medium, high, or critical.")

	return service.Prompt{System: anomalySystem, User: b.String()}
}
