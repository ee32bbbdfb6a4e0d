package features

import "TruthSource/internal/domain/models"

// No live weather or market feeds are wired; both providers return a neutral outlook.

func WeatherOutlook(originWarehouse, destinationZip string) models.WeatherConditions {
	return models.WeatherConditions{
		OriginWeather:      "clear",
		DestinationWeather: "clear",
		RouteConditions:    "normal",
		SeasonalFactor:     1.0,
	}
}

func MarketFactors() models.ExternalFactors {
	return models.ExternalFactors{
		EconomicIndicator:    "stable",
		MarketTrend:          "growing",
		SupplyChainStatus:    "normal",
		CompetitiveLandscape: "stable",
	}
}
