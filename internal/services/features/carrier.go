package features

import (
	"strings"

	"TruthSource/internal/domain/models"
)

var carrierTable = map[string]models.CarrierProfile{
	"fedex": {
		Name:               "FedEx",
		OnTimeRate:         0.92,
		AverageTransitDays: 3.2,
		ServiceLevels:      levels(4, 2, 1),
	},
	"ups": {
		Name:               "UPS",
		OnTimeRate:         0.89,
		AverageTransitDays: 3.5,
		ServiceLevels:      levels(4, 2, 1),
	},
	"usps": {
		Name:               "USPS",
		OnTimeRate:         0.85,
		AverageTransitDays: 4.1,
		ServiceLevels:      levels(5, 3, 2),
	},
}

func levels(standard, express, overnight int) map[models.ServiceLevel]int {
	return map[models.ServiceLevel]int{
		models.ServiceStandard:  standard,
		models.ServiceExpress:   express,
		models.ServiceOvernight: overnight,
	}
}

// CompositeCarrier is used when the carrier is unspecified or unknown.
func CompositeCarrier() models.CarrierProfile {
	return models.CarrierProfile{
		Name:               "composite",
		OnTimeRate:         0.89,
		AverageTransitDays: 3.6,
		ServiceLevels:      levels(4, 2, 1),
		Composite:          true,
	}
}

// CarrierPerformance looks up a carrier by case-insensitive name.
func CarrierPerformance(name string) models.CarrierProfile {
	if p, ok := carrierTable[strings.ToLower(strings.TrimSpace(name))]; ok {
		p.ServiceLevels = levels(p.ServiceLevels[models.ServiceStandard],
			p.ServiceLevels[models.ServiceExpress], p.ServiceLevels[models.ServiceOvernight])
		return p
	}
	return CompositeCarrier()
}
