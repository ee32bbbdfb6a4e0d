package features

import (
	"math"
	"strings"

	"TruthSource/internal/domain/models"
)

const (
	DefaultDistanceMiles = 500.0
	milesPerPrefixUnit   = 50.0
	maxDistanceMiles     = 3000.0
	averageSpeedMph      = 50.0
)

// EstimateDistance approximates route length from the 3-digit zip prefixes.
// A missing or malformed zip on either side gives the 500-mile default.
func EstimateDistance(originZip, destZip string) models.DistanceEstimate {
	est := models.DistanceEstimate{
		EstimatedMiles:     DefaultDistanceMiles,
		RouteComplexity:    "medium",
		MajorCitiesOnRoute: []string{},
	}

	from, okFrom := zipPrefix(originZip)
	to, okTo := zipPrefix(destZip)
	if okFrom && okTo {
		est.EstimatedMiles = math.Min(math.Abs(float64(from-to))*milesPerPrefixUnit, maxDistanceMiles)
	} else {
		est.Fallback = true
	}

	est.EstimatedDrivingHours = est.EstimatedMiles / averageSpeedMph
	return est
}

// zipPrefix reads the first three characters, which must all be ASCII digits.
func zipPrefix(zip string) (int, bool) {
	zip = strings.TrimSpace(zip)
	if len(zip) < 3 {
		return 0, false
	}
	n := 0
	for i := 0; i < 3; i++ {
		c := zip[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
