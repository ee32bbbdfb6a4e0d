package features

import (
	"strings"

	"TruthSource/internal/domain/models"
)

// SensitivityFactor maps sensitivity in [0,1] to a band multiplier in [1,2].
// Out-of-range input is clamped.
func SensitivityFactor(sensitivity float64) float64 {
	switch {
	case sensitivity < 0:
		sensitivity = 0
	case sensitivity > 1:
		sensitivity = 1
	}
	return 2.0 - sensitivity
}

// Thresholds derives alert bounds from a baseline. Every std_* metric yields
// <metric>_threshold; every avg_* metric with a std_* counterpart yields
// <metric>_upper and <metric>_lower.
func Thresholds(baseline models.BaselineMetrics, sensitivity float64) models.AlertThresholds {
	factor := SensitivityFactor(sensitivity)
	out := make(models.AlertThresholds, len(baseline))

	for name, value := range baseline {
		if strings.Contains(name, "std") {
			out[name+"_threshold"] = value * factor
			continue
		}
		if !strings.Contains(name, "avg") {
			continue
		}
		std, ok := baseline[strings.Replace(name, "avg", "std", 1)]
		if !ok {
			continue
		}
		out[name+"_upper"] = value + std*factor
		out[name+"_lower"] = value - std*factor
	}

	return out
}
