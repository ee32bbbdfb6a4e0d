package features

import (
	"testing"

	"TruthSource/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestThresholdsShape(t *testing.T) {
	baseline := models.BaselineMetrics{
		"avg_price": 100,
		"std_price": 10,
		"max_price": 130,
		"min_price": 80,
	}

	got := Thresholds(baseline, 0.5)

	assert.Equal(t, models.AlertThresholds{
		"std_price_threshold": 15,
		"avg_price_upper":     115,
		"avg_price_lower":     85,
	}, got)
}

func TestThresholdsAvgWithoutStdIsSkipped(t *testing.T) {
	got := Thresholds(models.BaselineMetrics{"avg_quantity": 7}, 0.2)
	assert.Empty(t, got)
}

func TestThresholdsTightenWithSensitivity(t *testing.T) {
	baseline := models.BaselineMetrics{
		"avg_order_value":  250,
		"std_order_value":  40,
		"avg_daily_orders": 12,
		"std_daily_orders": 3,
	}

	levels := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := 1; i < len(levels); i++ {
		loose := Thresholds(baseline, levels[i-1])
		tight := Thresholds(baseline, levels[i])
		for name, value := range tight {
			switch {
			case name == "avg_order_value_upper" || name == "avg_daily_orders_upper":
				assert.Less(t, value, loose[name], name)
			case name == "avg_order_value_lower" || name == "avg_daily_orders_lower":
				assert.Greater(t, value, loose[name], name)
			default:
				assert.Less(t, value, loose[name], name)
			}
		}
	}
}

func TestSensitivityFactorClamps(t *testing.T) {
	assert.Equal(t, 2.0, SensitivityFactor(-1))
	assert.Equal(t, 1.0, SensitivityFactor(3))
	assert.Equal(t, 1.5, SensitivityFactor(0.5))
}
