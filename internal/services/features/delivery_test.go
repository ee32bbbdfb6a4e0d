package features

import (
	"testing"

	"TruthSource/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestEstimateDistance(t *testing.T) {
	est := EstimateDistance("10001", "10501")
	assert.Equal(t, 250.0, est.EstimatedMiles)
	assert.Equal(t, 5.0, est.EstimatedDrivingHours)
	assert.False(t, est.Fallback)
	assert.Equal(t, "medium", est.RouteComplexity)
	assert.Empty(t, est.MajorCitiesOnRoute)
}

func TestEstimateDistanceCapped(t *testing.T) {
	est := EstimateDistance("02101", "98101")
	assert.Equal(t, 3000.0, est.EstimatedMiles)
	assert.Equal(t, 60.0, est.EstimatedDrivingHours)
}

func TestEstimateDistanceFallback(t *testing.T) {
	for _, pair := range [][2]string{
		{"", "94105"},
		{"94105", ""},
		{"9A105", "94105"},
		{"94", "94105"},
		{"+1234", "10001"},
		{"10001", "-1234"},
		{" 1 234", "10001"},
	} {
		est := EstimateDistance(pair[0], pair[1])
		assert.Equal(t, 500.0, est.EstimatedMiles, pair)
		assert.Equal(t, 10.0, est.EstimatedDrivingHours, pair)
		assert.True(t, est.Fallback, pair)
	}
}

func TestEstimateDistanceMonotonic(t *testing.T) {
	prev := -1.0
	for _, dest := range []string{"100", "101", "110", "150", "200", "400", "900"} {
		miles := EstimateDistance("100", dest).EstimatedMiles
		assert.GreaterOrEqual(t, miles, prev)
		assert.LessOrEqual(t, miles, 3000.0)
		prev = miles
	}
}

func TestCarrierPerformance(t *testing.T) {
	fedex := CarrierPerformance(" FedEx ")
	assert.Equal(t, "FedEx", fedex.Name)
	assert.Equal(t, 0.92, fedex.OnTimeRate)
	assert.False(t, fedex.Composite)

	usps := CarrierPerformance("usps")
	days, ok := usps.Days(models.ServiceExpress)
	assert.True(t, ok)
	assert.Equal(t, 3, days)

	unknown := CarrierPerformance("pigeon")
	assert.True(t, unknown.Composite)
	assert.Equal(t, 3.6, unknown.AverageTransitDays)
	assert.Equal(t, CompositeCarrier(), CarrierPerformance(""))
}

func TestCarrierPerformanceReturnsCopy(t *testing.T) {
	p := CarrierPerformance("ups")
	p.ServiceLevels[models.ServiceStandard] = 99

	again := CarrierPerformance("ups")
	assert.Equal(t, 4, again.ServiceLevels[models.ServiceStandard])
}
