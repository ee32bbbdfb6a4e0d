package features

import (
	"errors"
	"fmt"
	"time"

	"TruthSource/internal/domain/models"

	"github.com/montanaflynn/stats"
)

// FlatSeasonalProfile returns ratio 1.0 for all twelve months.
func FlatSeasonalProfile() models.SeasonalProfile {
	p := make(models.SeasonalProfile, 12)
	for m := 1; m <= 12; m++ {
		p[m] = 1.0
	}
	return p
}

// Seasonal computes each month's mean of column over the overall mean.
// The profile always has twelve entries; unobserved months stay at 1.0.
// A non-nil error means malformed input forced the flat profile.
func Seasonal(records []models.Record, column string) (models.SeasonalProfile, error) {
	profile := FlatSeasonalProfile()

	byMonth := make(map[time.Month][]float64)
	var all []float64
	for i, r := range records {
		v, err := r.Float(column)
		if errors.Is(err, models.ErrFieldMissing) {
			continue
		}
		if err != nil {
			return FlatSeasonalProfile(), &ComputationError{Family: "seasonal", Err: fmt.Errorf("record %d: %w", i, err)}
		}
		ts, err := r.CreatedAt()
		if err != nil {
			continue
		}
		m := ts.UTC().Month()
		byMonth[m] = append(byMonth[m], v)
		all = append(all, v)
	}

	if len(all) == 0 {
		return profile, nil
	}
	overall, _ := stats.Mean(all)
	if overall == 0 {
		return profile, nil
	}

	for m, values := range byMonth {
		mean, _ := stats.Mean(values)
		profile[int(m)] = mean / overall
	}
	return profile, nil
}
