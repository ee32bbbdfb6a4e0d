package features

import (
	"time"

	"TruthSource/internal/domain/models"

	"github.com/montanaflynn/stats"
)

// DefaultRecentWindow is how far back "recent" reaches from evaluation time.
const DefaultRecentWindow = 24 * time.Hour

// RecentPatterns summarises activity per UTC hour-of-day over [now-window, now].
// Peak and min hours are argmax/argmin over hours in ascending order, so ties
// go to the earliest hour.
func RecentPatterns(records []models.Record, now time.Time, window time.Duration) models.RecentPatternSummary {
	if window <= 0 {
		window = DefaultRecentWindow
	}
	recent := models.TrailingWindow(now, window)

	var hourly [24]int
	total := 0
	for _, r := range records {
		ts, err := r.CreatedAt()
		if err != nil || !recent.Contains(ts) {
			continue
		}
		hourly[ts.UTC().Hour()]++
		total++
	}

	summary := models.RecentPatternSummary{
		TotalRecentRecords:  total,
		RecentDataAvailable: total > 0,
		DataFrequency:       "normal",
	}
	if total == 0 {
		return summary
	}

	peak, low := -1, -1
	counts := make(stats.Float64Data, 0, 24)
	for h, c := range hourly {
		if c == 0 {
			continue
		}
		counts = append(counts, float64(c))
		if peak < 0 || c > hourly[peak] {
			peak = h
		}
		if low < 0 || c < hourly[low] {
			low = h
		}
	}

	summary.PeakHour = &peak
	summary.MinHour = &low
	summary.HourlyVariance = sampleVariance(counts)
	return summary
}
