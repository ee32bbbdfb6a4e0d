package features

import (
	"errors"
	"fmt"

	"TruthSource/internal/domain/models"
	"TruthSource/pkg/util"

	"github.com/montanaflynn/stats"
)

// ComputationError marks a metric family dropped because its input was malformed.
type ComputationError struct {
	Family string
	Err    error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("compute %s: %v", e.Family, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// numericField names a record column and the suffix its metrics are published under.
type numericField struct {
	column   string
	name     string
	extremes bool // also emit max_/min_
}

type baselineSpec struct {
	fields []numericField
	daily  string // per-day count metrics suffix; empty skips them
}

var baselineSpecs = map[models.DataType]baselineSpec{
	models.DataInventory: {
		fields: []numericField{{column: "quantity_change", name: "quantity_change", extremes: true}},
		daily:  "movements",
	},
	models.DataPricing: {
		fields: []numericField{
			{column: "price", name: "price", extremes: true},
			{column: "discount_percentage", name: "discount"},
		},
		daily: "price_changes",
	},
	models.DataOrders: {
		fields: []numericField{{column: "total_amount", name: "order_value", extremes: true}},
		daily:  "orders",
	},
	models.DataDemandHistory: {
		fields: []numericField{{column: "quantity", name: "quantity", extremes: true}},
		daily:  "sales",
	},
}

// BaselineReport carries the metrics that could be computed and the families that were dropped.
type BaselineReport struct {
	Metrics models.BaselineMetrics
	Dropped []*ComputationError
}

// Baseline computes first/second-moment metrics for one data type.
// Empty input or an unknown tag yields an empty mapping.
func Baseline(tag models.DataType, records []models.Record) BaselineReport {
	report := BaselineReport{Metrics: models.BaselineMetrics{}}
	spec, ok := baselineSpecs[tag]
	if !ok || len(records) == 0 {
		return report
	}

	for _, f := range spec.fields {
		values, err := columnValues(records, f.column)
		if err != nil {
			report.Dropped = append(report.Dropped, &ComputationError{Family: f.name, Err: err})
			continue
		}
		if len(values) == 0 {
			continue
		}
		addMoments(report.Metrics, f.name, values, f.extremes)
	}

	if spec.daily != "" {
		counts, err := dailyCounts(records)
		if err != nil {
			report.Dropped = append(report.Dropped, &ComputationError{Family: "daily_" + spec.daily, Err: err})
		} else if len(counts) > 0 {
			addMoments(report.Metrics, "daily_"+spec.daily, counts, false)
		}
	}

	return report
}

// columnValues collects a numeric column, skipping rows where it is absent.
func columnValues(records []models.Record, column string) ([]float64, error) {
	out := make([]float64, 0, len(records))
	for i, r := range records {
		v, err := r.Float(column)
		if errors.Is(err, models.ErrFieldMissing) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// dailyCounts groups records by UTC calendar day of created_at.
func dailyCounts(records []models.Record) ([]float64, error) {
	byDay := make(map[string]int)
	order := make([]string, 0)
	for i, r := range records {
		ts, err := r.CreatedAt()
		if errors.Is(err, models.ErrFieldMissing) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		day := util.DayKey(ts)
		if _, seen := byDay[day]; !seen {
			order = append(order, day)
		}
		byDay[day]++
	}

	out := make([]float64, 0, len(order))
	for _, d := range order {
		out = append(out, float64(byDay[d]))
	}
	return out, nil
}

func addMoments(m models.BaselineMetrics, name string, values []float64, extremes bool) {
	data := stats.Float64Data(values)

	mean, _ := stats.Mean(data)
	m["avg_"+name] = mean
	m["std_"+name] = sampleStd(data)

	if extremes {
		hi, _ := stats.Max(data)
		lo, _ := stats.Min(data)
		m["max_"+name] = hi
		m["min_"+name] = lo
	}
}

// sampleStd uses the n-1 denominator; fewer than two observations give 0.
func sampleStd(data stats.Float64Data) float64 {
	if data.Len() < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return 0
	}
	return sd
}

// sampleVariance uses the n-1 denominator; fewer than two observations give 0.
func sampleVariance(data stats.Float64Data) float64 {
	if data.Len() < 2 {
		return 0
	}
	v, err := stats.SampleVariance(data)
	if err != nil {
		return 0
	}
	return v
}
