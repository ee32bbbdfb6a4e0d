package models

import (
	"errors"
	"fmt"
	"time"

	"TruthSource/pkg/util"
)

// CreatedAtField is the timestamp column every record source must provide.
const CreatedAtField = "created_at"

var (
	ErrFieldMissing = errors.New("field missing")
	ErrFieldType    = errors.New("field has unexpected type")
)

// Record is one raw row from the record source, keyed by column name.
type Record map[string]interface{}

// Float reads a numeric column.
func (r Record) Float(field string) (float64, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return 0, fmt.Errorf("%s: %w", field, ErrFieldMissing)
	}
	f, ok := util.ToFloat(v)
	if !ok {
		return 0, fmt.Errorf("%s (%T): %w", field, v, ErrFieldType)
	}
	return f, nil
}

// Time reads a timestamp column stored either as time.Time or a string.
func (r Record) Time(field string) (time.Time, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, ErrFieldMissing)
	}
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("%s: %w", field, ErrFieldMissing)
		}
		return *t, nil
	case string:
		if parsed, ok := util.ParseTime(t); ok {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s (%T): %w", field, v, ErrFieldType)
}

// CreatedAt is shorthand for Time(CreatedAtField).
func (r Record) CreatedAt() (time.Time, error) {
	return r.Time(CreatedAtField)
}

// String reads a text column; non-string values are formatted.
func (r Record) String(field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// DataType tags a family of records in the record source.
type DataType string

const (
	DataInventory       DataType = "inventory"
	DataPricing         DataType = "pricing"
	DataOrders          DataType = "orders"
	DataDemandHistory   DataType = "demand_history"
	DataDeliveryHistory DataType = "delivery_history"
)

// Anomaly analysis runs only over the first three.
func (d DataType) Analyzable() bool {
	return d == DataInventory || d == DataPricing || d == DataOrders
}
