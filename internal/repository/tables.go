package repository

import (
	"TruthSource/internal/domain/models"
)

type columnKind int

const (
	kindString columnKind = iota
	kindFloat
	kindTime
)

type column struct {
	name string
	kind columnKind
}

// tableSpec maps a data tag onto a ClickHouse table. Empty filter columns
// mean the table cannot be filtered that way and the filter is ignored.
type tableSpec struct {
	table        string
	columns      []column
	productCol   string
	warehouseCol string
	carrierCol   string
}

var tableSpecs = map[models.DataType]tableSpec{
	models.DataInventory: {
		table: "inventory_movements",
		columns: []column{
			{"created_at", kindTime},
			{"id", kindString},
			{"product_id", kindString},
			{"warehouse_id", kindString},
			{"movement_type", kindString},
			{"quantity_change", kindFloat},
		},
		productCol:   "product_id",
		warehouseCol: "warehouse_id",
	},
	models.DataPricing: {
		table: "pricing_history",
		columns: []column{
			{"created_at", kindTime},
			{"id", kindString},
			{"product_id", kindString},
			{"customer_id", kindString},
			{"price", kindFloat},
			{"discount_percentage", kindFloat},
		},
		productCol: "product_id",
	},
	models.DataOrders: {
		table: "orders",
		columns: []column{
			{"created_at", kindTime},
			{"id", kindString},
			{"customer_id", kindString},
			{"warehouse_id", kindString},
			{"status", kindString},
			{"total_amount", kindFloat},
		},
		warehouseCol: "warehouse_id",
	},
	models.DataDemandHistory: {
		table: "order_items",
		columns: []column{
			{"created_at", kindTime},
			{"order_id", kindString},
			{"product_id", kindString},
			{"warehouse_id", kindString},
			{"quantity", kindFloat},
			{"unit_price", kindFloat},
		},
		productCol:   "product_id",
		warehouseCol: "warehouse_id",
	},
	models.DataDeliveryHistory: {
		table: "orders",
		columns: []column{
			{"created_at", kindTime},
			{"id", kindString},
			{"warehouse_id", kindString},
			{"carrier", kindString},
			{"destination_zip", kindString},
			{"status", kindString},
			{"shipped_at", kindTime},
			{"delivered_at", kindTime},
		},
		warehouseCol: "warehouse_id",
		carrierCol:   "carrier",
	},
}

func (s tableSpec) columnNames() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.name
	}
	return names
}

// Schema is the DDL the record source reads from. Order items carry the
// order's timestamp and warehouse so demand history needs no join.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS inventory_movements (
		created_at DateTime64(3, 'UTC'),
		id String,
		product_id String,
		warehouse_id String,
		movement_type LowCardinality(String),
		quantity_change Float64
	) ENGINE = MergeTree ORDER BY (created_at, product_id)`,
	`CREATE TABLE IF NOT EXISTS pricing_history (
		created_at DateTime64(3, 'UTC'),
		id String,
		product_id String,
		customer_id Nullable(String),
		price Float64,
		discount_percentage Nullable(Float64)
	) ENGINE = MergeTree ORDER BY (created_at, product_id)`,
	`CREATE TABLE IF NOT EXISTS orders (
		created_at DateTime64(3, 'UTC'),
		id String,
		customer_id String,
		warehouse_id String,
		status LowCardinality(String),
		total_amount Float64,
		carrier Nullable(String),
		destination_zip Nullable(String),
		shipped_at Nullable(DateTime64(3, 'UTC')),
		delivered_at Nullable(DateTime64(3, 'UTC'))
	) ENGINE = MergeTree ORDER BY (created_at, warehouse_id)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		created_at DateTime64(3, 'UTC'),
		order_id String,
		product_id String,
		warehouse_id String,
		quantity Float64,
		unit_price Float64
	) ENGINE = MergeTree ORDER BY (created_at, product_id)`,
	`CREATE TABLE IF NOT EXISTS warehouses (
		id String,
		name String,
		city String,
		state String,
		zip String
	) ENGINE = ReplacingMergeTree ORDER BY id`,
}
