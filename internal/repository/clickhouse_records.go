package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"TruthSource/internal/domain/models"
	"TruthSource/internal/domain/repository"
	"TruthSource/pkg/logger"
)

var (
	ErrUnknownTag        = errors.New("unknown data tag")
	ErrWarehouseNotFound = errors.New("warehouse not found")
)

const defaultRowLimit = 100000

// ClickHouseRecords reads analysis history from ClickHouse. When a window
// holds more than rowLimit rows the newest rowLimit are kept.
type ClickHouseRecords struct {
	db       *sql.DB
	rowLimit uint64
	metrics  repository.Metrics
	log      *logger.Logger
}

var (
	_ repository.RecordSource       = (*ClickHouseRecords)(nil)
	_ repository.WarehouseDirectory = (*ClickHouseRecords)(nil)
)

// NewClickHouseRecords creates the record source. rowLimit <= 0 uses the default cap.
func NewClickHouseRecords(db *sql.DB, rowLimit int, m repository.Metrics, l *logger.Logger) *ClickHouseRecords {
	limit := uint64(defaultRowLimit)
	if rowLimit > 0 {
		limit = uint64(rowLimit)
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &ClickHouseRecords{db: db, rowLimit: limit, metrics: m, log: l}
}

// buildRecordQuery renders the SELECT for q, newest first. limit is the
// number of rows to read; callers ask for one more than they keep so a
// capped window can be detected.
func buildRecordQuery(q repository.RecordQuery, limit uint64) (string, []interface{}, tableSpec, error) {
	tbl, ok := tableSpecs[q.Tag]
	if !ok {
		return "", nil, tbl, fmt.Errorf("%w: %q", ErrUnknownTag, q.Tag)
	}

	qb := sq.Select(tbl.columnNames()...).
		From(tbl.table).
		Where(sq.GtOrEq{models.CreatedAtField: q.Window.Start}).
		Where(sq.LtOrEq{models.CreatedAtField: q.Window.End})

	if len(q.ProductIDs) > 0 && tbl.productCol != "" {
		qb = qb.Where(sq.Eq{tbl.productCol: q.ProductIDs})
	}
	if len(q.WarehouseIDs) > 0 && tbl.warehouseCol != "" {
		qb = qb.Where(sq.Eq{tbl.warehouseCol: q.WarehouseIDs})
	}
	if q.Carrier != "" && tbl.carrierCol != "" {
		qb = qb.Where(sq.Eq{tbl.carrierCol: q.Carrier})
	}
	qb = qb.OrderBy(models.CreatedAtField + " DESC")
	if limit > 0 {
		qb = qb.Limit(limit)
	}

	query, args, err := qb.PlaceholderFormat(sq.Question).ToSql()
	if err != nil {
		return "", nil, tbl, fmt.Errorf("build %s query: %w", q.Tag, err)
	}
	return query, args, tbl, nil
}

func (s *ClickHouseRecords) FetchRecords(ctx context.Context, q repository.RecordQuery) ([]models.Record, error) {
	query, args, tbl, err := buildRecordQuery(q, s.rowLimit+1)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", tbl.table, err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		holders := newHolders(tbl.columns)
		if err := rows.Scan(holders...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", tbl.table, err)
		}
		records = append(records, toRecord(tbl.columns, holders))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", tbl.table, err)
	}

	records, capped := keepNewest(records, s.rowLimit)
	if capped {
		s.log.Warn("record window capped, oldest rows dropped",
			logger.String("tag", string(q.Tag)),
			logger.Time("window_start", q.Window.Start),
			logger.Time("window_end", q.Window.End),
			logger.Int("row_limit", int(s.rowLimit)),
		)
		if s.metrics != nil {
			s.metrics.RecordTruncated(string(q.Tag))
		}
	}
	return records, nil
}

// keepNewest takes rows ordered newest first, keeps at most limit of them
// and returns them ascending by created_at. capped reports rows were dropped.
func keepNewest(desc []models.Record, limit uint64) (asc []models.Record, capped bool) {
	if limit > 0 && uint64(len(desc)) > limit {
		desc = desc[:limit]
		capped = true
	}
	for i, j := 0, len(desc)-1; i < j; i, j = i+1, j-1 {
		desc[i], desc[j] = desc[j], desc[i]
	}
	return desc, capped
}

// PostalCode returns the zip of a warehouse.
func (s *ClickHouseRecords) PostalCode(ctx context.Context, warehouseID string) (string, error) {
	query, args, err := sq.Select("zip").
		From("warehouses").
		Where(sq.Eq{"id": warehouseID}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build warehouse query: %w", err)
	}

	var zip string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&zip); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrWarehouseNotFound, warehouseID)
		}
		return "", fmt.Errorf("query warehouse %s: %w", warehouseID, err)
	}
	return zip, nil
}

func newHolders(cols []column) []interface{} {
	holders := make([]interface{}, len(cols))
	for i, c := range cols {
		switch c.kind {
		case kindFloat:
			holders[i] = new(sql.NullFloat64)
		case kindTime:
			holders[i] = new(sql.NullTime)
		default:
			holders[i] = new(sql.NullString)
		}
	}
	return holders
}

// toRecord copies non-null values into a Record. NULL columns are left out.
func toRecord(cols []column, holders []interface{}) models.Record {
	rec := make(models.Record, len(cols))
	for i, c := range cols {
		switch h := holders[i].(type) {
		case *sql.NullFloat64:
			if h.Valid {
				rec[c.name] = h.Float64
			}
		case *sql.NullTime:
			if h.Valid {
				rec[c.name] = h.Time.UTC()
			}
		case *sql.NullString:
			if h.Valid {
				rec[c.name] = h.String
			}
		}
	}
	return rec
}
