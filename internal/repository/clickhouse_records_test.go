package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TruthSource/internal/domain/models"
	"TruthSource/internal/domain/repository"
)

// cannedConnector serves the same rows for every query and remembers the SQL.
type cannedConnector struct {
	columns []string
	rows    [][]driver.Value
	queries []string
}

func (c *cannedConnector) Connect(context.Context) (driver.Conn, error) { return &cannedConn{c}, nil }
func (c *cannedConnector) Driver() driver.Driver                      { return cannedDriver{c} }

type cannedDriver struct{ c *cannedConnector }

func (d cannedDriver) Open(string) (driver.Conn, error) { return &cannedConn{d.c}, nil }

type cannedConn struct{ c *cannedConnector }

func (*cannedConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (*cannedConn) Close() error                        { return nil }
func (*cannedConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

func (cn *cannedConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	cn.c.queries = append(cn.c.queries, query)
	return &cannedRows{columns: cn.c.columns, rows: cn.c.rows}, nil
}

type cannedRows struct {
	columns []string
	rows    [][]driver.Value
	pos     int
}

func (r *cannedRows) Columns() []string { return r.columns }
func (r *cannedRows) Close() error      { return nil }

func (r *cannedRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}

// orderRowsNewestFirst returns n order rows one hour apart, newest first.
func orderRowsNewestFirst(end time.Time, n int) [][]driver.Value {
	rows := make([][]driver.Value, n)
	for i := 0; i < n; i++ {
		rows[i] = []driver.Value{end.Add(-time.Duration(i) * time.Hour), "o", "c", "w1", "delivered", float64(i)}
	}
	return rows
}

func newCannedRecords(t *testing.T, rows [][]driver.Value, limit int, m repository.Metrics) (*ClickHouseRecords, *cannedConnector) {
	t.Helper()
	conn := &cannedConnector{columns: tableSpecs[models.DataOrders].columnNames(), rows: rows}
	db := sql.OpenDB(conn)
	t.Cleanup(func() { _ = db.Close() })
	return NewClickHouseRecords(db, limit, m, nil), conn
}

func TestFetchRecordsCappedKeepsNewestAscending(t *testing.T) {
	m := &recordingMetrics{}
	src, conn := newCannedRecords(t, orderRowsNewestFirst(window.End, 4), 3, m)

	records, err := src.FetchRecords(context.Background(), repository.RecordQuery{Tag: models.DataOrders, Window: window})
	require.NoError(t, err)

	require.Len(t, conn.queries, 1)
	assert.Contains(t, conn.queries[0], "ORDER BY created_at DESC LIMIT 4")
	require.Len(t, records, 3)
	for i, want := range []time.Time{window.End.Add(-2 * time.Hour), window.End.Add(-time.Hour), window.End} {
		got, err := records[i].CreatedAt()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, []string{"orders"}, m.truncated)
}

func TestFetchRecordsUnderCapIsNotTruncated(t *testing.T) {
	m := &recordingMetrics{}
	src, _ := newCannedRecords(t, orderRowsNewestFirst(window.End, 3), 3, m)

	records, err := src.FetchRecords(context.Background(), repository.RecordQuery{Tag: models.DataOrders, Window: window})
	require.NoError(t, err)

	require.Len(t, records, 3)
	first, _ := records[0].CreatedAt()
	assert.Equal(t, window.End.Add(-2*time.Hour), first)
	assert.Empty(t, m.truncated)
}

func TestKeepNewest(t *testing.T) {
	desc := []models.Record{{"n": 3.0}, {"n": 2.0}, {"n": 1.0}}

	asc, capped := keepNewest(desc, 2)
	assert.True(t, capped)
	assert.Equal(t, []models.Record{{"n": 2.0}, {"n": 3.0}}, asc)

	asc, capped = keepNewest([]models.Record{{"n": 2.0}, {"n": 1.0}}, 5)
	assert.False(t, capped)
	assert.Equal(t, []models.Record{{"n": 1.0}, {"n": 2.0}}, asc)

	asc, capped = keepNewest(nil, 5)
	assert.False(t, capped)
	assert.Empty(t, asc)
}
