package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/bdshop/storefront-backend/pkg/config"
	"github.com/bdshop/storefront-backend/pkg/logger"
)

type widget struct {
	ID   int
	Name string
}

func newTestClient(t *testing.T, logg *logger.Logger) *Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := New(context.Background(), config.DBConfig{DSN: dsn, Driver: config.DriverSQLite, MaxOpenConns: 1}, logg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	if err := client.DB().AutoMigrate(&widget{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return client
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{Driver: config.DriverSQLite, DSN: "  "}, nil); err == nil {
		t.Fatalf("expected missing DSN to fail")
	}
}

func TestClientPingAndDialect(t *testing.T) {
	client := newTestClient(t, nil)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if got := client.Dialect(); got != "sqlite3" {
		t.Fatalf("expected sqlite3 goose dialect, got %q", got)
	}
	if got := (&Client{}).Dialect(); got != "postgres" {
		t.Fatalf("expected postgres default, got %q", got)
	}
}

func TestDriverSelection(t *testing.T) {
	if got := driverName(config.DBConfig{Driver: " SQLite "}); got != config.DriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", got)
	}
	if got := driverName(config.DBConfig{}); got != config.DriverPostgres {
		t.Fatalf("expected postgres default, got %q", got)
	}
	if got := dialectorFor(config.DBConfig{DSN: "postgres://localhost/shop"}).Name(); got != "postgres" {
		t.Fatalf("unexpected dialector %q", got)
	}
}

func TestQueryLoggerReportsFailuresNotMissingRows(t *testing.T) {
	buf := &bytes.Buffer{}
	client := newTestClient(t, logger.New(logger.Options{ServiceName: "test", Output: buf, Format: logger.FormatJSON}))
	ctx := context.Background()

	var w widget
	if err := client.DB().WithContext(ctx).First(&w, 99).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
	if buf.Len() > 0 && strings.Contains(buf.String(), "db.query_failed") {
		t.Fatalf("missing rows should not be logged: %s", buf.String())
	}

	_ = client.DB().WithContext(ctx).Exec("SELECT * FROM missing_table").Error
	if !strings.Contains(buf.String(), "db.query_failed") || !strings.Contains(buf.String(), "missing_table") {
		t.Fatalf("expected failed statement to be logged, got %s", buf.String())
	}
}

func TestQueryLoggerFlagsSlowStatements(t *testing.T) {
	buf := &bytes.Buffer{}
	q := newQueryLogger(logger.New(logger.Options{ServiceName: "test", Output: buf, Format: logger.FormatJSON}), time.Millisecond)

	q.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)
	if !strings.Contains(buf.String(), "db.slow_query") || !strings.Contains(buf.String(), `"rows":1`) {
		t.Fatalf("expected slow query entry, got %s", buf.String())
	}

	buf.Reset()
	q.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	if buf.Len() != 0 {
		t.Fatalf("fast queries should not be logged, got %s", buf.String())
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := fmt.Errorf("insert order: %w", &pgconn.PgError{Code: "23505", ConstraintName: "orders_stripe_session_id_key"})
	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"pg any", pgErr, "", true},
		{"pg named", pgErr, "orders_stripe_session_id_key", true},
		{"pg other constraint", pgErr, "other_constraint", false},
		{"pg other code", &pgconn.PgError{Code: "23503"}, "", false},
		{"text duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "orders_pkey"`), "orders_pkey", true},
		{"sqlite", errors.New("UNIQUE constraint failed: orders.stripe_session_id"), "", true},
		{"unrelated", errors.New("connection reset"), "", false},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
			t.Fatalf("%s: got %v want %v", tt.name, got, tt.want)
		}
	}
}
