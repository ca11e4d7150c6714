package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Report flattens an error chain into log fields. Postgres errors raised by
// either pgx (gorm's driver) or lib/pq (goose migrations) are unpacked.
type Report struct {
	Message    string   `json:"message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`
	SQLState   string   `json:"sqlstate,omitempty"`
	Constraint string   `json:"constraint,omitempty"`
	Table      string   `json:"table,omitempty"`
	Detail     string   `json:"detail,omitempty"`
}

func Inspect(err error) Report {
	if err == nil {
		return Report{}
	}
	report := Report{Message: err.Error()}
	if typed := As(err); typed != nil {
		report.Code = typed.Code()
	}
	for link := err; link != nil; link = errors.Unwrap(link) {
		report.Chain = append(report.Chain, fmt.Sprintf("%T", link))
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		report.SQLState = pgxErr.Code
		report.Constraint = pgxErr.ConstraintName
		report.Table = pgxErr.TableName
		report.Detail = pgxErr.Detail
	case errors.As(err, &pqErr):
		report.SQLState = string(pqErr.Code)
		report.Constraint = pqErr.Constraint
		report.Table = pqErr.Table
		report.Detail = pqErr.Detail
	}
	return report
}

// Fields returns the report as structured log fields, omitting empty values.
func (r Report) Fields() map[string]any {
	fields := map[string]any{"error": r.Message}
	if r.Code != "" {
		fields["error_code"] = string(r.Code)
	}
	if len(r.Chain) > 0 {
		fields["error_chain"] = r.Chain
	}
	for key, value := range map[string]string{
		"sqlstate":      r.SQLState,
		"pg_constraint": r.Constraint,
		"pg_table":      r.Table,
		"pg_detail":     r.Detail,
	} {
		if value != "" {
			fields[key] = value
		}
	}
	return fields
}
