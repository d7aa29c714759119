package seeder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resume-screener/internal/database"
)

type columnRows struct {
	cols [][2]string
	i    int
}

func (r *columnRows) Close()     {}
func (r *columnRows) Err() error { return nil }
func (r *columnRows) Next() bool {
	r.i++
	return r.i <= len(r.cols)
}

func (r *columnRows) Scan(dest ...any) error {
	c := r.cols[r.i-1]
	*dest[0].(*string) = c[0]
	*dest[1].(*string) = c[1]
	return nil
}

// columnsDB answers the information_schema query from a fixed column list.
type columnsDB struct {
	database.DB
	cols    [][2]string
	queried []string
}

func (d *columnsDB) Query(_ context.Context, _ string, args ...any) (database.Rows, error) {
	d.queried = append([]string(nil), args[0].([]string)...)
	return &columnRows{cols: d.cols}, nil
}

func migrated(t Tables) [][2]string {
	var out [][2]string
	for table, cols := range t {
		for _, c := range cols {
			out = append(out, [2]string{table, c})
		}
	}
	return out
}

func TestSchemaSeeder_AcceptsMigratedSchema(t *testing.T) {
	db := &columnsDB{cols: migrated(ScreeningTables)}
	if err := (SchemaSeeder{}).Run(context.Background(), db); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(db.queried) != 3 {
		t.Fatalf("expected one query covering three tables, got %v", db.queried)
	}
}

func TestSchemaSeeder_ReportsMissingCandidateColumns(t *testing.T) {
	var cols [][2]string
	for _, c := range migrated(ScreeningTables) {
		if c == [2]string{"candidates", "is_shortlisted"} || c == [2]string{"candidates", "analysis_summary"} {
			continue
		}
		cols = append(cols, c)
	}

	err := (SchemaSeeder{}).Run(context.Background(), &columnsDB{cols: cols})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if !strings.HasSuffix(err.Error(), "missing candidates.analysis_summary, candidates.is_shortlisted") {
		t.Fatalf("expected both columns in order, got %q", err.Error())
	}
}

func TestCheckColumns_SameColumnNameInAnotherTable(t *testing.T) {
	// jobs.title exists but candidates.title does not.
	db := &columnsDB{cols: [][2]string{{"jobs", "title"}}}
	err := CheckColumns(context.Background(), db, Tables{"candidates": {"title"}})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

func TestCheckColumns_RejectsEmptyNames(t *testing.T) {
	db := &columnsDB{}
	if err := CheckColumns(context.Background(), db, Tables{"": {"id"}}); err == nil {
		t.Fatal("expected error for empty table")
	}
	if err := CheckColumns(context.Background(), db, Tables{"jobs": {""}}); err == nil {
		t.Fatal("expected error for empty column")
	}
	if db.queried != nil {
		t.Fatal("invalid input must not reach the database")
	}
}
