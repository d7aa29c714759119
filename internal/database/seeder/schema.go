package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"resume-screener/internal/database"
)

var ErrSchemaMismatch = errors.New("schema mismatch")

// Tables maps a table name to the columns the service reads or writes.
type Tables map[string][]string

// ScreeningTables is what the repositories expect after migrations ran.
var ScreeningTables = Tables{
	"users": {"id", "email", "password_hash", "role", "created_at", "updated_at"},
	"jobs": {
		"id", "user_id", "title", "description", "requirements", "required_skills",
		"min_experience_years", "education_level", "min_score_threshold", "created_at",
	},
	"candidates": {
		"id", "job_id", "name", "email", "phone", "skills", "education", "experience",
		"resume_text", "match_score", "key_matches", "missing_skills", "analysis_summary",
		"is_shortlisted", "shortlisted_at", "shortlisted_by", "resume_file_path",
		"status", "applicant_id", "created_at",
	},
}

// CheckColumns reads information_schema once for every table in want and
// reports all missing columns together, sorted as table.column.
func CheckColumns(ctx context.Context, q database.Querier, want Tables) error {
	if q == nil {
		return errors.New("nil db")
	}
	names := make([]string, 0, len(want))
	for table, cols := range want {
		if table == "" {
			return errors.New("empty table")
		}
		for _, col := range cols {
			if col == "" {
				return fmt.Errorf("empty column in %s", table)
			}
		}
		names = append(names, table)
	}
	if len(names) == 0 {
		return nil
	}

	rows, err := q.Query(
		ctx,
		`SELECT table_name, column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = ANY($1)`,
		names,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var table, col string
		if err := rows.Scan(&table, &col); err != nil {
			return err
		}
		existing[table+"."+col] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for table, cols := range want {
		for _, col := range cols {
			if _, ok := existing[table+"."+col]; !ok {
				missing = append(missing, table+"."+col)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}

// SchemaSeeder inserts nothing. It fails the run early when migrations have
// not been applied, before any demo row is written.
type SchemaSeeder struct {
	Tables Tables
}

func (SchemaSeeder) Name() string { return "schema" }

func (s SchemaSeeder) Run(ctx context.Context, db database.DB) error {
	tables := s.Tables
	if tables == nil {
		tables = ScreeningTables
	}
	return CheckColumns(ctx, db, tables)
}
