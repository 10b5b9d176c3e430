// Package archive keeps a SQLite history of generated reports.
//
// Each run stores its inputs and every cell of the report tables in long
// form, so earlier reports can be listed and their tables rebuilt.
package archive

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/asmreport/internal/table"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrRunNotFound is returned when a run id is not in the archive.
var ErrRunNotFound = errors.New("run not found")

// Run describes one archived report.
type Run struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	QCPath      string    `json:"qc_path"`
	MLSTPath    string    `json:"mlst_path"`
	AMRPath     string    `json:"amr_path"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Store is a report archive backed by a SQL database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New wraps an open database. The schema is not touched; call Migrate.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger}
}

// Open opens (creating if needed) the SQLite archive at path and applies
// pending migrations.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}

	s := New(db, logger)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate runs all pending migrations.
func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save stores run and its tables in one transaction and returns the run
// id, generating one when run.ID is empty. Nothing is stored on failure.
func (s *Store) Save(ctx context.Context, run Run, tables ...*table.Table) (id string, err error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.GeneratedAt.IsZero() {
		run.GeneratedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, title, qc_path, mlst_path, amr_path, generated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Title, run.QCPath, run.MLSTPath, run.AMRPath,
		run.GeneratedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	colStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_columns (run_id, table_name, table_index, column_index, column_name) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare column insert: %w", err)
	}
	defer func() { _ = colStmt.Close() }()

	cellStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cells (run_id, table_name, row_index, column_index, column_name, value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare cell insert: %w", err)
	}
	defer func() { _ = cellStmt.Close() }()

	cells := 0
	for ti, t := range tables {
		for ci, col := range t.Columns {
			if _, err = colStmt.ExecContext(ctx, run.ID, t.Name, ti, ci, col); err != nil {
				return "", fmt.Errorf("failed to insert column %s.%s: %w", t.Name, col, err)
			}
		}
		for ri, row := range t.Rows {
			for ci, v := range row {
				if _, err = cellStmt.ExecContext(ctx, run.ID, t.Name, ri, ci, t.Columns[ci], v); err != nil {
					return "", fmt.Errorf("failed to insert %s row %d: %w", t.Name, ri, err)
				}
				cells++
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit archive transaction: %w", err)
	}

	s.logger.Debug("archived run", slog.String("id", run.ID), slog.Int("tables", len(tables)), slog.Int("cells", cells))
	return run.ID, nil
}

// Runs lists archived runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, qc_path, mlst_path, amr_path, generated_at FROM runs ORDER BY generated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetRun retrieves a run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, qc_path, mlst_path, amr_path, generated_at FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var run Run
	var generated string
	if err := sc.Scan(&run.ID, &run.Title, &run.QCPath, &run.MLSTPath, &run.AMRPath, &generated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, generated)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp for run %s: %w", run.ID, err)
	}
	run.GeneratedAt = t
	return &run, nil
}

// Tables rebuilds the tables of a run in the order they were saved.
func (s *Store) Tables(ctx context.Context, id string) ([]*table.Table, error) {
	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT table_name, column_name FROM run_columns WHERE run_id = ? ORDER BY table_index, column_index`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	var tables []*table.Table
	byName := make(map[string]*table.Table)
	for rows.Next() {
		var name, col string
		if err := rows.Scan(&name, &col); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		t, ok := byName[name]
		if !ok {
			t = table.New(name)
			byName[name] = t
			tables = append(tables, t)
		}
		t.Columns = append(t.Columns, col)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}

	cells, err := s.db.QueryContext(ctx,
		`SELECT table_name, row_index, column_index, value FROM cells WHERE run_id = ? ORDER BY table_name, row_index, column_index`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load cells: %w", err)
	}
	defer func() { _ = cells.Close() }()
	for cells.Next() {
		var name, value string
		var ri, ci int
		if err := cells.Scan(&name, &ri, &ci, &value); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		t, ok := byName[name]
		if !ok || ci >= t.Width() {
			return nil, fmt.Errorf("cell %s[%d][%d] has no column", name, ri, ci)
		}
		for len(t.Rows) <= ri {
			t.Rows = append(t.Rows, make([]string, t.Width()))
		}
		t.Rows[ri][ci] = value
	}
	if err := cells.Err(); err != nil {
		return nil, fmt.Errorf("failed to load cells: %w", err)
	}
	return tables, nil
}
