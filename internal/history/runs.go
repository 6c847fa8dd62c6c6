package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"slidegen/internal/services"
)

const defaultListLimit = 20

// timestampLayout is fixed width so created_at sorts lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = "run_id, variant, route, source, attempts, seed, output_path, preview_path, hook_text, slide_count, created_at, post_json"

// Run is one recorded generation. Seed is the seed that drove the run,
// whether requested or drawn, so the post can be replayed; it is nil only for
// rows recorded without one. PostJSON holds the serialized post exactly as
// written to disk.
type Run struct {
	RunID       string
	Variant     string
	Route       string
	Source      string
	Attempts    int
	Seed        *uint64
	OutputPath  string
	PreviewPath string
	HookText    string
	SlideCount  int
	CreatedAt   time.Time
	PostJSON    string
}

// Record inserts run. A duplicate run id is an error.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.RunID == "" {
		return errors.New("record run: run id is required")
	}
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	var seed any
	if run.Seed != nil {
		seed = int64(*run.Seed)
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID,
			run.Variant,
			run.Route,
			run.Source,
			run.Attempts,
			seed,
			run.OutputPath,
			nullableString(run.PreviewPath),
			nullableString(run.HookText),
			run.SlideCount,
			created.UTC().Format(timestampLayout),
			run.PostJSON,
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		return nil
	})
}

// List returns up to limit runs, newest first. A non-positive limit uses the
// default of 20.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get fetches a single run. Unknown ids return services.ErrNotFound.
func (s *Store) Get(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, services.Wrap(services.ErrNotFound, "history", "get", fmt.Sprintf("run %q", runID), nil)
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		seed        sql.NullInt64
		previewPath sql.NullString
		hookText    sql.NullString
		createdRaw  string
	)
	if err := scanner.Scan(
		&run.RunID,
		&run.Variant,
		&run.Route,
		&run.Source,
		&run.Attempts,
		&seed,
		&run.OutputPath,
		&previewPath,
		&hookText,
		&run.SlideCount,
		&createdRaw,
		&run.PostJSON,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if seed.Valid {
		value := uint64(seed.Int64)
		run.Seed = &value
	}
	run.PreviewPath = previewPath.String
	run.HookText = hookText.String
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = created
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
