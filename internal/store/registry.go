package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrRunNotFound is returned when a run ID is not in the registry.
var ErrRunNotFound = errors.New("run not found")

// Registry records training runs in SQLite.
type Registry struct {
	db *sql.DB
}

// OpenRegistry opens or creates the registry database at dbPath and applies
// pending migrations.
func OpenRegistry(dbPath string) (*Registry, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating registry dir: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening registry db: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &Registry{db: db}, nil
}

// Close closes the registry database.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Run is one training invocation.
type Run struct {
	ID           string
	CreatedAt    time.Time
	DataPath     string
	TotalRows    int
	TrainRows    int
	TestRows     int
	Seed         int64
	TestFraction float64
	BestFamily   string
	ArtifactDir  string
	Families     []FamilyScore
}

// FamilyScore is the held-out result of one family within a run.
type FamilyScore struct {
	Family        string
	Selected      bool
	R2            float64
	MAE           float64
	RMSE          float64
	Duration      time.Duration
	Err           string
	PerCategoryR2 map[string]float64
}

// RecordRun stores a run and its family scores in one transaction. An empty
// run ID is replaced with a new UUID, which is returned.
func (r *Registry) RecordRun(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO runs
		(run_id, created_at, data_path, total_rows, train_rows, test_rows, seed, test_fraction, best_family, artifact_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(timeLayout), run.DataPath,
		run.TotalRows, run.TrainRows, run.TestRows, run.Seed, run.TestFraction,
		run.BestFamily, run.ArtifactDir,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	metricStmt, err := tx.Prepare(`INSERT INTO run_metrics
		(run_id, family, position, selected, r2, mae, rmse, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer func() { _ = metricStmt.Close() }()

	catStmt, err := tx.Prepare(`INSERT INTO run_category_r2 (run_id, family, category, r2) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer func() { _ = catStmt.Close() }()

	for i, fs := range run.Families {
		if _, err := metricStmt.Exec(run.ID, fs.Family, i, boolToInt(fs.Selected),
			fs.R2, fs.MAE, fs.RMSE, fs.Duration.Milliseconds(), fs.Err); err != nil {
			return "", fmt.Errorf("inserting %s metrics: %w", fs.Family, err)
		}
		for cat, r2 := range fs.PerCategoryR2 {
			if _, err := catStmt.Exec(run.ID, fs.Family, cat, r2); err != nil {
				return "", fmt.Errorf("inserting %s category scores: %w", fs.Family, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return run.ID, nil
}

// ListRuns returns the most recent runs, newest first, without family scores.
// A limit of 0 or less returns every run.
func (r *Registry) ListRuns(limit int) ([]Run, error) {
	query := `SELECT run_id, created_at, data_path, total_rows, train_rows, test_rows,
		seed, test_fraction, best_family, artifact_dir
		FROM runs ORDER BY created_at DESC, run_id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns one run with its family scores.
func (r *Registry) GetRun(id string) (Run, error) {
	row := r.db.QueryRow(`SELECT run_id, created_at, data_path, total_rows, train_rows, test_rows,
		seed, test_fraction, best_family, artifact_dir
		FROM runs WHERE run_id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}
	run.Families, err = r.RunMetrics(id)
	return run, err
}

// RunMetrics returns the family scores of a run in their training order.
func (r *Registry) RunMetrics(id string) ([]FamilyScore, error) {
	rows, err := r.db.Query(`SELECT family, selected, r2, mae, rmse, duration_ms, error
		FROM run_metrics WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var scores []FamilyScore
	for rows.Next() {
		var fs FamilyScore
		var selected int
		var durMs int64
		if err := rows.Scan(&fs.Family, &selected, &fs.R2, &fs.MAE, &fs.RMSE, &durMs, &fs.Err); err != nil {
			return nil, err
		}
		fs.Selected = selected != 0
		fs.Duration = time.Duration(durMs) * time.Millisecond
		scores = append(scores, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := r.db.Query(`SELECT family, category, r2 FROM run_category_r2 WHERE run_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = catRows.Close() }()

	byFamily := make(map[string]map[string]float64)
	for catRows.Next() {
		var family, cat string
		var r2 float64
		if err := catRows.Scan(&family, &cat, &r2); err != nil {
			return nil, err
		}
		if byFamily[family] == nil {
			byFamily[family] = make(map[string]float64)
		}
		byFamily[family][cat] = r2
	}
	for i := range scores {
		scores[i].PerCategoryR2 = byFamily[scores[i].Family]
	}
	return scores, catRows.Err()
}

// DeleteRun removes a run and its scores.
func (r *Registry) DeleteRun(id string) error {
	res, err := r.db.Exec("DELETE FROM runs WHERE run_id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (Run, error) {
	var run Run
	var created string
	if err := s.Scan(&run.ID, &created, &run.DataPath, &run.TotalRows, &run.TrainRows, &run.TestRows,
		&run.Seed, &run.TestFraction, &run.BestFamily, &run.ArtifactDir); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: bad created_at %q: %w", run.ID, created, err)
	}
	run.CreatedAt = t
	return run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
