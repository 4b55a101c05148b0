package audit

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"filewipe_enterprise/internal/reporting"
	"filewipe_enterprise/internal/wipe"
)

// timeLayout фиксированной ширины: строки сортируются так же, как время
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound запуск с таким run_id отсутствует в журнале
var ErrRunNotFound = errors.New("run not found")

// Ledger журнал аудита запусков затирания
type Ledger struct {
	db *sql.DB
}

// RunSummary строка журнала об одном запуске
type RunSummary struct {
	RunID     string            `json:"run_id"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Root      string            `json:"root"`
	Strategy  string            `json:"strategy"`
	Passes    int               `json:"passes"`
	ChunkSize int64             `json:"chunk_size"`
	Delete    bool              `json:"delete"`
	Summary   reporting.Summary `json:"summary"`
	Duration  string            `json:"duration"`
}

// Open открывает (или создает) журнал и инициализирует схему
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "failed to create audit directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	// sqlite не любит параллельных писателей
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	l := &Ledger{db: db}
	if err := l.init(); err != nil {
		db.Close()
		return nil, err
	}

	return l, nil
}

func (l *Ledger) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id        TEXT PRIMARY KEY,
		version       TEXT NOT NULL,
		started_at    TEXT NOT NULL,
		root          TEXT NOT NULL,
		strategy      TEXT NOT NULL,
		passes        INTEGER NOT NULL,
		chunk_size    INTEGER NOT NULL,
		delete_after  INTEGER NOT NULL,
		total_records INTEGER NOT NULL,
		total_success INTEGER NOT NULL,
		total_kept    INTEGER NOT NULL,
		total_failure INTEGER NOT NULL,
		bytes_freed   INTEGER NOT NULL,
		duration      TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS records (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id       TEXT NOT NULL REFERENCES runs(run_id),
		path         TEXT NOT NULL,
		category     TEXT NOT NULL,
		size_before  INTEGER NOT NULL,
		deleted      INTEGER NOT NULL,
		status       TEXT NOT NULL,
		strategy     TEXT NOT NULL,
		passes       INTEGER NOT NULL,
		chunk_writes INTEGER NOT NULL,
		error        TEXT NOT NULL DEFAULT '',
		wiped_at     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_records_run_id ON records(run_id);
	`
	if _, err := l.db.Exec(query); err != nil {
		return errors.Wrap(err, "failed to create tables")
	}
	return nil
}

// Close закрывает соединение с журналом
func (l *Ledger) Close() error {
	return l.db.Close()
}

// SaveRun сохраняет отчёт о запуске и все его записи в одной транзакции
func (l *Ledger) SaveRun(ctx context.Context, report *reporting.Report) error {
	if report == nil || report.RunID == "" {
		return errors.New("report without run id")
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	s := report.Summary
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, version, started_at, root, strategy, passes, chunk_size, delete_after,
			total_records, total_success, total_kept, total_failure, bytes_freed, duration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.Version, report.Timestamp.UTC().Format(timeLayout), report.Root,
		report.Strategy, report.Passes, report.ChunkSize, boolToInt(report.Delete),
		s.TotalRecords, s.TotalSuccess, s.TotalKept, s.TotalFailure, s.TotalBytesFreed, report.Duration)
	if err != nil {
		return errors.Wrapf(err, "failed to insert run %s", report.RunID)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run_id, path, category, size_before, deleted, status, strategy, passes, chunk_writes, error, wiped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare statement")
	}
	defer stmt.Close()

	for _, rec := range report.Records {
		_, err := stmt.ExecContext(ctx, report.RunID, rec.Path, string(rec.Category), rec.SizeBefore,
			boolToInt(rec.Deleted), string(rec.Status), rec.StrategyName, rec.Passes, rec.ChunkWrites,
			rec.Error, rec.Timestamp.UTC().Format(timeLayout))
		if err != nil {
			return errors.Wrapf(err, "failed to insert record %s", rec.Path)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// ListRuns возвращает последние запуски, новые первыми. limit <= 0 - без ограничения.
func (l *Ledger) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT run_id, version, started_at, root, strategy, passes, chunk_size, delete_after,
			total_records, total_success, total_kept, total_failure, bytes_freed, duration
		FROM runs ORDER BY started_at DESC, run_id`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate runs")
	}
	return runs, nil
}

// GetRun возвращает один запуск по run_id
func (l *Ledger) GetRun(ctx context.Context, runID string) (RunSummary, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT run_id, version, started_at, root, strategy, passes, chunk_size, delete_after,
			total_records, total_success, total_kept, total_failure, bytes_freed, duration
		FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunSummary{}, errors.Wrapf(ErrRunNotFound, "run %s", runID)
		}
		return RunSummary{}, err
	}
	return run, nil
}

// RunRecords возвращает записи запуска в порядке обработки
func (l *Ledger) RunRecords(ctx context.Context, runID string) ([]wipe.WipeRecord, error) {
	if _, err := l.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT path, category, size_before, deleted, status, strategy, passes, chunk_writes, error, wiped_at
		FROM records WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query records for run %s", runID)
	}
	defer rows.Close()

	var records []wipe.WipeRecord
	for rows.Next() {
		var rec wipe.WipeRecord
		var category, status, wiped string
		var deleted int
		if err := rows.Scan(&rec.Path, &category, &rec.SizeBefore, &deleted, &status,
			&rec.StrategyName, &rec.Passes, &rec.ChunkWrites, &rec.Error, &wiped); err != nil {
			return nil, errors.Wrap(err, "failed to scan record")
		}
		rec.Category = wipe.Category(category)
		rec.Status = wipe.Status(status)
		rec.Deleted = deleted != 0
		if rec.Timestamp, err = time.Parse(timeLayout, wiped); err != nil {
			return nil, errors.Wrapf(err, "invalid timestamp %q", wiped)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate records")
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (RunSummary, error) {
	var (
		run     RunSummary
		started string
		del     int
	)
	err := s.Scan(&run.RunID, &run.Version, &started, &run.Root, &run.Strategy, &run.Passes,
		&run.ChunkSize, &del, &run.Summary.TotalRecords, &run.Summary.TotalSuccess,
		&run.Summary.TotalKept, &run.Summary.TotalFailure, &run.Summary.TotalBytesFreed, &run.Duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunSummary{}, err
		}
		return RunSummary{}, errors.Wrap(err, "failed to scan run")
	}
	run.Delete = del != 0
	if run.Timestamp, err = time.Parse(timeLayout, started); err != nil {
		return RunSummary{}, errors.Wrapf(err, "invalid timestamp %q", started)
	}
	return run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
