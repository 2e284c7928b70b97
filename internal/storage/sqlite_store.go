package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmartins/studysync/internal/models"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS slot_templates (
	rowid_ord      INTEGER PRIMARY KEY AUTOINCREMENT,
	day_of_week    TEXT NOT NULL,
	start_time     TEXT NOT NULL,
	end_time       TEXT NOT NULL,
	exception_date TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS topic_sets (
	activity_id TEXT PRIMARY KEY,
	fetched_at  TEXT NOT NULL,
	payload     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	record     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("store not initialized, run 'studysync init' first")
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to verify schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetTemplates() (TemplateCache, error) {
	var fetched string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'templates_fetched_at'").Scan(&fetched)
	if err == sql.ErrNoRows {
		return TemplateCache{}, ErrNotFound
	}
	if err != nil {
		return TemplateCache{}, err
	}

	cache := TemplateCache{}
	cache.FetchedAt, err = time.Parse(time.RFC3339, fetched)
	if err != nil {
		return TemplateCache{}, fmt.Errorf("invalid templates_fetched_at: %w", err)
	}

	var excluded string
	if err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'excluded_dates'").Scan(&excluded); err == nil {
		if err := json.Unmarshal([]byte(excluded), &cache.ExcludedDates); err != nil {
			return TemplateCache{}, fmt.Errorf("invalid excluded_dates: %w", err)
		}
	} else if err != sql.ErrNoRows {
		return TemplateCache{}, err
	}

	rows, err := s.db.Query("SELECT day_of_week, start_time, end_time, exception_date FROM slot_templates ORDER BY rowid_ord")
	if err != nil {
		return TemplateCache{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var row models.SlotTemplate
		if err := rows.Scan(&row.DayOfWeek, &row.StartTime, &row.EndTime, &row.ExceptionDate); err != nil {
			return TemplateCache{}, err
		}
		cache.Rows = append(cache.Rows, row)
	}
	return cache, rows.Err()
}

func (s *SQLiteStore) SaveTemplates(cache TemplateCache) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM slot_templates"); err != nil {
		return err
	}
	for _, row := range cache.Rows {
		_, err := tx.Exec(
			"INSERT INTO slot_templates (day_of_week, start_time, end_time, exception_date) VALUES (?, ?, ?, ?)",
			row.DayOfWeek, row.StartTime, row.EndTime, row.ExceptionDate,
		)
		if err != nil {
			return err
		}
	}

	excluded, err := json.Marshal(cache.ExcludedDates)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO meta (key, value) VALUES ('excluded_dates', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		string(excluded),
	); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO meta (key, value) VALUES ('templates_fetched_at', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		cache.FetchedAt.Format(time.RFC3339),
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetTopics(activityID string) (TopicSet, error) {
	var fetched, payload string
	err := s.db.QueryRow(
		"SELECT fetched_at, payload FROM topic_sets WHERE activity_id = ?", activityID,
	).Scan(&fetched, &payload)
	if err == sql.ErrNoRows {
		return TopicSet{}, ErrNotFound
	}
	if err != nil {
		return TopicSet{}, err
	}

	set := TopicSet{}
	set.FetchedAt, err = time.Parse(time.RFC3339, fetched)
	if err != nil {
		return TopicSet{}, fmt.Errorf("invalid topic fetched_at: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &set.Topics); err != nil {
		return TopicSet{}, fmt.Errorf("invalid topic payload: %w", err)
	}
	return set, nil
}

func (s *SQLiteStore) SaveTopics(activityID string, set TopicSet) error {
	payload, err := json.Marshal(set.Topics)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO topic_sets (activity_id, fetched_at, payload) VALUES (?, ?, ?)
		 ON CONFLICT(activity_id) DO UPDATE SET fetched_at = excluded.fetched_at, payload = excluded.payload`,
		activityID, set.FetchedAt.Format(time.RFC3339), string(payload),
	)
	return err
}

func (s *SQLiteStore) ClearTopics() error {
	_, err := s.db.Exec("DELETE FROM topic_sets")
	return err
}

func (s *SQLiteStore) SaveRun(run models.RunRecord) error {
	record, err := json.Marshal(run)
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO runs (id, started_at, record) VALUES (?, ?, ?)",
		run.ID, run.StartedAt.Format(time.RFC3339Nano), string(record),
	); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC LIMIT ?
		)`, maxRunHistory,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetLastRun() (models.RunRecord, error) {
	var record string
	err := s.db.QueryRow("SELECT record FROM runs ORDER BY started_at DESC LIMIT 1").Scan(&record)
	if err == sql.ErrNoRows {
		return models.RunRecord{}, ErrNotFound
	}
	if err != nil {
		return models.RunRecord{}, err
	}
	run := models.RunRecord{}
	if err := json.Unmarshal([]byte(record), &run); err != nil {
		return models.RunRecord{}, fmt.Errorf("invalid run record: %w", err)
	}
	return run, nil
}

func (s *SQLiteStore) GetRuns(limit int) ([]models.RunRecord, error) {
	query := "SELECT record FROM runs ORDER BY started_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.RunRecord
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, err
		}
		run := models.RunRecord{}
		if err := json.Unmarshal([]byte(record), &run); err != nil {
			return nil, fmt.Errorf("invalid run record: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Path() string {
	return s.path
}
