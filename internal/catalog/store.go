package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"camsync/internal/config"
	"camsync/internal/metadata"
)

const schema = `
CREATE TABLE IF NOT EXISTS images (
    file_name TEXT PRIMARY KEY,
    rating INTEGER,
    aperture REAL,
    lens_id TEXT,
    capture_time TEXT,
    focal_length REAL,
    exposure_time REAL,
    color_temperature INTEGER
)`

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and ensures the
// schema. The store holds one connection until Close; callers open at process
// start and close at shutdown rather than per call.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.CatalogPath
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// UpsertAll inserts or replaces each record by filename inside a single
// transaction. The batch applies atomically: readers see all of it or none
// of it, and re-applying the same batch is a no-op beyond last-write-wins.
func (s *Store) UpsertAll(ctx context.Context, records []metadata.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
        INSERT OR REPLACE INTO images (
            file_name, rating, aperture, lens_id, capture_time,
            focal_length, exposure_time, color_temperature
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if record.FileName == "" {
			return errors.New("record missing file name")
		}
		if _, err := stmt.ExecContext(ctx,
			record.FileName,
			record.Rating,
			record.Aperture,
			record.LensID,
			record.CaptureTime,
			record.FocalLength,
			record.ExposureTime,
			record.ColorTemperature,
		); err != nil {
			return fmt.Errorf("upsert %s: %w", record.FileName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// ContainsFingerprint reports whether any existing record matches the given
// record on every non-key field. Filename is deliberately excluded: the check
// detects the same physical capture cataloged under a different name.
func (s *Store) ContainsFingerprint(ctx context.Context, record metadata.Record) (bool, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT 1 FROM images
        WHERE rating = ?
          AND aperture = ?
          AND lens_id = ?
          AND capture_time = ?
          AND focal_length = ?
          AND exposure_time = ?
          AND color_temperature = ?
        LIMIT 1`,
		record.Rating,
		record.Aperture,
		record.LensID,
		record.CaptureTime,
		record.FocalLength,
		record.ExposureTime,
		record.ColorTemperature,
	)

	var one int
	err := row.Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("fingerprint lookup: %w", err)
	}
	return true, nil
}

// Get returns the record stored under fileName, or nil when absent.
func (s *Store) Get(ctx context.Context, fileName string) (*metadata.Record, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT file_name, rating, aperture, lens_id, capture_time,
               focal_length, exposure_time, color_temperature
        FROM images WHERE file_name = ?`, fileName)

	var record metadata.Record
	err := row.Scan(
		&record.FileName,
		&record.Rating,
		&record.Aperture,
		&record.LensID,
		&record.CaptureTime,
		&record.FocalLength,
		&record.ExposureTime,
		&record.ColorTemperature,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &record, nil
}

// List returns all records ordered by filename.
func (s *Store) List(ctx context.Context) ([]metadata.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT file_name, rating, aperture, lens_id, capture_time,
               focal_length, exposure_time, color_temperature
        FROM images ORDER BY file_name`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []metadata.Record
	for rows.Next() {
		var record metadata.Record
		if err := rows.Scan(
			&record.FileName,
			&record.Rating,
			&record.Aperture,
			&record.LensID,
			&record.CaptureTime,
			&record.FocalLength,
			&record.ExposureTime,
			&record.ColorTemperature,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Clear removes all records.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM images`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	return nil
}
