package main

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		file_name  TEXT PRIMARY KEY,
		content    BLOB NOT NULL,
		fetched_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_fetched_at ON snapshots(fetched_at);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// SaveSnapshot upserts the last successfully fetched raw CSV for a file.
func SaveSnapshot(db *sql.DB, fileName string, content []byte) error {
	_, err := db.Exec(
		`INSERT INTO snapshots (file_name, content, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(file_name) DO UPDATE SET content = excluded.content, fetched_at = excluded.fetched_at`,
		fileName, content, time.Now().UTC(),
	)
	return err
}

// LoadSnapshot returns the stored content for a file. sql.ErrNoRows when none.
func LoadSnapshot(db *sql.DB, fileName string) ([]byte, time.Time, error) {
	var content []byte
	var fetchedAt time.Time
	err := db.QueryRow(
		`SELECT content, fetched_at FROM snapshots WHERE file_name = ?`,
		fileName,
	).Scan(&content, &fetchedAt)
	return content, fetchedAt, err
}

// ListSnapshotNames returns the file names with a stored snapshot, oldest first.
func ListSnapshotNames(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT file_name FROM snapshots ORDER BY fetched_at, file_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func DeleteSnapshot(db *sql.DB, fileName string) error {
	_, err := db.Exec(`DELETE FROM snapshots WHERE file_name = ?`, fileName)
	return err
}
