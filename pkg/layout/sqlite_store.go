package layout

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore 基于 SQLite 的布局存储，布局以 JSON 保存
// 使用单连接，用完必须 Close
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore 打开（必要时创建）数据库文件
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Printf("[LayoutStore] SQLite store opened at %s", path)
	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS layouts (
		name TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		items INTEGER NOT NULL,
		json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

// Close 关闭数据库
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Save(name string, snap Snapshot) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	data, err := EncodeJSON(snap)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO layouts(name, width, height, items, json, updated_at)
		VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			width=excluded.width, height=excluded.height, items=excluded.items,
			json=excluded.json, updated_at=excluded.updated_at`,
		name, snap.Width, snap.Height, len(snap.Items), string(data),
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save layout %s: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) Load(name string) (Snapshot, error) {
	var data string
	err := s.db.QueryRow(`SELECT json FROM layouts WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load layout %s: %w", name, err)
	}

	snap, err := DecodeJSON([]byte(data))
	if err != nil {
		return Snapshot{}, fmt.Errorf("layout %s: %w", name, err)
	}
	return snap, nil
}

func (s *SQLiteStore) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM layouts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM layouts WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete layout %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
	}
	return nil
}
