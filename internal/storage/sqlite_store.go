package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"storybook-server/internal/models"
)

var _ Store = (*sqliteStore)(nil)

// sqliteStore — файловый встраиваемый бэкенд для односерверных установок
// без Redis. Одна kv-таблица, никакой схемы поверх.
type sqliteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (and if needed creates) a file-backed store at path.
// Pass ":memory:" for an ephemeral database.
func NewSQLiteStore(path string, logger *zap.Logger) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	// Единственное соединение: store-операции должны оставаться
	// атомарными read-modify-write циклами.
	db.SetMaxOpenConns(1)

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		namespace TEXT NOT NULL,
		key       TEXT NOT NULL,
		value     BLOB NOT NULL,
		PRIMARY KEY (namespace, key)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init sqlite store schema: %w", err)
	}

	return &sqliteStore{db: db, logger: logger.Named("SQLiteStore")}, nil
}

func (s *sqliteStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE namespace = ? AND key = ?`, namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrKeyNotFound
		}
		s.logger.Error("Failed to get key from sqlite",
			zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to get key from sqlite: %w", err)
	}
	return value, nil
}

func (s *sqliteStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value`,
		namespace, key, value)
	if err != nil {
		s.logger.Error("Failed to set key in sqlite",
			zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set key in sqlite: %w", err)
	}
	return nil
}

func (s *sqliteStore) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE namespace = ? AND key = ?`, namespace, key)
	if err != nil {
		s.logger.Error("Failed to delete key from sqlite",
			zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete key from sqlite: %w", err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
