package statestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// PostgresStore persists documents in a single key/value table:
//
//	CREATE TABLE IF NOT EXISTS client_state (
//	    key        TEXT PRIMARY KEY,
//	    doc        JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	)
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Migrate creates the backing table if it does not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS client_state (
			key        TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create client_state table: %w", err)
	}
	return nil
}

// Load implements Store.
func (p *PostgresStore) Load(ctx context.Context, key string, v any) error {
	query, args, err := p.builder.
		Select("doc").
		From("client_state").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build select for %s: %w", key, err)
	}

	var raw []byte
	if err := p.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("load document %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document %s: %w", key, err)
	}
	return nil
}

// Save implements Store with an upsert.
func (p *PostgresStore) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", key, err)
	}

	query, args, err := p.builder.
		Insert("client_state").
		Columns("key", "doc").
		Values(key, data).
		Suffix("ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert for %s: %w", key, err)
	}

	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save document %s: %w", key, err)
	}
	return nil
}
