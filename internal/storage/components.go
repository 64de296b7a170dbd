package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/KevinKickass/OpenPanelIO/internal/types"
	"github.com/jackc/pgx/v5"
)

const componentsSchema = `
CREATE TABLE IF NOT EXISTS components (
	component_key TEXT PRIMARY KEY,
	descriptor    JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// EnsureSchema creates the components table if it does not exist.
func (p *PostgresClient) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, componentsSchema); err != nil {
		return fmt.Errorf("failed to create components table: %w", err)
	}
	return nil
}

// LoadComponentCatalog returns every stored component keyed by component key.
func (p *PostgresClient) LoadComponentCatalog(ctx context.Context) (map[string]types.ComponentDescriptor, error) {
	records, err := p.ListComponents(ctx)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]types.ComponentDescriptor, len(records))
	for _, r := range records {
		entries[r.Key] = r.Descriptor
	}
	return entries, nil
}

func (p *PostgresClient) ListComponents(ctx context.Context) ([]ComponentRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT component_key, descriptor, created_at, updated_at
		FROM components
		ORDER BY component_key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	records := make([]ComponentRecord, 0)
	for rows.Next() {
		var r ComponentRecord
		var descriptorJSON []byte

		if err := rows.Scan(&r.Key, &descriptorJSON, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}

		if err := json.Unmarshal(descriptorJSON, &r.Descriptor); err != nil {
			return nil, fmt.Errorf("failed to unmarshal component %s: %w", r.Key, err)
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read components: %w", err)
	}

	return records, nil
}

// UpsertComponents writes all entries in one transaction.
func (p *PostgresClient) UpsertComponents(ctx context.Context, entries map[string]types.ComponentDescriptor) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for key, desc := range entries {
		descriptorJSON, err := json.Marshal(desc)
		if err != nil {
			return fmt.Errorf("failed to marshal component %s: %w", key, err)
		}

		batch.Queue(`
			INSERT INTO components (component_key, descriptor)
			VALUES ($1, $2)
			ON CONFLICT (component_key)
			DO UPDATE SET
				descriptor = EXCLUDED.descriptor,
				updated_at = NOW()
		`, key, descriptorJSON)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert components: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (p *PostgresClient) DeleteComponent(ctx context.Context, key string) error {
	result, err := p.pool.Exec(ctx, `
		DELETE FROM components
		WHERE component_key = $1
	`, key)

	if err != nil {
		return fmt.Errorf("failed to delete component: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
