package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xhad/srdx/internal/models"
)

type ArchiveConfig struct {
	ConnString string
	TableName  string
}

// Archive appends finished runs to a Postgres table. Rows are never read
// back by the pipelines.
type Archive struct {
	config ArchiveConfig
	pool   *pgxpool.Pool
	table  string
}

func NewWithConfig(ctx context.Context, config ArchiveConfig) (*Archive, error) {
	if config.TableName == "" {
		config.TableName = "extraction_runs"
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a := &Archive{
		config: config,
		pool:   pool,
		table:  pgx.Identifier{config.TableName}.Sanitize(),
	}

	if err := a.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return a, nil
}

func (a *Archive) initialize(ctx context.Context) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			pipeline TEXT NOT NULL,
			source TEXT NOT NULL,
			model TEXT NOT NULL,
			output JSONB NOT NULL,
			failed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, a.table)

	if _, err := a.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

// Record inserts one run. Output that is not valid JSON is stored as a JSON string.
func (a *Archive) Record(ctx context.Context, run models.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	output := run.Output
	if !json.Valid(output) {
		quoted, err := json.Marshal(string(output))
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		output = quoted
	}

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, pipeline, source, model, output, failed)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.table)

	if _, err := a.pool.Exec(ctx, stmt, run.ID, run.Pipeline, run.Source, run.Model, string(output), run.Failed); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

func (a *Archive) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
