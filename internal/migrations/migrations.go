// Package migrations holds the schema used by the PostgreSQL adapters.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"slices"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed *.up.sql
var scripts embed.FS

// Names returns the migration script names in apply order.
func Names() ([]string, error) {
	names, err := fs.Glob(scripts, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("fs.Glob: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// Apply runs every script in order. Scripts are idempotent, so Apply can be rerun.
func Apply(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	names, err := Names()
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		script, err := scripts.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("scripts.ReadFile[%s]: %w", name, err)
		}

		if _, err := pool.Exec(ctx, string(script)); err != nil {
			return nil, fmt.Errorf("pool.Exec[%s]: %w", name, err)
		}
	}

	return names, nil
}
