// This file implements JSONL export of every table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Export writes one <table>.jsonl file per table into dir from a single
// consistent snapshot and returns the number of rows written per table.
// Each file is replaced atomically.
func (b *Backend) Export(ctx context.Context, dir string) (map[string]int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	counts := make(map[string]int, len(tableColumns))
	err := b.rawTx(ctx, false, func(sqlTx *sql.Tx) error {
		for _, tc := range tableColumns {
			records, err := dumpTable(sqlTx, tc.table, tc.columns)
			if err != nil {
				return err
			}
			if err := writeJSONL(jsonlPath(dir, tc.table), records); err != nil {
				return fmt.Errorf("writing %s.jsonl: %w", tc.table, err)
			}
			counts[tc.table] = len(records)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.logger.Info("exported store", "dir", dir, "tasks", counts[types.TableTasks], "dependencies", counts[types.TableDependencies])
	return counts, nil
}

// dumpTable reads all rows of one table as JSON objects keyed by column.
func dumpTable(sqlTx *sql.Tx, table string, columns []string) ([]json.RawMessage, error) {
	rows, err := sqlTx.Query("SELECT " + strings.Join(columns, ", ") + " FROM " + table + " ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("querying %s for JSONL: %w", table, err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		rec := make(map[string]any, len(columns))
		for i, col := range columns {
			if raw, ok := values[i].([]byte); ok {
				values[i] = string(raw)
			}
			rec[col] = values[i]
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s row: %w", table, err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s for JSONL: %w", table, err)
	}
	return records, nil
}

// rawTx runs fn on a plain *sql.Tx for bulk operations that work below the
// entity accessors.
func (b *Backend) rawTx(ctx context.Context, commit bool, fn func(*sql.Tx) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	sqlTx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(sqlTx); err != nil {
		return err
	}
	if !commit {
		return nil
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
