// This file implements JSONL import. Unknown fields are ignored and
// malformed lines, invalid rows and rows that violate a constraint are
// skipped; the graph and tenant rules are then checked over the merged data
// before commit.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/mesh-intelligence/taskboard/internal/graph"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// crossTenantChecks count rows that reference an entity of another tenant.
var crossTenantChecks = []struct {
	table string
	query string
}{
	{"dependencies", `SELECT COUNT(*) FROM dependencies d
		JOIN tasks a ON a.task_id = d.blocking_task_id
		JOIN tasks b ON b.task_id = d.blocked_task_id
		WHERE a.tenant_id <> d.tenant_id OR b.tenant_id <> d.tenant_id`},
	{"task_todo_links", `SELECT COUNT(*) FROM task_todo_links l
		JOIN tasks t ON t.task_id = l.task_id
		JOIN todos o ON o.todo_id = l.todo_id
		WHERE t.tenant_id <> l.tenant_id OR o.tenant_id <> l.tenant_id`},
	{"subtasks", `SELECT COUNT(*) FROM subtasks s
		JOIN tasks t ON t.task_id = s.task_id
		WHERE t.tenant_id <> s.tenant_id`},
}

// Import reads <table>.jsonl files from dir and inserts their rows in one
// transaction, parents first. Missing files are skipped. Rows whose ids
// already exist are skipped. The whole import is rolled back if the merged
// data would contain a dependency cycle or a cross-tenant reference. Returns
// the number of rows inserted per table.
func (b *Backend) Import(ctx context.Context, dir string) (map[string]int, error) {
	counts := make(map[string]int, len(tableColumns))
	err := b.rawTx(ctx, true, func(sqlTx *sql.Tx) error {
		for _, tc := range tableColumns {
			records, err := readJSONL(jsonlPath(dir, tc.table))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return fmt.Errorf("reading %s.jsonl: %w", tc.table, err)
			}
			n, skipped, err := insertRecords(sqlTx, tc.table, tc.columns, records)
			if err != nil {
				return fmt.Errorf("loading %s: %w", tc.table, err)
			}
			if skipped > 0 {
				b.logger.Debug("skipped import rows", "table", tc.table, "count", skipped)
			}
			counts[tc.table] = n
		}

		if err := checkCrossTenant(sqlTx); err != nil {
			return err
		}
		return checkAcyclic(sqlTx)
	})
	if err != nil {
		return nil, err
	}

	b.logger.Info("imported store", "dir", dir, "tasks", counts[types.TableTasks], "dependencies", counts[types.TableDependencies])
	return counts, nil
}

// insertRecords inserts parsed JSONL records into a table and returns how
// many were inserted and skipped. Only the listed columns are read from each
// record; records failing checkRecord or a constraint are skipped.
func insertRecords(sqlTx *sql.Tx, table string, columns []string, records []json.RawMessage) (inserted, skipped int, err error) {
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders(len(columns)),
	)

	stmt, err := sqlTx.Prepare(insertSQL)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			skipped++
			continue
		}
		if err := checkRecord(table, columns, obj); err != nil {
			skipped++
			continue
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			args[i] = obj[col]
		}

		if _, err := stmt.Exec(args...); err != nil {
			if isConstraint(err) {
				skipped++
				continue
			}
			return inserted, skipped, fmt.Errorf("inserting into %s: %w", table, err)
		}
		inserted++
	}
	return inserted, skipped, nil
}

func checkCrossTenant(sqlTx *sql.Tx) error {
	for _, check := range crossTenantChecks {
		var n int
		if err := sqlTx.QueryRow(check.query).Scan(&n); err != nil {
			return fmt.Errorf("checking %s tenants: %w", check.table, err)
		}
		if n > 0 {
			return fmt.Errorf("%d %s rows reference another tenant: %w", n, check.table, types.ErrInvalidData)
		}
	}
	return nil
}

// checkAcyclic rebuilds each tenant's graph and rejects the first cycle.
func checkAcyclic(sqlTx *sql.Tx) error {
	rows, err := sqlTx.Query("SELECT " + dependencyColumns + " FROM dependencies")
	if err != nil {
		return fmt.Errorf("fetching dependencies: %w", err)
	}
	defer rows.Close()

	byTenant := make(map[string][]*types.Dependency)
	for rows.Next() {
		d, err := hydrateDependency(rows)
		if err != nil {
			return fmt.Errorf("hydrating dependency: %w", err)
		}
		byTenant[d.TenantID] = append(byTenant[d.TenantID], d)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating dependencies: %w", err)
	}

	for tenantID, deps := range byTenant {
		if cycle := graph.FromDependencies(deps).FindCycle(); cycle != nil {
			return fmt.Errorf("tenant %s: %w: %s", tenantID, types.ErrCyclicDependency, strings.Join(cycle, " -> "))
		}
	}
	return nil
}
