package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every table as <table>.jsonl into dir",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			counts, err := backend.Export(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			return a.printCounts(cmd.OutOrStdout(), counts)
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load <table>.jsonl files from dir in one transaction",
		Long: `Load <table>.jsonl files from dir in one transaction. Rows whose ids
already exist, malformed lines and rows that reference missing entities are
skipped. The import is rejected as a whole if it would introduce a dependency
cycle or a reference across tenants.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			counts, err := backend.Import(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			return a.printCounts(cmd.OutOrStdout(), counts)
		},
	}
}

func (a *app) printCounts(w io.Writer, counts map[string]int) error {
	if a.flags.jsonMode {
		return writeJSON(w, counts)
	}
	tables := make([]string, 0, len(counts))
	for table := range counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Fprintf(w, "%-16s %d\n", table, counts[table])
	}
	return nil
}
