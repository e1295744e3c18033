package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/expkit/expkit/internal/fileio"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [files...]",
		Short: "Verify input files against a sha256 hash table",
		Long: `Verify input files against a sha256sum-format hash table.

With no file arguments, every entry in the table is verified. File paths
in the table are resolved relative to the table's directory.

Examples:
  expkit verify --table SHA256SUMS
  expkit verify --table SHA256SUMS data/train.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tablePath, _ := cmd.Flags().GetString("table")
			table, err := fileio.LoadHashTable(tablePath)
			if err != nil {
				return err
			}
			baseDir := filepath.Dir(tablePath)

			files := args
			if len(files) == 0 {
				for name := range table {
					files = append(files, name)
				}
				sort.Strings(files)
			}

			failed := 0
			for _, name := range files {
				digest, ok := table[name]
				if !ok {
					return fmt.Errorf("%s: not listed in %s", name, tablePath)
				}
				if err := fileio.VerifyFile(filepath.Join(baseDir, name), digest); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: FAILED (%v)\n", name, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", name)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed verification", failed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().String("table", "SHA256SUMS", "path to the sha256sum-format hash table")
	return cmd
}
