package main

import (
	"github.com/expkit/expkit/internal/store"
	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the result database",
	}
	cmd.AddCommand(newDBResetCmd(), newDBVacuumCmd())
	return cmd
}

func newDBResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reapply the result database schema",
		Long: `Reapply the result database schema.

With --drop, all tables are dropped first, discarding recorded data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			drop, _ := cmd.Flags().GetBool("drop")

			st, err := store.Open(cfg.ResultDir, cfg.Database.Schema, consoleLogger(cmd, cfg))
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Reset(cmd.Context(), drop)
		},
	}
	cmd.Flags().Bool("drop", false, "drop all tables before recreating the schema")
	return cmd
}

func newDBVacuumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vacuum",
		Short: "Rebuild the result database file, reclaiming space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.ResultDir, cfg.Database.Schema, consoleLogger(cmd, cfg))
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Vacuum(cmd.Context())
		},
	}
}
