package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ev-priority/internal/store"
)

var importDB string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the source dataset into the SQLite record store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if importDB != "" {
			cfg.Store.DatabaseURL = importDB
		}
		if err := cfg.Validate("import"); err != nil {
			return err
		}

		env, _, err := loadEnv(ctx, cfg)
		if err != nil {
			return err
		}

		st, err := store.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return eris.Wrap(err, "import: open store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "import: migrate")
		}
		n, err := st.ReplaceRecords(ctx, env.Dataset.Records())
		if err != nil {
			return eris.Wrap(err, "import: write records")
		}

		zap.L().Info("import complete",
			zap.String("source", cfg.Source.Path),
			zap.String("db", cfg.Store.DatabaseURL),
			zap.Int("records", n),
			zap.Int("dropped", env.Dataset.Dropped()),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importDB, "db", "", "SQLite database path (default from config)")
	rootCmd.AddCommand(importCmd)
}
