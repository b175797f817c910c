package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/ev-priority/internal/export"
	"github.com/sells-group/ev-priority/internal/view"
)

var viewFormat string

var viewCmd = &cobra.Command{
	Use:       "view <name>",
	Short:     "Render a dashboard view (home, prediction, map, top-high, top-medium, top-low)",
	Args:      cobra.ExactArgs(1),
	ValidArgs: viewNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := view.ParseView(args[0])
		if err != nil {
			return err
		}
		format, err := export.ParseFormat(viewFormat)
		if err != nil {
			return err
		}
		if err := cfg.Validate("report"); err != nil {
			return err
		}
		env, _, err := loadEnv(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		res, err := view.NewRegistry().Render(cmd.Context(), v, env)
		if err != nil {
			return err
		}
		return export.Encode(cmd.OutOrStdout(), res, format)
	},
}

func viewNames() []string {
	views := view.Views()
	names := make([]string, len(views))
	for i, v := range views {
		names[i] = string(v)
	}
	return names
}

func init() {
	viewCmd.Flags().StringVar(&viewFormat, "format", "yaml", "output format: json or yaml")
	rootCmd.AddCommand(viewCmd)
}
