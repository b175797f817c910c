package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ev-priority/internal/export"
	"github.com/sells-group/ev-priority/internal/priority"
)

var (
	mapFormat string
	mapOutput string
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Summarise station locations per borough and label",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("report"); err != nil {
			return err
		}
		env, _, err := loadEnv(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		markers := priority.SpatialSummary(env.Dataset.Records())
		log := zap.L().With(zap.String("component", "map"))

		switch f := strings.ToLower(mapFormat); f {
		case "shp":
			if mapOutput == "" {
				return eris.New("map: --output is required for shapefile output")
			}
			n, err := export.WriteShapefile(mapOutput, markers)
			if err != nil {
				return err
			}
			log.Info("shapefile written",
				zap.String("path", mapOutput),
				zap.Int("points", n),
				zap.Int("skipped", len(markers)-n),
			)
			return nil
		case "geojson":
			body, err := export.MarkersGeoJSON(markers)
			if err != nil {
				return err
			}
			w, closeFn, err := openOutput(mapOutput, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if _, err := w.Write(append(body, '\n')); err != nil {
				_ = closeFn()
				return eris.Wrap(err, "map: write geojson")
			}
			return eris.Wrap(closeFn(), "map: close output")
		default:
			format, err := export.ParseFormat(f)
			if err != nil {
				return eris.Errorf("map: unsupported format %q", mapFormat)
			}
			w, closeFn, err := openOutput(mapOutput, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := export.WriteMarkers(w, markers, format); err != nil {
				_ = closeFn()
				return err
			}
			return eris.Wrap(closeFn(), "map: close output")
		}
	},
}

func init() {
	mapCmd.Flags().StringVar(&mapFormat, "format", "geojson", "output format: geojson, shp, table, csv, json or yaml")
	mapCmd.Flags().StringVar(&mapOutput, "output", "", "write to file instead of stdout (required for shp)")
	rootCmd.AddCommand(mapCmd)
}
