package main

import (
	"fmt"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ev-priority/internal/model"
	"github.com/sells-group/ev-priority/internal/priority"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <score>...",
	Short: "Label priority scores High, Medium or Low",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scores := make([]float64, 0, len(args))
		for _, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return eris.Errorf("classify: invalid score %q", a)
			}
			scores = append(scores, v)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, v := range scores {
			label := priority.Classify(v)
			fmt.Fprintf(tw, "%s\t%s\t%s\n", strconv.FormatFloat(v, 'f', -1, 64), label, model.SuggestedAction(label))
		}
		return eris.Wrap(tw.Flush(), "classify: flush")
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
