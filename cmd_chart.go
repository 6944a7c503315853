package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/starpp/starpp/app/beatmap"
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating"
)

func newChartCmd(a *app) *cobra.Command {
	var flags ratingFlags
	var format string

	cmd := &cobra.Command{
		Use:   "chart <beatmap.json>",
		Short: "Print the per-section strain series of a beatmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bm, err := beatmap.LoadFile(args[0])
			if err != nil {
				return err
			}

			series, err := starrating.NewDifficultyCalculator().CalculateStrainPeaks(bm, a.options(flags))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")

				return enc.Encode(series.Points)
			case "csv":
				w := csv.NewWriter(out)

				if err = w.Write([]string{"time", "aim", "speed", "strain"}); err != nil {
					return err
				}

				for i, p := range series.Points {
					err = w.Write([]string{
						strconv.FormatFloat(p.Time, 'f', 3, 64),
						strconv.FormatFloat(series.Aim[i], 'f', 4, 64),
						strconv.FormatFloat(series.Speed[i], 'f', 4, 64),
						strconv.FormatFloat(p.Strain, 'f', 4, 64),
					})
					if err != nil {
						return err
					}
				}

				w.Flush()

				return w.Error()
			}

			return fmt.Errorf("unknown format %q", format)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or json")

	return cmd
}
