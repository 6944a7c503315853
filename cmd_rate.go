package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starpp/starpp/app/beatmap"
	"github.com/starpp/starpp/app/rulesets/osu/performance/api"
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating"
)

func newRateCmd(a *app) *cobra.Command {
	var flags ratingFlags
	var workers int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "rate <beatmap.json>...",
		Short: "Calculate star ratings of beatmap files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.options(flags)

			jobs := make([]starrating.Job, 0, len(args))
			names := make([]string, 0, len(args))

			for _, path := range args {
				bm, err := beatmap.LoadFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				jobs = append(jobs, starrating.Job{BeatMap: bm, Options: opts})
				names = append(names, beatmapLabel(bm, path))
			}

			if workers <= 0 {
				workers = a.settings.Workers
			}

			results, err := starrating.NewDifficultyCalculator().CalculateBatch(cmd.Context(), jobs, workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Mode: %s, mods: %s\n", opts.Mode, modsLabel(opts.Mods))

			writeRatings(out, names, jobs, results)

			if verbose {
				for i, r := range results {
					if r.Err == nil {
						fmt.Fprintln(out)
						fmt.Fprintln(out, names[i])
						writeSkillBreakdown(out, r.Attributes)
					}
				}
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "number of beatmaps rated in parallel (default: logical CPUs)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print per-skill difficulty and length bonus")

	return cmd
}

func beatmapLabel(bm *beatmap.BeatMap, path string) string {
	if bm.Title == "" {
		return filepath.Base(path)
	}

	return bm.DisplayName()
}

func statusLabel(status beatmap.RankedStatus) string {
	return cases.Title(language.English).String(status.String())
}

func writeRatings(out io.Writer, names []string, jobs []starrating.Job, results []starrating.Result) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Beatmap", "Status", "Stars", "Aim", "Speed", "Objects", "Singles", "Length"})
	table.SetAutoWrapText(false)

	for i, r := range results {
		if r.Err != nil {
			table.Append([]string{names[i], statusLabel(jobs[i].BeatMap.Status), "-", "-", "-", "-", "-", r.Err.Error()})
			continue
		}

		attr := r.Attributes
		length := time.Duration(attr.Length * float64(time.Millisecond)).Round(time.Second)

		table.Append([]string{
			names[i],
			statusLabel(jobs[i].BeatMap.Status),
			fmt.Sprintf("%.2f", attr.Total),
			fmt.Sprintf("%.2f", attr.Aim),
			fmt.Sprintf("%.2f", attr.Speed),
			humanize.Comma(int64(attr.ObjectCount)),
			fmt.Sprintf("%d / %d", attr.SingleCount, attr.AboveThresholdCount),
			length.String(),
		})
	}

	table.Render()
}

func writeSkillBreakdown(out io.Writer, attr api.Attributes) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Skill", "Rating", "Difficulty", "Peak sum", "Length bonus"})

	rows := []struct {
		name string
		s    api.SkillAttributes
	}{
		{"Aim", attr.AimSkill},
		{"Speed", attr.SpeedSkill},
	}

	for _, row := range rows {
		table.Append([]string{
			row.name,
			fmt.Sprintf("%.2f", row.s.Rating),
			humanize.FormatFloat("#,###.##", row.s.Difficulty),
			humanize.FormatFloat("#,###.##", row.s.Total),
			fmt.Sprintf("%.3f", row.s.LengthBonus),
		})
	}

	table.Render()
}
