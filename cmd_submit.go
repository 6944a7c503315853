package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/starpp/starpp/app/ranking"
	"github.com/starpp/starpp/app/ranking/submission"
)

func newSubmitCmd(a *app) *cobra.Command {
	var player, playsPath, osuUser string
	var offset, start int

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit recent plays to a player's pp profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if player == "" {
				return errors.New("--player is required")
			}

			if (playsPath == "") == (osuUser == "") {
				return errors.New("exactly one of --plays or --osu-user is required")
			}

			ctx := cmd.Context()

			var recent []ranking.Play

			if playsPath != "" {
				data, err := os.ReadFile(playsPath)
				if err != nil {
					return err
				}

				if err = json.Unmarshal(data, &recent); err != nil {
					return fmt.Errorf("decode %s: %w", playsPath, err)
				}
			} else {
				var err error

				recent, err = a.osuClient(ctx).RecentPlays(ctx, osuUser, offset+start-1)
				if err != nil {
					return err
				}
			}

			plays, err := submission.SelectPlays(recent, offset, start)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}

			defer store.Close()

			perf := newLibraryPerformance(a.library(), a.options(ratingFlags{}))
			svc := submission.NewService(a.beatmapProvider(ctx), perf, store, log.Default())

			res, err := svc.Submit(ctx, player, plays)
			if err != nil {
				return err
			}

			writeBatch(cmd.OutOrStdout(), res)

			return nil
		},
	}

	cmd.Flags().StringVarP(&player, "player", "p", "", "player id the profile belongs to")
	cmd.Flags().StringVar(&playsPath, "plays", "", "JSON file with recent plays, newest first")
	cmd.Flags().StringVar(&osuUser, "osu-user", "", "fetch recent plays of this osu! user id")
	cmd.Flags().IntVarP(&offset, "offset", "n", 1, fmt.Sprintf("number of plays to submit (1-%d)", submission.MaxBatchSize))
	cmd.Flags().IntVarP(&start, "start", "s", 1, "position of the first play to submit, 1 is the most recent")

	return cmd
}

func signedPP(v float64) string {
	if v >= 0 {
		return "+" + humanize.FormatFloat("#,###.##", v)
	}

	return "-" + humanize.FormatFloat("#,###.##", -v)
}

func writeBatch(out io.Writer, res *submission.BatchResult) {
	if res.Repaired {
		fmt.Fprintln(out, "Profile was repaired before submitting.")
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Beatmap", "Mods", "PP", "Rank", "Net"})
	table.SetAutoWrapText(false)

	for _, s := range res.Submissions {
		rank := "-"
		if s.NewIndex >= 0 {
			rank = humanize.Ordinal(s.NewIndex + 1)
		}

		table.Append([]string{
			s.Entry.Title,
			s.Entry.Mods,
			humanize.FormatFloat("#,###.##", s.Entry.PP),
			rank,
			signedPP(s.NetDelta),
		})
	}

	for _, s := range res.Skipped {
		table.Append([]string{s.Play.Hash, s.Play.Mods, "-", "skipped", string(s.Reason)})
	}

	table.Render()

	fmt.Fprintf(out, "Total: %s pp (%s)\n", humanize.FormatFloat("#,###.##", res.NewTotal), signedPP(res.PPGained))
}
