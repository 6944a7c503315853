package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/starpp/starpp/app/ranking"
)

func newProfileCmd(a *app) *cobra.Command {
	var player string
	var limit int
	var repair, reset bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show a player's ranked pp profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if player == "" {
				return errors.New("--player is required")
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := a.openStore()
			if err != nil {
				return err
			}

			defer store.Close()

			if reset {
				existed, err := store.DeleteProfile(ctx, player)
				if err != nil {
					return err
				}

				if !existed {
					return fmt.Errorf("player %s has no profile", player)
				}

				fmt.Fprintf(out, "Deleted profile of %s\n", player)

				return nil
			}

			profile, err := store.LoadProfile(ctx, player)
			if err != nil {
				return err
			}

			if repair && profile.Repair() {
				if err = store.SaveProfile(ctx, profile); err != nil {
					return err
				}

				fmt.Fprintln(out, "Profile repaired.")
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"#", "Beatmap", "Mods", "PP", "Weighted", "Acc", "Misses", "Set"})
			table.SetAutoWrapText(false)

			for i, e := range profile.Entries {
				if limit > 0 && i >= limit {
					break
				}

				set := "-"
				if !e.SetAt.IsZero() {
					set = humanize.Time(e.SetAt)
				}

				table.Append([]string{
					humanize.Ordinal(i + 1),
					e.Title,
					e.Mods,
					humanize.FormatFloat("#,###.##", e.PP),
					humanize.FormatFloat("#,###.##", e.PP*ranking.Weight(i)),
					fmt.Sprintf("%.2f%%", e.Accuracy*100),
					humanize.Comma(int64(e.Misses)),
					set,
				})
			}

			table.Render()

			fmt.Fprintf(out, "%s: %s pp over %d plays\n", player, humanize.FormatFloat("#,###.##", profile.Total), len(profile.Entries))

			return nil
		},
	}

	cmd.Flags().StringVarP(&player, "player", "p", "", "player id")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "show only the top entries")
	cmd.Flags().BoolVar(&repair, "repair", false, "fix ordering, duplicates and size of the stored profile")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete the stored profile")

	return cmd
}
