package main

import (
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/starpp/starpp/app/beatmap"
)

func newWhitelistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist",
		Short: "Manage beatmaps that are eligible regardless of their ranked status",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <hash>...",
		Short: "Whitelist beatmaps by md5 hash",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}

			defer store.Close()

			for _, hash := range args {
				if err = store.AddToWhitelist(cmd.Context(), hash); err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Whitelisted", hash)
			}

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <hash>...",
		Short: "Remove beatmaps from the whitelist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}

			defer store.Close()

			for _, hash := range args {
				removed, err := store.RemoveFromWhitelist(cmd.Context(), hash)
				if err != nil {
					return err
				}

				if !removed {
					return fmt.Errorf("%s is not whitelisted", hash)
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Removed", hash)
			}

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List whitelisted beatmaps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.openStore()
			if err != nil {
				return err
			}

			defer store.Close()

			hashes, err := store.Whitelist(ctx)
			if err != nil {
				return err
			}

			provider := a.beatmapProvider(ctx)

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Hash", "Beatmap", "Status"})
			table.SetAutoWrapText(false)

			for _, hash := range hashes {
				info, err := provider.Lookup(ctx, hash)

				switch {
				case errors.Is(err, beatmap.ErrNotFound):
					table.Append([]string{hash, "unknown", "-"})
				case err != nil:
					return err
				default:
					table.Append([]string{hash, info.DisplayName(), statusLabel(info.Status)})
				}
			}

			table.Render()

			return nil
		},
	})

	return cmd
}
