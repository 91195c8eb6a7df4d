package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/legendastv/ltv/internal/cli"
	"github.com/legendastv/ltv/internal/config"
)

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog for movie and show titles",
		Long:  `Search Legendas.TV titles by name. Use the printed IDs with 'ltv subtitles'.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Load()

			client, err := newClient(ctx, cfg, false)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			titles, err := client.SearchTitles(ctx, query)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			if len(titles) == 0 {
				fmt.Println(cli.FormatWarning("No titles found for " + query))
				return nil
			}

			for _, t := range titles {
				fmt.Printf("%8d  %s\n", t.ID, t.String())
			}
			return nil
		},
	}
}
