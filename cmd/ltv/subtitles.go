package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/legendastv/ltv/internal/cli"
	"github.com/legendastv/ltv/internal/config"
)

func subtitlesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subtitles <title-id>",
		Short: "List available subtitles for a title",
		Long: `List the subtitles the catalog has for a title ID, newest first.
Pack releases carry a P marker, featured ones a * marker.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Load()

			titleID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid title ID %q", args[0])
			}
			if err := validLanguage(cfg.Language); err != nil {
				return err
			}

			client, err := newClient(ctx, cfg, false)
			if err != nil {
				return err
			}

			subs, err := client.SearchSubtitles(ctx, titleID, cfg.Language)
			if err != nil {
				return fmt.Errorf("listing failed: %w", err)
			}
			if len(subs) == 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("No %s subtitles for title %d", cfg.Language, titleID)))
				return nil
			}

			for _, s := range subs {
				fmt.Printf("%s %-60s  %5d downloads  %s  by %s\n",
					s.Marker(), s.Release, s.Downloads, s.Date.Format("2006-01-02"), s.Username)
			}
			return nil
		},
	}
}
