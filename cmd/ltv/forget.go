package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/legendastv/ltv/internal/cli"
	"github.com/legendastv/ltv/internal/config"
	"github.com/legendastv/ltv/internal/media"
	"github.com/legendastv/ltv/internal/model"
)

func forgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forget [video-file-or-key]",
		Short: "Remove remembered subtitle choices",
		Long: `Remove entries from the persistent choice database written by
'ltv download --remember'. Pass a video file to forget the choice covering
it, or a raw key like "breaking bad/s02". Use --all to wipe the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Load()

			all, _ := cmd.Flags().GetBool("all")
			if !all && len(args) != 1 {
				return fmt.Errorf("pass a video file or key, or --all")
			}

			store, closeStore, err := newStore(cfg, true)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			if all {
				if err := store.Clear(ctx); err != nil {
					return fmt.Errorf("failed to clear choices: %w", err)
				}
				fmt.Println(cli.FormatSuccess("Cleared all remembered choices"))
				return nil
			}

			key := model.NameKey(args[0])
			if info, statErr := os.Stat(args[0]); statErr == nil && !info.IsDir() {
				key = media.NewVideoFile(args[0]).Hints.Key()
			}

			if err := store.Forget(ctx, key); err != nil {
				return fmt.Errorf("failed to forget %q: %w", key, err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Forgot remembered choice for %q", key)))
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "remove every remembered choice")

	return cmd
}
