package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/legendastv/ltv/internal/archive"
	"github.com/legendastv/ltv/internal/cli"
	"github.com/legendastv/ltv/internal/config"
	"github.com/legendastv/ltv/internal/engine"
	"github.com/legendastv/ltv/internal/media"
	"github.com/legendastv/ltv/internal/model"
	"github.com/legendastv/ltv/internal/tui"
)

func downloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "download <video-file-or-directory>...",
		Aliases: []string{"batch"},
		Short:   "Find and download subtitles for video files",
		Long: `Search Legendas.TV for each video file, pick the best-matching subtitle
interactively, and place it next to the video. Directories are walked for
video files. Confirmed picks are reused for other files of the same show
and season in the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDownload,
	}

	cmd.Flags().Bool("tui", false, "use the full-screen selection view")
	cmd.Flags().Bool("remember", false, "persist confirmed choices across runs")
	cmd.Flags().Bool("no-auto", false, "re-prompt even when a remembered choice applies")

	return cmd
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()

	useTUI, _ := cmd.Flags().GetBool("tui")
	remember, _ := cmd.Flags().GetBool("remember")
	noAuto, _ := cmd.Flags().GetBool("no-auto")

	if err := validLanguage(cfg.Language); err != nil {
		return err
	}

	var files []model.VideoFile
	for _, arg := range args {
		found, err := media.ListVideos(arg)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", arg, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no video files found")
	}

	client, err := newClient(ctx, cfg, true)
	if err != nil {
		return err
	}

	store, closeStore, err := newStore(cfg, remember)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer func() { _ = closeStore() }()
	}

	var presenter engine.Presenter
	if useTUI {
		presenter = tui.NewPresenter()
	} else {
		presenter = cli.NewPrompter(os.Stdin, os.Stdout)
	}

	engineCfg := engine.DefaultConfig()
	engineCfg.Language = cfg.Language
	engineCfg.AutoConfirm = !noAuto

	eng := engine.New(client, store, presenter, archive.NewExtractor(), engineCfg)
	if !useTUI {
		eng.SetProgress(cli.NewProgressReporter(os.Stdout, len(files)))
	}

	outcomes := eng.Run(ctx, files)
	printSummary(outcomes)

	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func printSummary(outcomes []engine.Outcome) {
	var downloaded, skipped, failed int
	for _, o := range outcomes {
		switch o.Status {
		case engine.StatusDownloaded:
			downloaded++
		case engine.StatusSkipped:
			skipped++
		case engine.StatusFailed:
			failed++
		}
	}

	summary := fmt.Sprintf("%d downloaded, %d skipped, %d failed", downloaded, skipped, failed)
	switch {
	case failed > 0:
		fmt.Println(cli.FormatWarning(summary))
	default:
		fmt.Println(cli.FormatSuccess(summary))
	}
}
