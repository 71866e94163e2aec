package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"shelfsort/internal/catalog"
	"shelfsort/internal/classifier"
	"shelfsort/internal/config"
	"shelfsort/internal/curator"
	"shelfsort/internal/duplicates"
	"shelfsort/internal/logging"
	"shelfsort/internal/metadata/epub"
	"shelfsort/internal/organizer"
	"shelfsort/internal/pipeline"
	"shelfsort/internal/report"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		updateAuthor bool
		updateTitle  bool
		renameFiles  bool
		updateAll    bool
	)

	cmd := &cobra.Command{
		Use:   "run [root]",
		Short: "Classify, deduplicate, and organize the library",
		Long: `Run walks the library root, sorts each matching file into the processed
or failed folder based on its metadata, quarantines every copy of books
sharing an identifier, optionally offers interactive metadata edits, groups
the surviving books into per-author folders, and writes the CSV report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				root, err := config.ExpandPath(args[0])
				if err != nil {
					return fmt.Errorf("resolve library root: %w", err)
				}
				if _, err := os.Stat(root); err != nil {
					return fmt.Errorf("library root: %w", err)
				}
				cfg.Paths.LibraryDir = root
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			if updateAll {
				updateAuthor = true
				updateTitle = true
				renameFiles = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			store, err := catalog.Open()
			if err != nil {
				return err
			}
			defer store.Close()

			port := epub.New()
			prompter := curator.NewTerminalPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

			runner := pipeline.NewRunner(cfg, logger,
				classifier.New(cfg, store, port, logger),
				duplicates.New(cfg, store, logger),
				curator.New(cfg, store, port, prompter, curator.Options{
					UpdateAuthors: updateAuthor,
					UpdateTitles:  updateTitle,
				}, logger),
				organizer.New(cfg, store, organizer.Options{RenameFiles: renameFiles}, logger),
				report.New(cfg, store, logger),
			)
			if err := runner.Run(ctx); err != nil {
				return err
			}

			summary, err := report.Summarize(ctx, cfg, store)
			if err != nil {
				return err
			}
			printSummary(cmd, cfg, summary)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&updateAuthor, "update-author", "a", false, "Offer to update authors of each processed book")
	cmd.Flags().BoolVarP(&updateTitle, "update-title", "t", false, "Offer to update the title of each processed book")
	cmd.Flags().BoolVarP(&renameFiles, "rename-file", "r", false, "Rename each processed file after its sanitized title")
	cmd.Flags().BoolVar(&updateAll, "update-all", false, "Shorthand for --update-author --update-title --rename-file")

	return cmd
}

func printSummary(cmd *cobra.Command, cfg *config.Config, summary report.Summary) {
	rows := [][]string{
		{"Files discovered", strconv.Itoa(summary.Total)},
		{"Processed", strconv.Itoa(summary.Processed)},
		{"Duplicates", strconv.Itoa(summary.Duplicates)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Author folders", strconv.Itoa(summary.AuthorFolders)},
	}
	if summary.Inconsistent > 0 {
		rows = append(rows, []string{"Needs attention", strconv.Itoa(summary.Inconsistent)})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable([]string{"Result", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
	fmt.Fprintf(out, "Report written to %s\n", cfg.ReportPath())
}
