package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shelfsort/internal/config"
	"shelfsort/internal/metadata/epub"
	"shelfsort/internal/textutil"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the metadata of a single book file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			book, err := epub.New().Read(path)
			if err != nil {
				return err
			}

			author := textutil.AuthorDisplay(book.Authors)
			if author == "" {
				author = "(none)"
			}
			title := book.Title
			if title == "" {
				title = "(none)"
			}
			identifier := book.Identifier
			if identifier == "" {
				identifier = "(none)"
			}

			rows := [][]string{
				{"Identifier", identifier},
				{"Title", title},
				{"Author", author},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}
