package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/toolshelf/internal/domain"
	"github.com/MrSnakeDoc/toolshelf/internal/logger"
	"github.com/MrSnakeDoc/toolshelf/internal/store/file"
)

func newListCmd() *cobra.Command {
	var (
		path     string
		query    string
		category string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the stored tools, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tools := file.New(path, logger.New("warn", true)).Load()
			shown := domain.Filter{Category: category, Text: query}.Apply(tools)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TITLE\tCATEGORY\tURL")
			for _, t := range shown {
				fmt.Fprintf(w, "%s %s\t%s\t%s\n", t.DisplayEmoji(), t.DisplayTitle(), t.CategoryOrDefault(), t.URL)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d tools\n", len(shown), len(tools))
			return nil
		},
	}

	defPath := os.Getenv("TOOLSHELF_TOOLS_FILE")
	if defPath == "" {
		defPath = "tools.json"
	}
	cmd.Flags().StringVarP(&path, "file", "f", defPath, "tools JSON file")
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive text search")
	cmd.Flags().StringVarP(&category, "category", "c", "", "exact category (Todas for all)")
	return cmd
}
