package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/toolshelf/internal/app"
	"github.com/MrSnakeDoc/toolshelf/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "toolshelf",
		Short: "Catalog of web tools enriched by a generative model",
		Long: `toolshelf keeps a JSON collection of web tools. Each submission is a free-text
description that an AI model turns into a title, emoji, category, summary and URL.

Run without a subcommand to start the web server.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the web server (default)",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		newListCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
			},
		},
	)
	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.New(ctx)
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	return a.Run()
}
