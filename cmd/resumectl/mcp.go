package main

import (
	"os"

	"github.com/spf13/cobra"

	mcpadapter "github.com/kirillkom/resume-classifier/internal/adapters/mcp"
	"github.com/kirillkom/resume-classifier/internal/bootstrap"
	"github.com/kirillkom/resume-classifier/internal/config"
)

func mcpCmd(opts *rootOptions, defaults config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the classify_resume tool over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			classifier, err := bootstrap.NewClassifier(opts.config(defaults), nil)
			if err != nil {
				return err
			}
			server := mcpadapter.NewServer(classifier, version, defaults.MaxUploadBytes)
			return server.ServeStdio(cmd.Context(), os.Stdin, cmd.OutOrStdout())
		},
	}
}
