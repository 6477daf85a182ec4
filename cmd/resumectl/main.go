package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kirillkom/resume-classifier/internal/config"
	"github.com/kirillkom/resume-classifier/internal/observability/logging"
)

var version = "dev"

type rootOptions struct {
	vectorizerPath string
	classifierPath string
	logLevel       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "resumectl",
		Short: "Classify résumés into job categories",
		Long: `resumectl runs the résumé classification pipeline locally: text extraction
from PDF, DOCX or plain text, noise normalization, and category prediction
with the exported TF-IDF model.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Logs go to stderr so stdout stays usable for results and MCP framing.
			slog.SetDefault(logging.NewJSONLoggerTo(cmd.ErrOrStderr(), "resumectl", opts.logLevel))
		},
	}

	defaults, err := config.Load()
	if err != nil {
		defaults = config.Default()
	}
	cmd.PersistentFlags().StringVar(&opts.vectorizerPath, "vectorizer", defaults.VectorizerPath, "path to the exported vectorizer (json or yaml)")
	cmd.PersistentFlags().StringVar(&opts.classifierPath, "classifier", defaults.ClassifierPath, "path to the exported classifier (json or yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(classifyCmd(opts, defaults))
	cmd.AddCommand(cleanCmd(defaults))
	cmd.AddCommand(categoriesCmd())
	cmd.AddCommand(mcpCmd(opts, defaults))
	return cmd
}

func (o *rootOptions) config(base config.Config) config.Config {
	cfg := base
	cfg.VectorizerPath = o.vectorizerPath
	cfg.ClassifierPath = o.classifierPath
	return cfg
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
