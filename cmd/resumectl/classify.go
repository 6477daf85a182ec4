package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kirillkom/resume-classifier/internal/bootstrap"
	"github.com/kirillkom/resume-classifier/internal/config"
	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/textclean"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/extractor"
)

func classifyCmd(opts *rootOptions, defaults config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <file>",
		Short: "Predict the category of a résumé file",
		Long:  `Extract text from a .pdf, .docx or text file and print "Predicted category: <label>".`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier, err := bootstrap.NewClassifier(opts.config(defaults), nil)
			if err != nil {
				return err
			}
			doc, err := readDocument(args[0], defaults.MaxUploadBytes)
			if err != nil {
				return err
			}

			prediction, err := classifier.ClassifyDocument(cmd.Context(), doc)
			if err != nil {
				return errors.New(domain.FailureMessage(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), prediction.Message())
			return nil
		},
	}
}

func cleanCmd(defaults config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "clean <file>",
		Short: "Print the normalized text the classifier would see",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], defaults.MaxUploadBytes)
			if err != nil {
				return err
			}
			text, err := extractor.New().Extract(cmd.Context(), doc)
			if err != nil {
				return errors.New(domain.FailureMessage(err))
			}
			if text == "" {
				return errors.New(domain.FailureMessage(domain.ErrEmptyText))
			}
			fmt.Fprintln(cmd.OutOrStdout(), textclean.Normalize(text))
			return nil
		},
	}
}

func readDocument(path string, maxBytes int64) (domain.UploadedDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.UploadedDocument{}, fmt.Errorf("read %s: %w", path, err)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return domain.UploadedDocument{}, fmt.Errorf("read %s: file exceeds %d bytes", path, maxBytes)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.UploadedDocument{}, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.UploadedDocument{Filename: filepath.Base(path), Content: raw}, nil
}
