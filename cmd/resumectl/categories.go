package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tCATEGORY\n")
			for _, c := range domain.Categories() {
				fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Label)
			}
			return w.Flush()
		},
	}
}
