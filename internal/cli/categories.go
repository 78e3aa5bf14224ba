package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/evcraddock/emprende-tacna/internal/business"
	"github.com/evcraddock/emprende-tacna/internal/overlay"
	"github.com/evcraddock/emprende-tacna/internal/web"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List business categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if isJSON() {
				opts := make([]web.CategoryOption, 0, len(business.AllCategories))
				for _, c := range business.AllCategories {
					opts = append(opts, web.CategoryOption{Value: c, Label: c.Label()})
				}
				return printJSON(out, opts)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "VALUE\tLABEL\tMARKER")
			for _, c := range business.AllCategories {
				icon := overlay.IconFor(c)
				fmt.Fprintf(tw, "%s\t%s\t%s %s\n", c, c.Label(), icon.Color, icon.Glyph)
			}
			return tw.Flush()
		},
	}
}
