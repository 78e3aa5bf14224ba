package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/emprende-tacna/internal/app"
	"github.com/evcraddock/emprende-tacna/internal/business"
)

func newFeaturedCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "featured",
		Short: "List featured businesses",
		Long:  "List the most visited businesses. Ties keep registration order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := openDirectory()
			if err != nil {
				return err
			}
			defer closeDirectory(cmd, dir)

			bs, err := dir.Featured(limit)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), bs)
			}
			return printBusinessTable(cmd.OutOrStdout(), bs, app.MsgNoBusinesses)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", business.DefaultFeaturedLimit, "number of businesses to show")

	return cmd
}
