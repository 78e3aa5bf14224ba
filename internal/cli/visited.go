package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/emprende-tacna/internal/app"
)

func newVisitedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "visited",
		Short: "List visited businesses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := openDirectory()
			if err != nil {
				return err
			}
			defer closeDirectory(cmd, dir)

			bs, err := dir.Visited()
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), bs)
			}
			return printBusinessTable(cmd.OutOrStdout(), bs, app.MsgNoVisits)
		},
	}
}
