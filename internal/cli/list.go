package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/emprende-tacna/internal/app"
	"github.com/evcraddock/emprende-tacna/internal/business"
)

func newListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List businesses",
		Long:  "List registered businesses in registration order, optionally filtered by category.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, business.ParseCategory(category))
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", string(business.CategoryAll), "category to show, or all")

	return cmd
}

func runList(cmd *cobra.Command, category business.Category) error {
	dir, err := openDirectory()
	if err != nil {
		return err
	}
	defer closeDirectory(cmd, dir)

	bs, err := dir.List(category)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), bs)
	}
	return printBusinessTable(cmd.OutOrStdout(), bs, app.MsgNoBusinesses)
}
