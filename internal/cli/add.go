package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/emprende-tacna/internal/business"
)

func newAddCmd() *cobra.Command {
	var d business.Draft
	var category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a business",
		Long: `Register a local business. It is placed near the center of Tacna.

Categories: restaurante, cafe, tienda, artesania, servicio, salud, educacion, otros

Example:
  et add --name "Café Zela" --type cafe --description "Café pasado y humitas" --address "Calle Zela 123"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Type = business.ParseCategory(category)
			return runAdd(cmd, d)
		},
	}

	cmd.Flags().StringVar(&d.Name, "name", "", "business name (at least 3 characters)")
	cmd.Flags().StringVar(&category, "type", "", "business category")
	cmd.Flags().StringVar(&d.Description, "description", "", "description (at least 10 characters)")
	cmd.Flags().StringVar(&d.Address, "address", "", "street address")
	cmd.Flags().StringVar(&d.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&d.Hours, "hours", "", "opening hours")
	cmd.Flags().StringVar(&d.Owner, "owner", "", "owner email (local database only; the server uses the API key owner)")

	return cmd
}

func runAdd(cmd *cobra.Command, d business.Draft) error {
	dir, err := openDirectory()
	if err != nil {
		return err
	}
	defer closeDirectory(cmd, dir)

	b, n, err := dir.Create(d)
	if err != nil {
		var verr *business.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s", verr.Message)
		}
		return fmt.Errorf("adding business: %w", err)
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, b)
	}

	printNotification(out, n)
	printBusinessSummary(out, b)
	return nil
}

func closeDirectory(cmd *cobra.Command, dir directory) {
	if err := dir.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing database: %v\n", err)
	}
}
