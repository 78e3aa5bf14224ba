package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/evcraddock/emprende-tacna/internal/business"
)

func newVisitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "visit <id>",
		Short: "Mark a business as visited",
		Long: `Add a business to your visited places. Marking it again only prints a
warning.`,
		Args: cobra.ExactArgs(1),
		RunE: runVisit,
	}
}

func runVisit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	dir, err := openDirectory()
	if err != nil {
		return err
	}
	defer closeDirectory(cmd, dir)

	n, err := dir.MarkVisited(id)
	if err != nil && !errors.Is(err, business.ErrAlreadyVisited) {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), n)
	}
	printNotification(cmd.OutOrStdout(), n)
	return nil
}
