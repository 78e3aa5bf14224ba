package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show business details",
		Long:  "Show full details for a business, including directions and whether you have visited it.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid business ID: %s", s)
	}
	return id, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	dir, err := openDirectory()
	if err != nil {
		return err
	}
	defer closeDirectory(cmd, dir)

	d, err := dir.Details(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), d)
	}
	printDetails(cmd.OutOrStdout(), d)
	return nil
}
