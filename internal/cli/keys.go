package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evcraddock/emprende-tacna/internal/auth"
)

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys for business owners",
		Long: `Manage the API keys stored in the local database. A key identifies a
business owner; businesses created with it record the owner email.`,
	}

	cmd.AddCommand(newKeysCreateCmd(), newKeysListCmd(), newKeysDeleteCmd())
	return cmd
}

func newKeysCreateCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(cmd.ErrOrStderr(), database)

			raw, key, err := auth.NewAPIKeyStore(database).Create(args[0], email)
			if err != nil {
				return fmt.Errorf("creating key: %w", err)
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, struct {
					Key    string       `json:"key"`
					APIKey *auth.APIKey `json:"api_key"`
				}{raw, key})
			}
			fmt.Fprintf(out, "API key #%d created for %s.\n", key.ID, key.Email)
			fmt.Fprintf(out, "  %s\n", raw)
			fmt.Fprintln(out, "Store it now; it is not shown again.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "owner email")
	if err := cmd.MarkFlagRequired("email"); err != nil {
		panic(err)
	}

	return cmd
}

func newKeysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(cmd.ErrOrStderr(), database)

			keys, err := auth.NewAPIKeyStore(database).List()
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), keys)
			}
			return printKeyTable(cmd.OutOrStdout(), keys)
		},
	}
}

func newKeysDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid key ID: %s", args[0])
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(cmd.ErrOrStderr(), database)

			if err := auth.NewAPIKeyStore(database).Delete(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key #%d deleted.\n", id)
			return nil
		},
	}
}
