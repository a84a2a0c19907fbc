package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/kaplan-michael/neecathon-bank/pkg/database"
	"github.com/kaplan-michael/neecathon-bank/pkg/roles"
)

func makeGrantAdminCommand() *cobra.Command {
	sqliteFile := os.Getenv("NEECATHON_SQLITE_FILENAME")
	if sqliteFile == "" {
		sqliteFile = "neecathon.db"
	}
	role := roles.Admin.String()
	command := &cobra.Command{
		Use:   "grant-admin <slack-user-id>",
		Short: "Give a Slack user elevated permissions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := roles.Parse(role)
			if err != nil {
				return err
			}
			if err := grantRole(cmd, sqliteFile, args[0], r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], r)
			return nil
		},
	}
	command.Flags().StringVar(&sqliteFile, "sqlite-file", sqliteFile, "SQLite database file")
	command.Flags().StringVar(&role, "role", role, "role to grant: admin, staff or none")
	return command
}

func grantRole(cmd *cobra.Command, sqliteFile, slackID string, role roles.Role) error {
	store, err := database.Open(sqliteFile)
	if err != nil {
		return errors.Wrapf(err, "open %s", sqliteFile)
	}
	defer store.Close()
	return store.SetUserRole(cmd.Context(), slackID, role)
}
