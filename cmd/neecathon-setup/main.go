// Command neecathon-setup prepares a Slack workspace for the bank: it creates
// the operations channels, writes the .env file the server reads and grants
// the first admin.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func makeSetupCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "neecathon-setup [command] (flags)",
		Short: "neecathon-setup prepares a Slack workspace and a database for the NEECathon bank.",
		Long: `neecathon-setup prepares a Slack workspace and a database for the NEECathon bank.

Typical usage:
    neecathon-setup init --env-file=.env
        Ask for the Slack credentials, create the logs, staff and support channels
        and write the resulting configuration to .env.

    neecathon-setup grant-admin U024BE7LH
        Give admin permissions to a Slack user so they can register teams.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	command.AddCommand(makeInitCommand())
	command.AddCommand(makeGrantAdminCommand())
	return command
}

func main() {
	if err := makeSetupCommand().Execute(); err != nil {
		log.Error("Setup failed", "err", err)
		os.Exit(1)
	}
}
