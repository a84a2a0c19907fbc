package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"
)

type initConfig struct {
	envFile        string
	force          bool
	signingSecret  string
	userToken      string
	sqliteFile     string
	logsChannel    string
	staffChannel   string
	supportChannel string
	apiURL         string
}

func makeInitCommand() *cobra.Command {
	var config initConfig
	command := &cobra.Command{
		Use:   "init",
		Short: "Create the Slack channels and write the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "setup"})
			return runInit(cmd.Context(), config, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
		},
	}
	flags := command.Flags()
	flags.StringVar(&config.envFile, "env-file", ".env", "configuration file to write")
	flags.BoolVar(&config.force, "force", false, "overwrite an existing configuration file")
	flags.StringVar(&config.signingSecret, "signing-secret", "", "Slack app signing secret (prompted when empty)")
	flags.StringVar(&config.userToken, "user-token", "", "Slack user token (prompted when empty)")
	flags.StringVar(&config.sqliteFile, "sqlite-file", "neecathon.db", "SQLite database file")
	flags.StringVar(&config.logsChannel, "logs-channel", "logs", "private channel receiving operation logs")
	flags.StringVar(&config.staffChannel, "staff-channel", "staff", "private channel for staff members")
	flags.StringVar(&config.supportChannel, "support-channel", "support", "public channel where participants ask for help")
	flags.StringVar(&config.apiURL, "slack-api-url", slack.APIURL, "Slack Web API base URL")
	_ = flags.MarkHidden("slack-api-url")
	return command
}

func runInit(ctx context.Context, config initConfig, in io.Reader, out io.Writer, logger *log.Logger) error {
	if !config.force {
		if _, err := os.Stat(config.envFile); err == nil {
			return errors.Newf("%s already exists, use --force to overwrite it", config.envFile)
		}
	}

	fmt.Fprintln(out, "Please provide the information asked in order to setup the application.")
	reader := bufio.NewReader(in)
	var err error
	if config.signingSecret, err = prompt(reader, out, "Slack signing secret", config.signingSecret); err != nil {
		return err
	}
	if config.userToken, err = prompt(reader, out, "Slack user token", config.userToken); err != nil {
		return err
	}

	client := slack.New(config.userToken, slack.OptionAPIURL(config.apiURL))
	channels := []struct {
		name    string
		private bool
		envVar  string
	}{
		{config.logsChannel, true, "SLACK_LOGS_CHANNEL_ID"},
		{config.staffChannel, true, "SLACK_STAFF_CHANNEL_ID"},
		{config.supportChannel, false, "SLACK_SUPPORT_CHANNEL_ID"},
	}

	env := map[string]string{
		"NEECATHON_SQLITE_FILENAME": config.sqliteFile,
		"SLACK_SIGNING_SECRET":      config.signingSecret,
		"SLACK_USER_TOKEN":          config.userToken,
	}
	for _, ch := range channels {
		created, err := client.CreateConversationContext(ctx, slack.CreateConversationParams{
			ChannelName: ch.name,
			IsPrivate:   ch.private,
		})
		if err != nil {
			// The server runs without the channel; the id can be added later.
			logger.Error("Failed to create channel", "name", ch.name, "err", err)
			continue
		}
		logger.Info("Channel created", "name", created.Name, "id", created.ID)
		env[ch.envVar] = created.ID
	}

	if err := godotenv.Write(env, config.envFile); err != nil {
		return errors.Wrapf(err, "write %s", config.envFile)
	}
	fmt.Fprintf(out, "Configuration written to %s\n", config.envFile)
	return nil
}

// prompt returns value, or asks for it when it is empty.
func prompt(reader *bufio.Reader, out io.Writer, label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(out, "%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrapf(err, "read %s", strings.ToLower(label))
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.Newf("%s is required", strings.ToLower(label))
	}
	return line, nil
}
