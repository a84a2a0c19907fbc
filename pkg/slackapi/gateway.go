// Package slackapi is the bank's side of the Slack Web API: channel
// management, channel messages and the delayed replies to slash commands.
package slackapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/slack-go/slack"

	"github.com/kaplan-michael/neecathon-bank/pkg/handler"
)

// Slack error codes that mean the membership is already what was asked for.
const (
	errAlreadyInChannel = "already_in_channel"
	errNotInChannel     = "not_in_channel"
)

// Gateway implements handler.Notifier with a user token client.
type Gateway struct {
	client        *slack.Client
	logsChannelID string
	logger        *log.Logger
}

var _ handler.Notifier = (*Gateway)(nil)

func NewGateway(client *slack.Client, logsChannelID string, logger *log.Logger) *Gateway {
	return &Gateway{client: client, logsChannelID: logsChannelID, logger: logger}
}

// CreateChannel creates a private channel and returns its id.
func (g *Gateway) CreateChannel(ctx context.Context, name string) (string, error) {
	ch, err := g.client.CreateConversationContext(ctx, slack.CreateConversationParams{
		ChannelName: name,
		IsPrivate:   true,
	})
	if err != nil {
		return "", errors.Wrapf(err, "create channel %s", name)
	}
	g.logger.Info("Created channel", "name", name, "id", ch.ID)
	return ch.ID, nil
}

func (g *Gateway) InviteUser(ctx context.Context, channelID, userID string) error {
	_, err := g.client.InviteUsersToConversationContext(ctx, channelID, userID)
	if err != nil && !isSlackError(err, errAlreadyInChannel) {
		return errors.Wrapf(err, "invite %s to %s", userID, channelID)
	}
	return nil
}

func (g *Gateway) RemoveUser(ctx context.Context, channelID, userID string) error {
	err := g.client.KickUserFromConversationContext(ctx, channelID, userID)
	if err != nil && !isSlackError(err, errNotInChannel) {
		return errors.Wrapf(err, "remove %s from %s", userID, channelID)
	}
	return nil
}

func (g *Gateway) PostMessage(ctx context.Context, channelID, text string) error {
	if _, _, err := g.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false)); err != nil {
		return errors.Wrapf(err, "post to %s", channelID)
	}
	return nil
}

// PostLogLine writes one line to the operations log channel. Without a
// configured channel the line only reaches the process log.
func (g *Gateway) PostLogLine(ctx context.Context, level handler.LogLevel, text string) error {
	g.logger.Debug("Log line", "level", level, "text", text)
	if g.logsChannelID == "" {
		return nil
	}
	line := fmt.Sprintf("`%s` *%s* %s", time.Now().UTC().Format(time.DateTime), level, text)
	return g.PostMessage(ctx, g.logsChannelID, line)
}

func isSlackError(err error, code string) bool {
	var serr slack.SlackErrorResponse
	if errors.As(err, &serr) {
		return serr.Err == code
	}
	return err.Error() == code
}

// WebhookResponder posts delayed replies to a slash command's response_url.
type WebhookResponder struct {
	client *http.Client
}

var _ handler.Responder = (*WebhookResponder)(nil)

func NewWebhookResponder(client *http.Client) *WebhookResponder {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookResponder{client: client}
}

func (r *WebhookResponder) Respond(ctx context.Context, responseURL string, msg *slack.WebhookMessage) error {
	if responseURL == "" {
		return errors.New("slash command has no response_url")
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, responseURL, r.client, msg); err != nil {
		return errors.Wrap(err, "post delayed reply")
	}
	return nil
}
