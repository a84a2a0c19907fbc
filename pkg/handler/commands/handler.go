package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/slack-go/slack"

	"github.com/kaplan-michael/neecathon-bank/pkg/database"
	"github.com/kaplan-michael/neecathon-bank/pkg/handler"
	"github.com/kaplan-michael/neecathon-bank/pkg/roles"
)

// Settings are the event-specific values handlers need.
type Settings struct {
	InitialBalance    decimal.Decimal
	TeamChannelPrefix string
	SupportChannelID  string
	StaffChannelID    string
}

// Handler implements every slash command. It is not safe for concurrent use:
// the dispatcher calls it from a single goroutine, which is what makes the
// check-then-act sequences below safe.
type Handler struct {
	store     handler.Store
	notifier  handler.Notifier
	responder handler.Responder
	settings  Settings
	logger    *log.Logger

	// newEntryCode is swapped in tests to force collisions.
	newEntryCode func() (string, error)
}

func New(store handler.Store, notifier handler.Notifier, responder handler.Responder, settings Settings, logger *log.Logger) *Handler {
	if settings.TeamChannelPrefix == "" {
		settings.TeamChannelPrefix = "t_"
	}
	return &Handler{
		store:        store,
		notifier:     notifier,
		responder:    responder,
		settings:     settings,
		logger:       logger,
		newEntryCode: GenerateEntryCode,
	}
}

// request is a slash command whose sender has been registered.
type request struct {
	cmd  slack.SlashCommand
	user database.User
	role roles.Role
	args []string
}

// outcome is what a command body hands back to run: whether it succeeded,
// the request log description and the reply. A non-nil err means the store
// failed and the reply is replaced by the default error.
type outcome struct {
	success bool
	audit   string
	reply   *slack.WebhookMessage
	err     error
}

func succeeded(audit string, reply *slack.WebhookMessage) outcome {
	return outcome{success: true, audit: audit, reply: reply}
}

func rejected(audit string, text string) outcome {
	return outcome{audit: audit, reply: textReply(text)}
}

func failed(audit string, err error) outcome {
	return outcome{audit: audit, err: err}
}

func textReply(text string) *slack.WebhookMessage {
	return &slack.WebhookMessage{Text: text}
}

func detailsReply(text, details string) *slack.WebhookMessage {
	return &slack.WebhookMessage{
		Text:        text,
		Attachments: []slack.Attachment{{Text: details}},
	}
}

type body func(ctx context.Context, req *request) outcome

// run is the template shared by every command: lazy user registration, the
// privilege check, the command body, and finally the request log and the
// delayed reply.
func (h *Handler) run(ctx context.Context, cmd slack.SlashCommand, required roles.Role, fn body) {
	if _, err := h.store.EnsureUser(ctx, cmd.UserID, cmd.UserName); err != nil {
		h.finish(ctx, cmd, failed(auditUserAdditionFailed, err))
		return
	}
	user, err := h.store.GetUser(ctx, cmd.UserID)
	if err != nil {
		h.finish(ctx, cmd, failed(auditUserSearchFailed, err))
		return
	}

	req := &request{cmd: cmd, user: user, args: strings.Fields(cmd.Text)}
	if required != roles.None {
		role, err := h.store.UserRole(ctx, cmd.UserID)
		if err != nil {
			h.finish(ctx, cmd, failed(auditPermissionFailed, err))
			return
		}
		if !roles.MeetsOrExceeds(required, role) {
			h.finish(ctx, cmd, rejected(auditUnauthorized, h.unauthorized()))
			return
		}
		req.role = role
	}

	h.finish(ctx, cmd, fn(ctx, req))
}

func (h *Handler) finish(ctx context.Context, cmd slack.SlashCommand, o outcome) {
	logger := h.logger.With("command", cmd.Command, "user", cmd.UserID)
	switch {
	case o.err != nil:
		logger.Error(o.audit, "err", o.err)
		o.success = false
		o.reply = textReply(h.DefaultError())
	case o.success:
		logger.Info(o.audit)
	default:
		logger.Warn(o.audit)
	}

	// The handler context may already be past its deadline; the request log
	// and the reply still deserve a chance.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := h.store.SaveRequestLog(ctx, cmd, o.success, o.audit); err != nil {
		logger.Warn("Failed to save request log on database", "err", err)
	}
	if o.reply == nil {
		return
	}
	if err := h.responder.Respond(ctx, cmd.ResponseURL, o.reply); err != nil {
		logger.Error("Failed to send delayed message to Slack", "err", err)
	}
}

// UnknownCommand answers a command that matched no registered handler.
func (h *Handler) UnknownCommand(ctx context.Context, cmd slack.SlashCommand) {
	h.finish(ctx, cmd, failed(auditInvalidCommand, fmt.Errorf("unknown command %q", cmd.Command)))
}

// Fail answers a command whose processing broke down, for instance because it
// timed out or panicked.
func (h *Handler) Fail(ctx context.Context, cmd slack.SlashCommand, err error) {
	h.finish(ctx, cmd, failed(auditCommandFailed, err))
}

// logLine posts to the operations log channel, best effort.
func (h *Handler) logLine(ctx context.Context, level handler.LogLevel, format string, args ...any) {
	if err := h.notifier.PostLogLine(ctx, level, fmt.Sprintf(format, args...)); err != nil {
		h.logger.Warn("Failed to post log line", "err", err)
	}
}

// post sends text to a channel, best effort.
func (h *Handler) post(ctx context.Context, channelID, text string) {
	if channelID == "" {
		return
	}
	if err := h.notifier.PostMessage(ctx, channelID, text); err != nil {
		h.logger.Warn("Failed to post message", "channel", channelID, "err", err)
	}
}

func (h *Handler) support() string {
	if h.settings.SupportChannelID == "" {
		return "the support channel"
	}
	return fmt.Sprintf("<#%s|support>", h.settings.SupportChannelID)
}

// DefaultError is the generic reply for anything that went wrong.
func (h *Handler) DefaultError() string {
	return fmt.Sprintf(msgDefaultError, h.support())
}

// OverloadedError is the immediate reply when the queue is full.
func (h *Handler) OverloadedError() string {
	return msgOverloaded + h.DefaultError()
}

// UnverifiedOriginError is the immediate reply when a request fails the
// Slack signature check.
func (h *Handler) UnverifiedOriginError() string {
	return msgUnverifiedOrigin + h.DefaultError()
}

func (h *Handler) unauthorized() string {
	return fmt.Sprintf(msgUnauthorized, h.support())
}

func (h *Handler) errorSupport(prefix string) string {
	return prefix + fmt.Sprintf(msgErrorSupport, h.support())
}

func (h *Handler) usage(usage string) string {
	return msgBadUsage + usage
}
