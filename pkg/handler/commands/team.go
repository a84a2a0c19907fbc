package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/mozillazg/go-slugify"
	"github.com/slack-go/slack"

	"github.com/kaplan-michael/neecathon-bank/pkg/database"
	"github.com/kaplan-michael/neecathon-bank/pkg/handler"
	"github.com/kaplan-michael/neecathon-bank/pkg/roles"
)

const (
	entryCodeAttempts    = 10
	maxChannelNameLength = 80
)

// CreateTeam handles "/create-team <name>": it reserves a team name and hands
// out the entry code its members will use to join.
func (h *Handler) CreateTeam(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.Admin, func(ctx context.Context, req *request) outcome {
		name := strings.Join(req.args, " ")
		if name == "" {
			return rejected(auditMissingArgs, h.usage(usageCreateTeam))
		}

		available, err := h.store.TeamNameAvailable(ctx, name)
		if err != nil {
			return failed(auditTeamNameCheckFailed, err)
		}
		if !available {
			return rejected(auditTeamNameExists, fmt.Sprintf(msgTeamNameExists, name))
		}

		code, err := h.uniqueEntryCode(ctx)
		if err != nil {
			return failed(auditRegistrationFailed, err)
		}

		reg := database.TeamRegistration{TeamID: uuid.NewString(), Name: name, EntryCode: code}
		if err := h.store.SaveTeamRegistration(ctx, reg); err != nil {
			if errors.Is(err, database.ErrConflict) {
				return rejected(auditTeamNameExists, fmt.Sprintf(msgTeamNameExists, name))
			}
			return failed(auditRegistrationFailed, err)
		}

		h.logLine(ctx, handler.LogInfo, "Team '%s' registered by <@%s> (ID: %s)", reg.Name, req.user.SlackID, reg.TeamID)
		return succeeded(auditRegistrationSuccess, detailsReply(msgTeamRegistered,
			fmt.Sprintf(msgTeamRegistration, reg.Name, reg.EntryCode, reg.TeamID)))
	})
}

// uniqueEntryCode draws entry codes until one is not in use yet.
func (h *Handler) uniqueEntryCode(ctx context.Context) (string, error) {
	for i := 0; i < entryCodeAttempts; i++ {
		code, err := h.newEntryCode()
		if err != nil {
			return "", errors.Wrap(err, "generate entry code")
		}
		taken, err := h.store.EntryCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.Newf("no unique entry code after %d attempts", entryCodeAttempts)
}

// JoinTeam handles "/join <code>". The first member to join materializes the
// team with its initial balance and its private channel.
func (h *Handler) JoinTeam(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.None, func(ctx context.Context, req *request) outcome {
		if len(req.args) == 0 {
			return rejected(auditMissingArgs, h.usage(usageJoinTeam))
		}
		code := strings.ToUpper(req.args[0])

		if req.user.HasTeam() {
			return rejected(auditUserAlreadyOnTeam, h.errorSupport(msgAlreadyOnTeam))
		}

		reg, err := h.store.RegistrationByEntryCode(ctx, code)
		if errors.Is(err, database.ErrNotFound) {
			return rejected(auditInvalidEntryCode, h.errorSupport(msgInvalidCode))
		}
		if err != nil {
			return failed(auditEntryCodeFailed, err)
		}

		created, err := h.store.TeamExists(ctx, reg.TeamID)
		if err != nil {
			return failed(auditTeamSearchFailed, err)
		}

		var team database.Team
		if created {
			if team, err = h.store.GetTeam(ctx, reg.TeamID); err != nil {
				return failed(auditTeamSearchFailed, err)
			}
		} else {
			team = database.Team{ID: reg.TeamID, Name: reg.Name, Balance: h.settings.InitialBalance}
			if err := h.store.CreateTeam(ctx, team); err != nil {
				return failed(auditTeamCreationFailed, err)
			}
			team.ChannelID = h.provisionTeamChannel(ctx, team)
			h.logLine(ctx, handler.LogInfo, "Team '%s' created with a balance of %s", team.Name, formatMoney(team.Balance))
		}

		if err := h.store.AddUserToTeam(ctx, req.user.SlackID, team.ID); err != nil {
			if errors.Is(err, database.ErrConflict) {
				return rejected(auditUserAlreadyOnTeam, h.errorSupport(msgAlreadyOnTeam))
			}
			return failed(auditAddUserToTeamFailed, err)
		}

		if team.ChannelID != "" {
			if err := h.notifier.InviteUser(ctx, team.ChannelID, req.user.SlackID); err != nil {
				h.logger.Warn("Failed to invite user to team channel", "team", team.Name, "user", req.user.SlackID, "err", err)
			}
		}
		return succeeded(auditJoinTeamSuccess, textReply(fmt.Sprintf(msgJoinTeamSuccess, team.Name)))
	})
}

// provisionTeamChannel creates the team's private channel. Any failure leaves
// the team without a channel.
func (h *Handler) provisionTeamChannel(ctx context.Context, team database.Team) string {
	name := TeamChannelName(h.settings.TeamChannelPrefix, team)
	channelID, err := h.notifier.CreateChannel(ctx, name)
	if err != nil {
		h.logger.Warn("Failed to create team channel", "team", team.Name, "channel", name, "err", err)
		h.logLine(ctx, handler.LogWarning, "Could not create channel '%s' for team '%s'", name, team.Name)
		return ""
	}
	if err := h.store.SetTeamChannel(ctx, team.ID, channelID); err != nil {
		h.logger.Warn("Failed to save team channel", "team", team.Name, "channel", channelID, "err", err)
		return ""
	}
	return channelID
}

// TeamChannelName derives a valid Slack channel name for team.
func TeamChannelName(prefix string, team database.Team) string {
	slug := slugify.Slugify(team.Name)
	if slug == "" {
		slug = strings.SplitN(team.ID, "-", 2)[0]
	}
	name := prefix + slug
	if len(name) > maxChannelNameLength {
		name = strings.TrimRight(name[:maxChannelNameLength], "-")
	}
	return name
}
