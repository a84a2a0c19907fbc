package commands

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/slack-go/slack"

	"github.com/kaplan-michael/neecathon-bank/pkg/database"
	"github.com/kaplan-michael/neecathon-bank/pkg/handler"
	"github.com/kaplan-michael/neecathon-bank/pkg/roles"
)

// Hackerboy handles "/hackerboy <amount> <description>": every team gains
// (or loses, for a negative amount) the same amount. A theft that any team
// cannot afford is not applied to anyone.
func (h *Handler) Hackerboy(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.Admin, func(ctx context.Context, req *request) outcome {
		if len(req.args) == 0 {
			return rejected(auditMissingArgs, h.usage(usageHackerboy))
		}
		amount, err := parseAmount(req.args[0])
		if err != nil {
			return rejected(auditInvalidValue, h.errorSupport(msgInvalidValue))
		}
		description := restOf(req.args, 1)

		teams, err := h.store.AdjustBalances(ctx, "", amount)
		switch {
		case errors.Is(err, database.ErrInsufficientFunds):
			return rejected(auditHackerboyNotEnough, fmt.Sprintf(msgHackerboyNotEnough, formatMoney(amount.Abs())))
		case errors.Is(err, database.ErrBalanceLimit):
			return rejected(auditBalanceLimit, h.errorSupport(msgInvalidValue))
		case err != nil:
			return failed(auditTeamsBalanceFailed, err)
		}

		h.saveReward(ctx, req, "", amount, description)
		if amount.IsZero() {
			return succeeded(auditTeamsBalanceSuccess, textReply(msgHackerboyZero))
		}
		for _, t := range teams {
			h.post(ctx, t.ChannelID, hackerboyNotice(amount, description))
		}
		h.logLine(ctx, handler.LogInfo, "<@%s> adjusted every team balance by %s: %s", req.user.SlackID, formatMoney(amount), description)

		if amount.IsNegative() {
			return succeeded(auditTeamsBalanceSuccess, textReply(fmt.Sprintf(msgHackerboySub, formatMoney(amount.Abs()))))
		}
		return succeeded(auditTeamsBalanceSuccess, textReply(fmt.Sprintf(msgHackerboyAdd, formatMoney(amount))))
	})
}

// HackerboyTeam handles "/hackerboy-team <team-id> <amount> <description>".
func (h *Handler) HackerboyTeam(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.Admin, func(ctx context.Context, req *request) outcome {
		if len(req.args) < 2 {
			return rejected(auditMissingArgs, h.usage(usageHackerboyTeam))
		}
		teamID, ok := parseTeamID(req.args[0])
		if !ok {
			return rejected(auditTeamNotFound, msgTeamNotFound)
		}
		amount, err := parseAmount(req.args[1])
		if err != nil {
			return rejected(auditInvalidValue, h.errorSupport(msgInvalidValue))
		}
		description := restOf(req.args, 2)

		teams, err := h.store.AdjustBalances(ctx, teamID, amount)
		switch {
		case errors.Is(err, database.ErrNotFound):
			return rejected(auditTeamNotFound, msgTeamNotFound)
		case errors.Is(err, database.ErrInsufficientFunds):
			return rejected(auditHackerboyTeamNoMoney, fmt.Sprintf(msgHackerboyTeamNoMoney, formatMoney(amount.Abs())))
		case errors.Is(err, database.ErrBalanceLimit):
			return rejected(auditBalanceLimit, h.errorSupport(msgInvalidValue))
		case err != nil:
			return failed(auditTeamBalanceFailed, err)
		}
		team := teams[0]

		h.saveReward(ctx, req, team.ID, amount, description)
		if amount.IsZero() {
			return succeeded(auditTeamBalanceSuccess, textReply(msgHackerboyZero))
		}
		h.post(ctx, team.ChannelID, hackerboyNotice(amount, description))
		h.logLine(ctx, handler.LogInfo, "<@%s> adjusted the balance of team '%s' by %s: %s",
			req.user.SlackID, team.Name, formatMoney(amount), description)

		if amount.IsNegative() {
			return succeeded(auditTeamBalanceSuccess, textReply(fmt.Sprintf(msgHackerboyTeamSub, formatMoney(amount.Abs()), team.Name)))
		}
		return succeeded(auditTeamBalanceSuccess, textReply(fmt.Sprintf(msgHackerboyTeamAdd, formatMoney(amount), team.Name)))
	})
}

func (h *Handler) saveReward(ctx context.Context, req *request, teamID string, amount decimal.Decimal, description string) {
	err := h.store.SaveReward(ctx, database.Reward{
		AdminUser:   req.user.SlackID,
		TeamID:      teamID,
		Amount:      amount,
		Description: description,
	})
	if err != nil {
		h.logger.Warn("Failed to save reward on database", "team", teamID, "amount", amount, "err", err)
	}
}

// hackerboyNotice is the message broadcast to a team channel after an
// adjustment.
func hackerboyNotice(amount decimal.Decimal, description string) string {
	text := fmt.Sprintf(msgHackerboyTeamGift, formatMoney(amount))
	if amount.IsNegative() {
		text = fmt.Sprintf(msgHackerboyTeamTheft, formatMoney(amount.Abs()))
	}
	if description != "" {
		text += fmt.Sprintf(msgHackerboyTeamNote, description)
	}
	return text
}
