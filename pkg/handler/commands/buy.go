package commands

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/slack-go/slack"

	"github.com/kaplan-michael/neecathon-bank/pkg/database"
	"github.com/kaplan-michael/neecathon-bank/pkg/handler"
	"github.com/kaplan-michael/neecathon-bank/pkg/roles"
)

// CheckBalance handles "/balance".
func (h *Handler) CheckBalance(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.None, func(ctx context.Context, req *request) outcome {
		if !req.user.HasTeam() {
			return rejected(auditUserWithoutTeam, h.errorSupport(msgNoTeam))
		}
		team, err := h.store.GetTeam(ctx, req.user.TeamID)
		if err != nil {
			return failed(auditBalanceCheckFailed, err)
		}
		return succeeded(auditBalanceSuccess, detailsReply(msgBalanceSuccess,
			fmt.Sprintf(msgBalanceDetails, team.Name, formatMoney(team.Balance))))
	})
}

// Buy handles "/buy <@user> <amount> <description>": a transfer from the
// caller's team to the destination user's team.
func (h *Handler) Buy(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.None, func(ctx context.Context, req *request) outcome {
		if !req.user.HasTeam() {
			return rejected(auditUserWithoutTeam, h.errorSupport(msgNoTeam))
		}
		if len(req.args) == 0 {
			return rejected(auditNoDestinationUser, msgBuyNoDestination)
		}
		ref, ok := parseMention(req.args[0])
		if !ok {
			return rejected(auditNoDestinationUser, msgBuyNoDestination)
		}
		if ref.ID == req.user.SlackID {
			return rejected(auditDestinationIsOrigin, msgBuySameUser)
		}

		dest, err := h.store.GetUser(ctx, ref.ID)
		switch {
		case errors.Is(err, database.ErrNotFound):
			return rejected(auditDestinationNoTeam, h.errorSupport(msgBuyDestinationNoTeam))
		case err != nil:
			return failed(auditTeamsCheckFailed, err)
		case !dest.HasTeam():
			return rejected(auditDestinationNoTeam, h.errorSupport(msgBuyDestinationNoTeam))
		case dest.TeamID == req.user.TeamID:
			return rejected(auditSameTeam, h.errorSupport(msgBuySameTeam))
		}

		if len(req.args) < 2 {
			return rejected(auditMissingArgs, h.usage(usageBuy))
		}
		amount, err := parseAmount(req.args[1])
		if err != nil {
			return rejected(auditAmountParsingFailed, h.errorSupport(msgInvalidValue))
		}
		if !amount.IsPositive() {
			return rejected(auditNonPositiveAmount, h.errorSupport(msgInvalidValue))
		}

		origin, err := h.store.GetTeam(ctx, req.user.TeamID)
		if err != nil {
			return failed(auditTeamsCheckFailed, err)
		}
		if !origin.Balance.GreaterThan(amount) {
			return rejected(auditNotEnoughCredit, h.errorSupport(msgBuyNotEnoughMoney))
		}

		description := restOf(req.args, 2)
		txn, err := h.store.Transfer(ctx, database.Transfer{
			OriginUser:      req.user.SlackID,
			OriginTeam:      origin.ID,
			DestinationUser: dest.SlackID,
			DestinationTeam: dest.TeamID,
			Amount:          amount,
			Description:     description,
		})
		switch {
		case errors.Is(err, database.ErrInsufficientFunds):
			return rejected(auditNotEnoughCredit, h.errorSupport(msgBuyNotEnoughMoney))
		case errors.Is(err, database.ErrBalanceLimit):
			return rejected(auditBalanceLimit, h.errorSupport(msgInvalidValue))
		case err != nil:
			return failed(auditBuyFailed, err)
		}

		if destTeam, err := h.store.GetTeam(ctx, dest.TeamID); err != nil {
			h.logger.Warn("Failed to load destination team for notification", "team", dest.TeamID, "err", err)
		} else {
			h.post(ctx, destTeam.ChannelID,
				fmt.Sprintf(msgTransactionReceived, formatMoney(amount), req.user.SlackID, description))
		}
		h.logLine(ctx, handler.LogInfo, "Transaction %s: <@%s> (%s) paid %s to <@%s>: %s",
			txn.ID, req.user.SlackID, origin.Name, formatMoney(amount), dest.SlackID, description)

		return succeeded(auditBuySuccess, textReply(fmt.Sprintf(msgBuySuccess, formatMoney(amount), dest.SlackID)))
	})
}
