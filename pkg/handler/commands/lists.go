package commands

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/slack-go/slack"

	"github.com/kaplan-michael/neecathon-bank/pkg/command"
	"github.com/kaplan-michael/neecathon-bank/pkg/database"
	"github.com/kaplan-michael/neecathon-bank/pkg/roles"
)

// ListTransactions handles "/transactions [n]": the latest transactions of the
// caller's team.
func (h *Handler) ListTransactions(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.None, func(ctx context.Context, req *request) outcome {
		if !req.user.HasTeam() {
			return rejected(auditUserWithoutTeam, h.errorSupport(msgNoTeam))
		}
		n, err := parseQuantity(req.args, 0)
		if err != nil {
			return badQuantity(command.ListTransactions)
		}
		txns, err := h.store.ListTeamTransactions(ctx, req.user.TeamID, n)
		if err != nil {
			return failed(auditTransactionsFailed, err)
		}
		return succeeded(auditTransactionsSuccess, formatTransactions(fmt.Sprintf(msgTeamTransactions, len(txns)), txns))
	})
}

// ListMyTransactions handles "/my-transactions [n]".
func (h *Handler) ListMyTransactions(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.None, func(ctx context.Context, req *request) outcome {
		n, err := parseQuantity(req.args, 0)
		if err != nil {
			return badQuantity(command.ListMyTransactions)
		}
		txns, err := h.store.ListUserTransactions(ctx, req.user.SlackID, n)
		if err != nil {
			return failed(auditTransactionsFailed, err)
		}
		return succeeded(auditTransactionsSuccess, formatTransactions(fmt.Sprintf(msgMyTransactions, len(txns)), txns))
	})
}

// ListUserTransactions handles "/user-transactions <@user> [n]".
func (h *Handler) ListUserTransactions(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.Staff, func(ctx context.Context, req *request) outcome {
		if len(req.args) == 0 {
			return rejected(auditMissingArgs, h.usage(usageUserTransaction))
		}
		user, found, wellFormed, err := h.lookupUser(ctx, req.args[0])
		switch {
		case err != nil:
			return failed(auditTransactionsFailed, err)
		case !wellFormed:
			return rejected(auditBadUserFormat, h.usage(usageUserTransaction))
		case !found:
			return rejected(auditUserNotFound, msgUserNotFound)
		}
		n, err := parseQuantity(req.args, 1)
		if err != nil {
			return rejected(auditQuantityParsing, msgInvalidQuantity+usageUserTransaction)
		}
		txns, err := h.store.ListUserTransactions(ctx, user.SlackID, n)
		if err != nil {
			return failed(auditTransactionsFailed, err)
		}
		return succeeded(auditTransactionsSuccess,
			formatTransactions(fmt.Sprintf(msgUserTransactions, len(txns), user.SlackID), txns))
	})
}

// ListTeamTransactions handles "/team-transactions <team-id> [n]".
func (h *Handler) ListTeamTransactions(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.Staff, func(ctx context.Context, req *request) outcome {
		if len(req.args) == 0 {
			return rejected(auditMissingArgs, h.usage(usageTeamTransaction))
		}
		teamID, ok := parseTeamID(req.args[0])
		if !ok {
			return rejected(auditTeamNotFound, msgTeamNotFound)
		}
		n, err := parseQuantity(req.args, 1)
		if err != nil {
			return rejected(auditQuantityParsing, msgInvalidQuantity+usageTeamTransaction)
		}
		team, err := h.store.GetTeam(ctx, teamID)
		if errors.Is(err, database.ErrNotFound) {
			return rejected(auditTeamNotFound, msgTeamNotFound)
		}
		if err != nil {
			return failed(auditTeamSearchFailed, err)
		}
		txns, err := h.store.ListTeamTransactions(ctx, team.ID, n)
		if err != nil {
			return failed(auditTransactionsFailed, err)
		}
		return succeeded(auditTransactionsSuccess,
			formatTransactions(fmt.Sprintf(msgTeamTransactionsAdmin, len(txns), team.Name), txns))
	})
}

// ListAllTransactions handles "/all-transactions [n]".
func (h *Handler) ListAllTransactions(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.Staff, func(ctx context.Context, req *request) outcome {
		n, err := parseQuantity(req.args, 0)
		if err != nil {
			return badQuantity(command.ListAllTransactions)
		}
		txns, err := h.store.ListAllTransactions(ctx, n)
		if err != nil {
			return failed(auditTransactionsFailed, err)
		}
		return succeeded(auditTransactionsSuccess, formatTransactions(fmt.Sprintf(msgAllTransactions, len(txns)), txns))
	})
}

func badQuantity(kind command.Kind) outcome {
	return rejected(auditQuantityParsing, msgInvalidQuantity+fmt.Sprintf(usageTransactions, kind.Slash()))
}
