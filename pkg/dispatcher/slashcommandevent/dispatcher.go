// Package slashcommandevent routes a slash command to the handler registered
// for it.
package slashcommandevent

import (
	"context"

	"github.com/slack-go/slack"

	"github.com/kaplan-michael/neecathon-bank/pkg/command"
	"github.com/kaplan-michael/neecathon-bank/pkg/handler/commands"
)

// HandlerFunc processes one slash command to completion, reply included.
type HandlerFunc func(ctx context.Context, cmd slack.SlashCommand)

// Dispatcher for slash command events.
type Dispatcher struct {
	handlers map[command.Kind]HandlerFunc
	unknown  HandlerFunc
}

// NewDispatcher registers every command of h.
func NewDispatcher(h *commands.Handler) *Dispatcher {
	return &Dispatcher{
		handlers: map[command.Kind]HandlerFunc{
			command.CreateTeam:            h.CreateTeam,
			command.JoinTeam:              h.JoinTeam,
			command.CheckBalance:          h.CheckBalance,
			command.Buy:                   h.Buy,
			command.ListTransactions:      h.ListTransactions,
			command.ListMyTransactions:    h.ListMyTransactions,
			command.ListTeams:             h.ListTeams,
			command.ListTeamsRegistration: h.ListTeamsRegistration,
			command.TeamDetails:           h.TeamDetails,
			command.UserDetails:           h.UserDetails,
			command.ChangePermissions:     h.ChangePermissions,
			command.ListStaff:             h.ListStaff,
			command.Hackerboy:             h.Hackerboy,
			command.HackerboyTeam:         h.HackerboyTeam,
			command.ListUserTransactions:  h.ListUserTransactions,
			command.ListTeamTransactions:  h.ListTeamTransactions,
			command.ListAllTransactions:   h.ListAllTransactions,
		},
		unknown: h.UnknownCommand,
	}
}

// Handles reports whether a handler is registered for kind.
func (d *Dispatcher) Handles(kind command.Kind) bool {
	_, ok := d.handlers[kind]
	return ok
}

// Dispatch runs the handler matching cmd.Command exactly and returns the kind
// it resolved to. Unmatched commands go to the unknown-command handler and
// resolve to command.Unknown.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd slack.SlashCommand) command.Kind {
	kind, _ := command.Lookup(cmd.Command)
	handle, ok := d.handlers[kind]
	if !ok {
		d.unknown(ctx, cmd)
		return command.Unknown
	}
	handle(ctx, cmd)
	return kind
}
