package handler

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/slack-go/slack"

	"github.com/kaplan-michael/neecathon-bank/pkg/database"
	"github.com/kaplan-michael/neecathon-bank/pkg/roles"
)

// Store is the ledger as seen by command handlers. *database.Store
// implements it.
type Store interface {
	EnsureUser(ctx context.Context, slackID, name string) (bool, error)
	GetUser(ctx context.Context, slackID string) (database.User, error)
	FindUserByName(ctx context.Context, name string) (database.User, error)
	AddUserToTeam(ctx context.Context, slackID, teamID string) error
	TeamMembers(ctx context.Context, teamID string) ([]database.User, error)

	TeamNameAvailable(ctx context.Context, name string) (bool, error)
	EntryCodeExists(ctx context.Context, code string) (bool, error)
	SaveTeamRegistration(ctx context.Context, reg database.TeamRegistration) error
	RegistrationByEntryCode(ctx context.Context, code string) (database.TeamRegistration, error)
	ListTeamRegistrations(ctx context.Context) ([]database.TeamRegistration, error)

	TeamExists(ctx context.Context, id string) (bool, error)
	CreateTeam(ctx context.Context, team database.Team) error
	SetTeamChannel(ctx context.Context, id, channelID string) error
	GetTeam(ctx context.Context, id string) (database.Team, error)
	ListTeams(ctx context.Context) ([]database.Team, error)
	AdjustBalances(ctx context.Context, teamID string, amount decimal.Decimal) ([]database.Team, error)

	Transfer(ctx context.Context, t database.Transfer) (database.Transaction, error)
	ListTeamTransactions(ctx context.Context, teamID string, limit int) ([]database.Transaction, error)
	ListUserTransactions(ctx context.Context, slackID string, limit int) ([]database.Transaction, error)
	ListAllTransactions(ctx context.Context, limit int) ([]database.Transaction, error)

	UserRole(ctx context.Context, slackID string) (roles.Role, error)
	SetUserRole(ctx context.Context, slackID string, role roles.Role) error
	ListStaff(ctx context.Context) ([]database.StaffMember, error)

	SaveRequestLog(ctx context.Context, cmd slack.SlashCommand, success bool, description string) error
	SaveReward(ctx context.Context, r database.Reward) error
}

// LogLevel classifies lines posted to the operations log channel.
type LogLevel string

const (
	LogInfo    LogLevel = "INFO"
	LogWarning LogLevel = "WARNING"
	LogError   LogLevel = "ERROR"
)

// Notifier talks to the Slack workspace on behalf of handlers. Every call is
// best effort: handlers log failures and carry on.
type Notifier interface {
	CreateChannel(ctx context.Context, name string) (string, error)
	InviteUser(ctx context.Context, channelID, userID string) error
	RemoveUser(ctx context.Context, channelID, userID string) error
	PostMessage(ctx context.Context, channelID, text string) error
	PostLogLine(ctx context.Context, level LogLevel, text string) error
}

// Responder delivers the delayed reply of a slash command to its
// response_url.
type Responder interface {
	Respond(ctx context.Context, responseURL string, msg *slack.WebhookMessage) error
}
