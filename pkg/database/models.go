package database

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaplan-michael/neecathon-bank/pkg/roles"
)

// User is a Slack user known to the bank.
type User struct {
	ID      string
	SlackID string
	Name    string
	TeamID  string // empty when the user has not joined a team
}

// HasTeam reports whether the user belongs to a team.
func (u User) HasTeam() bool { return u.TeamID != "" }

// Team is a group of users sharing one balance.
type Team struct {
	ID        string
	Name      string
	Balance   decimal.Decimal
	ChannelID string // empty when no Slack channel could be provisioned
}

// TeamRegistration reserves a team name and its entry code before the first
// member joins.
type TeamRegistration struct {
	TeamID    string
	Name      string
	EntryCode string
}

// Transaction is one recorded transfer between two users of different teams.
type Transaction struct {
	ID                  string
	CreatedAt           time.Time
	OriginUser          string // slack id
	OriginName          string
	OriginTeamName      string
	DestinationUser     string // slack id
	DestinationName     string
	DestinationTeamName string
	Amount              decimal.Decimal
	Description         string
}

// Transfer describes a requested payment from one team to another.
type Transfer struct {
	OriginUser      string
	OriginTeam      string
	DestinationUser string
	DestinationTeam string
	Amount          decimal.Decimal
	Description     string
}

// Reward is the audit row for a bulk or single-team balance adjustment. An
// empty TeamID means the adjustment targeted every team.
type Reward struct {
	ID          string
	CreatedAt   time.Time
	AdminUser   string
	TeamID      string
	Amount      decimal.Decimal
	Description string
}

// RequestLog is the audit row written for every dispatched command.
type RequestLog struct {
	CreatedAt   time.Time
	UserID      string
	Command     string
	Text        string
	Success     bool
	Description string
}

// StaffMember is a user holding an elevated role.
type StaffMember struct {
	SlackID string
	Name    string
	Role    roles.Role
}

// maxCents bounds every stored amount and balance.
const maxCents int64 = 1e17

// toCents converts an amount to the integer representation stored in SQLite.
// Callers are expected to have validated that amount has at most two decimal
// places (see ValidAmount).
func toCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).IntPart()
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ValidAmount reports whether amount can be stored without losing precision.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.Shift(2).IsInteger() && amount.Abs().LessThan(fromCents(maxCents))
}
