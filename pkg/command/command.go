// Package command maps Slack slash command strings to the closed set of
// commands the bank understands.
package command

// Kind identifies one slash command.
type Kind int

const (
	Unknown Kind = iota
	CreateTeam
	JoinTeam
	CheckBalance
	Buy
	ListTransactions
	ListMyTransactions
	ListTeams
	ListTeamsRegistration
	TeamDetails
	UserDetails
	ChangePermissions
	ListStaff
	Hackerboy
	HackerboyTeam
	ListUserTransactions
	ListTeamTransactions
	ListAllTransactions
)

type entry struct {
	slash string
	ack   string
}

const defaultAck = "Your request was received, the bank is working on it!"

var entries = map[Kind]entry{
	CreateTeam:            {"/create-team", "Registering the team, hold on!"},
	JoinTeam:              {"/join", "Checking whether you can join the team!"},
	CheckBalance:          {"/balance", "Looking up your financial details!"},
	Buy:                   {"/buy", "Processing your payment!"},
	ListTransactions:      {"/transactions", defaultAck},
	ListMyTransactions:    {"/my-transactions", defaultAck},
	ListTeams:             {"/list-teams", defaultAck},
	ListTeamsRegistration: {"/list-registrations", defaultAck},
	TeamDetails:           {"/team-details", defaultAck},
	UserDetails:           {"/details", defaultAck},
	ChangePermissions:     {"/change-permissions", defaultAck},
	ListStaff:             {"/list-staff", defaultAck},
	Hackerboy:             {"/hackerboy", defaultAck},
	HackerboyTeam:         {"/hackerboy-team", defaultAck},
	ListUserTransactions:  {"/user-transactions", defaultAck},
	ListTeamTransactions:  {"/team-transactions", defaultAck},
	ListAllTransactions:   {"/all-transactions", defaultAck},
}

var bySlash = func() map[string]Kind {
	m := make(map[string]Kind, len(entries))
	for k, e := range entries {
		m[e.slash] = k
	}
	return m
}()

// Lookup resolves a slash command string exactly as Slack sends it.
func Lookup(slash string) (Kind, bool) {
	k, ok := bySlash[slash]
	return k, ok
}

// All returns every known command in declaration order.
func All() []Kind {
	kinds := make([]Kind, 0, len(entries))
	for k := CreateTeam; k <= ListAllTransactions; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Slash returns the slash command string for k, or "" for Unknown.
func (k Kind) Slash() string {
	return entries[k].slash
}

// Ack is the immediate acknowledgement text returned to Slack.
func (k Kind) Ack() string {
	if e, ok := entries[k]; ok {
		return e.ack
	}
	return defaultAck
}

func (k Kind) String() string {
	if e, ok := entries[k]; ok {
		return e.slash
	}
	return "unknown"
}
