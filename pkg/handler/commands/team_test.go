package commands

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaplan-michael/neecathon-bank/pkg/database"
)

var entryCodePattern = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

func (f *fixture) registration(t *testing.T, name string) database.TeamRegistration {
	t.Helper()
	regs, err := f.store.ListTeamRegistrations(context.Background())
	require.NoError(t, err)
	for _, r := range regs {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("team %q is not registered", name)
	return database.TeamRegistration{}
}

func TestCreateAndJoinTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.h.CreateTeam(ctx, slash(adminID, "/create-team", "Foxes"))

	reply := f.responder.last(t)
	assert.Equal(t, msgTeamRegistered, reply.Text)
	reg := f.registration(t, "Foxes")
	assert.Regexp(t, entryCodePattern, reg.EntryCode)
	require.Len(t, reply.Attachments, 1)
	assert.Equal(t, fmt.Sprintf(msgTeamRegistration, "Foxes", reg.EntryCode, reg.TeamID), reply.Attachments[0].Text)

	exists, err := f.store.TeamExists(ctx, reg.TeamID)
	require.NoError(t, err)
	assert.False(t, exists, "registration alone must not create the team")

	f.h.JoinTeam(ctx, slash("UALICE", "/join", reg.EntryCode))

	assert.Equal(t, fmt.Sprintf(msgJoinTeamSuccess, "Foxes"), f.responder.last(t).Text)
	team, err := f.store.Store.GetTeam(ctx, reg.TeamID)
	require.NoError(t, err)
	assert.Equal(t, "200.00", team.Balance.StringFixed(2))
	assert.Equal(t, "C001", team.ChannelID)
	assert.Equal(t, []string{"t_foxes"}, f.notifier.created)
	assert.Equal(t, []invite{{"C001", "UALICE"}}, f.notifier.invited)

	alice, err := f.store.GetUser(ctx, "UALICE")
	require.NoError(t, err)
	assert.Equal(t, reg.TeamID, alice.TeamID)

	// Later joins only attach the user.
	f.h.JoinTeam(ctx, slash("UBOB", "/join", reg.EntryCode))

	assert.Len(t, f.notifier.created, 1)
	assert.Equal(t, invite{"C001", "UBOB"}, f.notifier.invited[1])
	assert.Equal(t, "200.00", f.balance(t, reg.TeamID))
	members, err := f.store.TeamMembers(ctx, reg.TeamID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestCreateTeamRequiresAdmin(t *testing.T) {
	f := newFixture(t)

	f.h.CreateTeam(context.Background(), slash("UALICE", "/create-team", "Foxes"))

	assert.Contains(t, f.responder.last(t).Text, "YOU CAN'T DO THAT!")
	regs, err := f.store.ListTeamRegistrations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, regs)
}

func TestCreateTeamRejectsDuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.h.CreateTeam(ctx, slash(adminID, "/create-team", "Foxes"))
	f.h.CreateTeam(ctx, slash(adminID, "/create-team", "foxes"))

	assert.Equal(t, fmt.Sprintf(msgTeamNameExists, "foxes"), f.responder.last(t).Text)
	assert.Equal(t, auditTeamNameExists, f.lastLog(t).Description)
	regs, err := f.store.ListTeamRegistrations(ctx)
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestCreateTeamWithoutName(t *testing.T) {
	f := newFixture(t)

	f.h.CreateTeam(context.Background(), slash(adminID, "/create-team", "   "))

	assert.Equal(t, msgBadUsage+usageCreateTeam, f.responder.last(t).Text)
}

func TestCreateTeamRegeneratesCollidingCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	codes := []string{"AAAA-AAAA-AAAA", "AAAA-AAAA-AAAA", "BBBB-BBBB-BBBB"}
	f.h.newEntryCode = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	f.h.CreateTeam(ctx, slash(adminID, "/create-team", "Foxes"))
	f.h.CreateTeam(ctx, slash(adminID, "/create-team", "Hawks"))

	assert.Equal(t, "AAAA-AAAA-AAAA", f.registration(t, "Foxes").EntryCode)
	assert.Equal(t, "BBBB-BBBB-BBBB", f.registration(t, "Hawks").EntryCode)
	assert.Empty(t, codes)
}

func TestCreateTeamGivesUpOnEntryCodes(t *testing.T) {
	f := newFixture(t)
	f.h.newEntryCode = func() (string, error) { return "", errors.New("entropy exhausted") }

	f.h.CreateTeam(context.Background(), slash(adminID, "/create-team", "Foxes"))

	assert.Equal(t, f.h.DefaultError(), f.responder.last(t).Text)
	assert.Equal(t, auditRegistrationFailed, f.lastLog(t).Description)
}

func TestJoinTeamRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedTeam(t, "Hawks", "UBOB", "200", "")
	f.h.CreateTeam(ctx, slash(adminID, "/create-team", "Foxes"))
	code := f.registration(t, "Foxes").EntryCode

	tests := []struct {
		name  string
		user  string
		text  string
		reply string
		audit string
	}{
		{"missing code", "UALICE", "", msgBadUsage + usageJoinTeam, auditMissingArgs},
		{"unknown code", "UALICE", "ZZZZ-ZZZZ-ZZZZ", f.h.errorSupport(msgInvalidCode), auditInvalidEntryCode},
		{"already on a team", "UBOB", code, f.h.errorSupport(msgAlreadyOnTeam), auditUserAlreadyOnTeam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.h.JoinTeam(ctx, slash(tt.user, "/join", tt.text))
			assert.Equal(t, tt.reply, f.responder.last(t).Text)
			assert.Equal(t, tt.audit, f.lastLog(t).Description)
		})
	}
}

func TestJoinTeamAcceptsLowercaseCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.h.CreateTeam(ctx, slash(adminID, "/create-team", "Foxes"))
	reg := f.registration(t, "Foxes")

	f.h.JoinTeam(ctx, slash("UALICE", "/join", " "+strings.ToLower(reg.EntryCode)))

	assert.Equal(t, fmt.Sprintf(msgJoinTeamSuccess, "Foxes"), f.responder.last(t).Text)
}

func TestJoinTeamSurvivesChannelFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.notifier.createErr = errors.New("name_taken")
	f.h.CreateTeam(ctx, slash(adminID, "/create-team", "Foxes"))
	reg := f.registration(t, "Foxes")

	f.h.JoinTeam(ctx, slash("UALICE", "/join", reg.EntryCode))

	assert.Equal(t, fmt.Sprintf(msgJoinTeamSuccess, "Foxes"), f.responder.last(t).Text)
	team, err := f.store.Store.GetTeam(ctx, reg.TeamID)
	require.NoError(t, err)
	assert.Empty(t, team.ChannelID)
	assert.Empty(t, f.notifier.invited)
}

func TestTeamChannelName(t *testing.T) {
	tests := []struct {
		name string
		team database.Team
		want string
	}{
		{"simple", database.Team{Name: "Foxes"}, "t_foxes"},
		{"spaces and accents", database.Team{Name: "Os Macacos Tão Bons"}, "t_os-macacos-tao-bons"},
		{"nothing sluggable", database.Team{ID: "1f0c2a3b-aaaa-bbbb-cccc-000000000000", Name: "!!!"}, "t_1f0c2a3b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TeamChannelName("t_", tt.team))
		})
	}

	long := TeamChannelName("t_", database.Team{Name: strings.Repeat("monkey ", 20)})
	assert.LessOrEqual(t, len(long), maxChannelNameLength)
	assert.False(t, strings.HasSuffix(long, "-"))
}
