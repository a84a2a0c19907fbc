package commands

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckBalance(t *testing.T) {
	f := newFixture(t)
	f.seedTeam(t, "Foxes", "UALICE", "200", "")

	f.h.CheckBalance(context.Background(), slash("UALICE", "/balance", ""))

	reply := f.responder.last(t)
	assert.Equal(t, msgBalanceSuccess, reply.Text)
	require.Len(t, reply.Attachments, 1)
	assert.Equal(t, fmt.Sprintf(msgBalanceDetails, "Foxes", "200.00"), reply.Attachments[0].Text)
	assert.True(t, f.lastLog(t).Success)
}

func TestCheckBalanceWithoutTeam(t *testing.T) {
	f := newFixture(t)

	f.h.CheckBalance(context.Background(), slash("UALICE", "/balance", ""))

	assert.Equal(t, f.h.errorSupport(msgNoTeam), f.responder.last(t).Text)
}

func TestBuyMovesMoneyBetweenTeams(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	foxes := f.seedTeam(t, "Foxes", "UALICE", "200", "CFOXES")
	hawks := f.seedTeam(t, "Hawks", "UBOB", "200", "CHAWKS")

	f.h.Buy(ctx, slash("UALICE", "/buy", "<@UBOB|bob> 50 lunch for two"))

	assert.Equal(t, fmt.Sprintf(msgBuySuccess, "50.00", "UBOB"), f.responder.last(t).Text)
	assert.Equal(t, "150.00", f.balance(t, foxes.ID))
	assert.Equal(t, "250.00", f.balance(t, hawks.ID))

	txns, err := f.store.ListAllTransactions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "UALICE", txns[0].OriginUser)
	assert.Equal(t, "UBOB", txns[0].DestinationUser)
	assert.Equal(t, "50.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "lunch for two", txns[0].Description)

	require.Len(t, f.notifier.posts, 1)
	assert.Equal(t, post{"CHAWKS", fmt.Sprintf(msgTransactionReceived, "50.00", "UALICE", "lunch for two")}, f.notifier.posts[0])
	assert.NotEmpty(t, f.notifier.logLines)
	assert.Equal(t, auditBuySuccess, f.lastLog(t).Description)
}

func TestBuyAcceptsDecimalComma(t *testing.T) {
	f := newFixture(t)
	foxes := f.seedTeam(t, "Foxes", "UALICE", "200", "")
	f.seedTeam(t, "Hawks", "UBOB", "200", "")

	f.h.Buy(context.Background(), slash("UALICE", "/buy", "<@UBOB> 0,5 gum"))

	assert.Equal(t, "199.50", f.balance(t, foxes.ID))
}

func TestBuyRequiresStrictlyMoreThanBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	foxes := f.seedTeam(t, "Foxes", "UALICE", "200", "")
	hawks := f.seedTeam(t, "Hawks", "UBOB", "200", "")

	f.h.Buy(ctx, slash("UALICE", "/buy", "<@UBOB> 200 everything"))

	assert.Equal(t, f.h.errorSupport(msgBuyNotEnoughMoney), f.responder.last(t).Text)
	assert.Equal(t, auditNotEnoughCredit, f.lastLog(t).Description)
	assert.Equal(t, "200.00", f.balance(t, foxes.ID))

	f.h.Buy(ctx, slash("UALICE", "/buy", "<@UBOB> 199.99 almost everything"))

	assert.Equal(t, fmt.Sprintf(msgBuySuccess, "199.99", "UBOB"), f.responder.last(t).Text)
	assert.Equal(t, "0.01", f.balance(t, foxes.ID))
	assert.Equal(t, "399.99", f.balance(t, hawks.ID))
}

func TestBuyPreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	foxes := f.seedTeam(t, "Foxes", "UALICE", "200", "")
	hawks := f.seedTeam(t, "Hawks", "UBOB", "200", "")
	require.NoError(t, f.store.AddUserToTeam(ctx, ensureUser(t, f, "UCAROL"), foxes.ID))
	ensureUser(t, f, "UDAVE")

	tests := []struct {
		name  string
		user  string
		text  string
		reply string
		audit string
	}{
		{"caller without team", "UDAVE", "<@UBOB> 10 x", f.h.errorSupport(msgNoTeam), auditUserWithoutTeam},
		{"no destination", "UALICE", "", msgBuyNoDestination, auditNoDestinationUser},
		{"destination is not a mention", "UALICE", "bob 10 x", msgBuyNoDestination, auditNoDestinationUser},
		{"pay yourself", "UALICE", "<@UALICE> 10 x", msgBuySameUser, auditDestinationIsOrigin},
		{"unknown destination", "UALICE", "<@UNOBODY> 10 x", f.h.errorSupport(msgBuyDestinationNoTeam), auditDestinationNoTeam},
		{"destination without team", "UALICE", "<@UDAVE> 10 x", f.h.errorSupport(msgBuyDestinationNoTeam), auditDestinationNoTeam},
		{"same team", "UALICE", "<@UCAROL> 10 x", f.h.errorSupport(msgBuySameTeam), auditSameTeam},
		{"missing amount", "UALICE", "<@UBOB>", msgBadUsage + usageBuy, auditMissingArgs},
		{"amount is not a number", "UALICE", "<@UBOB> ten x", f.h.errorSupport(msgInvalidValue), auditAmountParsingFailed},
		{"too many decimals", "UALICE", "<@UBOB> 1.001 x", f.h.errorSupport(msgInvalidValue), auditAmountParsingFailed},
		{"zero amount", "UALICE", "<@UBOB> 0 x", f.h.errorSupport(msgInvalidValue), auditNonPositiveAmount},
		{"negative amount", "UALICE", "<@UBOB> -5 x", f.h.errorSupport(msgInvalidValue), auditNonPositiveAmount},
		{"not enough money", "UALICE", "<@UBOB> 500 x", f.h.errorSupport(msgBuyNotEnoughMoney), auditNotEnoughCredit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.h.Buy(ctx, slash(tt.user, "/buy", tt.text))

			assert.Equal(t, tt.reply, f.responder.last(t).Text)
			entry := f.lastLog(t)
			assert.False(t, entry.Success)
			assert.Equal(t, tt.audit, entry.Description)
		})
	}

	assert.Equal(t, "200.00", f.balance(t, foxes.ID))
	assert.Equal(t, "200.00", f.balance(t, hawks.ID))
	txns, err := f.store.ListAllTransactions(ctx, 50)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestBuyRejectsOverfullDestination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	foxes := f.seedTeam(t, "Foxes", "UALICE", "5000", "")
	hawks := f.seedTeam(t, "Hawks", "UBOB", "999999999999000", "CHAWKS")

	f.h.Buy(ctx, slash("UALICE", "/buy", "<@UBOB> 1000 too much"))

	assert.Equal(t, f.h.errorSupport(msgInvalidValue), f.responder.last(t).Text)
	assert.Equal(t, auditBalanceLimit, f.lastLog(t).Description)
	assert.Equal(t, "5000.00", f.balance(t, foxes.ID))
	assert.Equal(t, "999999999999000.00", f.balance(t, hawks.ID))
	assert.Empty(t, f.notifier.posts)
}

func TestBuysConserveMoney(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teams := []string{
		f.seedTeam(t, "Foxes", "UALICE", "200", "").ID,
		f.seedTeam(t, "Hawks", "UBOB", "200", "").ID,
		f.seedTeam(t, "Owls", "UCAROL", "200", "").ID,
	}
	buys := []string{
		"UALICE <@UBOB> 150", "UBOB <@UCAROL> 349.99", "UCAROL <@UALICE> 100.5",
		"UALICE <@UCAROL> 151", "UBOB <@UALICE> 0.01", "UCAROL <@UBOB> 449",
	}
	for _, b := range buys {
		var user, dest, amount string
		_, err := fmt.Sscan(b, &user, &dest, &amount)
		require.NoError(t, err)
		f.h.Buy(ctx, slash(user, "/buy", dest+" "+amount+" stuff"))
	}

	total := decimal.Zero
	for _, id := range teams {
		team, err := f.store.Store.GetTeam(ctx, id)
		require.NoError(t, err)
		assert.False(t, team.Balance.IsNegative())
		total = total.Add(team.Balance)
	}
	assert.Equal(t, "600.00", total.StringFixed(2))
}

func ensureUser(t *testing.T, f *fixture, slackID string) string {
	t.Helper()
	_, err := f.store.EnsureUser(context.Background(), slackID, slackID+"-name")
	require.NoError(t, err)
	return slackID
}
