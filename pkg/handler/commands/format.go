package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/slack-go/slack"

	"github.com/kaplan-michael/neecathon-bank/pkg/database"
)

const (
	msgTransactionLine = "_%d_: *From:* <@%s|%s> (%s) | *To:* <@%s|%s> (%s) | *Amount:* %s | *Description:* %s | *Date:* %s\n"
	timestampLayout    = "2006-01-02 15:04:05"
	noTeamName         = "-"
)

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func teamName(name string) string {
	if name == "" {
		return noTeamName
	}
	return name
}

// formatTransactions renders a transaction list under header. An empty list
// yields the no-transactions text.
func formatTransactions(header string, txns []database.Transaction) *slack.WebhookMessage {
	if len(txns) == 0 {
		return textReply(msgNoTransactions)
	}
	var b strings.Builder
	for i, t := range txns {
		fmt.Fprintf(&b, msgTransactionLine, i+1,
			t.OriginUser, t.OriginName, teamName(t.OriginTeamName),
			t.DestinationUser, t.DestinationName, teamName(t.DestinationTeamName),
			formatMoney(t.Amount), t.Description, t.CreatedAt.UTC().Format(timestampLayout))
	}
	return detailsReply(header, b.String())
}
