package commands

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kaplan-michael/neecathon-bank/pkg/database"
)

const (
	defaultListLength = 10
	maxListLength     = 50
)

var (
	errInvalidAmount   = errors.New("invalid amount")
	errInvalidQuantity = errors.New("invalid quantity")
)

// Slack escapes user mentions as <@U024BE7LH|name> (the name part is
// optional).
var mentionPattern = regexp.MustCompile(`^<@([UW][A-Z0-9]+)(?:\|([^>]*))?>$`)

var userIDPattern = regexp.MustCompile(`^[UW][A-Z0-9]{2,}$`)

type mention struct {
	ID   string
	Name string
}

func parseMention(token string) (mention, bool) {
	m := mentionPattern.FindStringSubmatch(token)
	if m == nil {
		return mention{}, false
	}
	return mention{ID: m[1], Name: m[2]}, true
}

// parseAmount parses a money amount. Both "12.5" and "12,5" are accepted;
// more than two decimal places is an error.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil || !database.ValidAmount(d) {
		return decimal.Zero, errInvalidAmount
	}
	return d, nil
}

// parseQuantity parses an optional list length. A missing value yields the
// default, non-positive values fall back to the default and values above the
// maximum are clamped.
func parseQuantity(args []string, idx int) (int, error) {
	if idx >= len(args) {
		return defaultListLength, nil
	}
	n, err := strconv.Atoi(args[idx])
	if err != nil {
		return 0, errInvalidQuantity
	}
	switch {
	case n <= 0:
		return defaultListLength, nil
	case n > maxListLength:
		return maxListLength, nil
	}
	return n, nil
}

// parseTeamID validates a team id argument.
func parseTeamID(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// restOf joins the arguments from idx onwards, as typed.
func restOf(args []string, idx int) string {
	if idx >= len(args) {
		return ""
	}
	return strings.Join(args[idx:], " ")
}

// lookupUser resolves a user reference: a mention, a raw Slack user id or an
// @name. found is false when the reference is well formed but unknown.
func (h *Handler) lookupUser(ctx context.Context, ref string) (u database.User, found, wellFormed bool, err error) {
	var slackID, name string
	if m, ok := parseMention(ref); ok {
		slackID = m.ID
	} else if userIDPattern.MatchString(ref) {
		slackID = ref
	} else if strings.HasPrefix(ref, "@") && len(ref) > 1 {
		name = ref[1:]
	} else {
		return database.User{}, false, false, nil
	}

	if slackID != "" {
		u, err = h.store.GetUser(ctx, slackID)
	} else {
		u, err = h.store.FindUserByName(ctx, name)
	}
	if errors.Is(err, database.ErrNotFound) {
		return database.User{}, false, true, nil
	}
	if err != nil {
		return database.User{}, false, true, err
	}
	return u, true, true, nil
}
