package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Transfer moves money between two teams and records the transaction. The
// debit, the credit and the transaction row commit together or not at all.
// The origin team must hold strictly more than the amount, and the destination
// balance must stay below the balance limit.
func (s *Store) Transfer(ctx context.Context, t Transfer) (Transaction, error) {
	if !t.Amount.IsPositive() || !ValidAmount(t.Amount) {
		return Transaction{}, conflict("invalid transfer amount %s", t.Amount)
	}
	if t.OriginUser == t.DestinationUser || t.OriginTeam == t.DestinationTeam {
		return Transaction{}, conflict("origin and destination must differ")
	}
	cents := toCents(t.Amount)

	txn := Transaction{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		OriginUser:      t.OriginUser,
		DestinationUser: t.DestinationUser,
		Amount:          t.Amount,
		Description:     t.Description,
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE teams SET balance = balance - ? WHERE id = ? AND balance > ?`,
			cents, t.OriginTeam, cents)
		if err != nil {
			return unavailable(err, "debit origin team")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return unavailable(err, "debit origin team")
		}
		if n == 0 {
			var found bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM teams WHERE id = ?)`, t.OriginTeam).Scan(&found); err != nil {
				return unavailable(err, "check origin team")
			}
			if !found {
				return notFound("team %s not found", t.OriginTeam)
			}
			return insufficientFunds("team %s cannot cover %s", t.OriginTeam, t.Amount)
		}

		res, err = tx.ExecContext(ctx,
			`UPDATE teams SET balance = balance + ? WHERE id = ? AND balance < ?`,
			cents, t.DestinationTeam, maxCents-cents)
		if err != nil {
			return unavailable(err, "credit destination team")
		}
		if n, err = res.RowsAffected(); err != nil {
			return unavailable(err, "credit destination team")
		}
		if n == 0 {
			var found bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM teams WHERE id = ?)`, t.DestinationTeam).Scan(&found); err != nil {
				return unavailable(err, "check destination team")
			}
			if !found {
				return notFound("team %s not found", t.DestinationTeam)
			}
			return balanceLimit("team %s cannot receive %s", t.DestinationTeam, t.Amount)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, created_at, origin_user, destination_user, amount, description)
			VALUES (?, ?, ?, ?, ?, ?)`,
			txn.ID, txn.CreatedAt, txn.OriginUser, txn.DestinationUser, cents, txn.Description); err != nil {
			return unavailable(err, "save transaction")
		}
		return nil
	})
	if err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

const transactionColumns = `
	SELECT t.id, t.created_at,
	       t.origin_user, ou.name, COALESCE(ot.name, ''),
	       t.destination_user, du.name, COALESCE(dt.name, ''),
	       t.amount, t.description
	FROM transactions t
	JOIN users ou ON ou.slack_id = t.origin_user
	JOIN users du ON du.slack_id = t.destination_user
	LEFT JOIN teams ot ON ot.id = ou.team_id
	LEFT JOIN teams dt ON dt.id = du.team_id
`

// ListTeamTransactions returns the latest limit transactions a team took part
// in, newest first.
func (s *Store) ListTeamTransactions(ctx context.Context, teamID string, limit int) ([]Transaction, error) {
	return s.queryTransactions(ctx, `WHERE ou.team_id = ? OR du.team_id = ?`, teamID, teamID, limit)
}

// ListUserTransactions returns the latest limit transactions a user sent or
// received, newest first.
func (s *Store) ListUserTransactions(ctx context.Context, slackID string, limit int) ([]Transaction, error) {
	return s.queryTransactions(ctx, `WHERE t.origin_user = ? OR t.destination_user = ?`, slackID, slackID, limit)
}

// ListAllTransactions returns the latest limit transactions, newest first.
func (s *Store) ListAllTransactions(ctx context.Context, limit int) ([]Transaction, error) {
	return s.queryTransactions(ctx, ``, limit)
}

func (s *Store) queryTransactions(ctx context.Context, where string, args ...any) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		transactionColumns+where+` ORDER BY t.created_at DESC, t.rowid DESC LIMIT ?`, args...)
	if err != nil {
		return nil, unavailable(err, "query transactions")
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var (
			t     Transaction
			cents int64
		)
		if err := rows.Scan(&t.ID, &t.CreatedAt,
			&t.OriginUser, &t.OriginName, &t.OriginTeamName,
			&t.DestinationUser, &t.DestinationName, &t.DestinationTeamName,
			&cents, &t.Description); err != nil {
			return nil, unavailable(err, "scan transaction")
		}
		t.Amount = fromCents(cents)
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "iterate transactions")
	}
	return txns, nil
}
