package database

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// TeamNameAvailable reports whether no registration uses name yet. Names are
// compared case-insensitively.
func (s *Store) TeamNameAvailable(ctx context.Context, name string) (bool, error) {
	taken, err := s.exists(ctx, "team name",
		`SELECT EXISTS (SELECT 1 FROM team_registration WHERE team_name = ? COLLATE NOCASE)`, name)
	return !taken, err
}

// EntryCodeExists reports whether code was already handed out.
func (s *Store) EntryCodeExists(ctx context.Context, code string) (bool, error) {
	return s.exists(ctx, "entry code",
		`SELECT EXISTS (SELECT 1 FROM team_registration WHERE entry_code = ?)`, code)
}

// SaveTeamRegistration stores a new registration. A duplicate name, code or
// id yields ErrConflict.
func (s *Store) SaveTeamRegistration(ctx context.Context, reg TeamRegistration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO team_registration (team_id, team_name, entry_code) VALUES (?, ?, ?)`,
		reg.TeamID, reg.Name, reg.EntryCode)
	if isUniqueViolation(err) {
		return conflict("team registration %q already exists", reg.Name)
	}
	if err != nil {
		return unavailable(err, "save team registration")
	}
	return nil
}

// RegistrationByEntryCode resolves an entry code to its registration.
func (s *Store) RegistrationByEntryCode(ctx context.Context, code string) (TeamRegistration, error) {
	var reg TeamRegistration
	err := s.db.QueryRowContext(ctx,
		`SELECT team_id, team_name, entry_code FROM team_registration WHERE entry_code = ?`, code).
		Scan(&reg.TeamID, &reg.Name, &reg.EntryCode)
	if errors.Is(err, sql.ErrNoRows) {
		return TeamRegistration{}, notFound("entry code not found")
	}
	if err != nil {
		return TeamRegistration{}, unavailable(err, "validate entry code")
	}
	return reg, nil
}

// ListTeamRegistrations returns every registration ordered by name.
func (s *Store) ListTeamRegistrations(ctx context.Context) ([]TeamRegistration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT team_id, team_name, entry_code FROM team_registration ORDER BY team_name`)
	if err != nil {
		return nil, unavailable(err, "query team registrations")
	}
	defer rows.Close()

	var regs []TeamRegistration
	for rows.Next() {
		var reg TeamRegistration
		if err := rows.Scan(&reg.TeamID, &reg.Name, &reg.EntryCode); err != nil {
			return nil, unavailable(err, "scan team registration")
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "iterate team registrations")
	}
	return regs, nil
}

// TeamExists reports whether the team row for id was materialized.
func (s *Store) TeamExists(ctx context.Context, id string) (bool, error) {
	return s.exists(ctx, "team", `SELECT EXISTS (SELECT 1 FROM teams WHERE id = ?)`, id)
}

// CreateTeam materializes a registered team with its initial balance.
func (s *Store) CreateTeam(ctx context.Context, team Team) error {
	if team.Balance.IsNegative() || !ValidAmount(team.Balance) {
		return conflict("invalid initial balance %s", team.Balance)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teams (id, name, balance, channel_id) VALUES (?, ?, ?, ?)`,
		team.ID, team.Name, toCents(team.Balance), nullString(team.ChannelID))
	if isUniqueViolation(err) {
		return conflict("team %q already exists", team.Name)
	}
	if err != nil {
		return unavailable(err, "create team")
	}
	return nil
}

// SetTeamChannel records the Slack channel provisioned for a team.
func (s *Store) SetTeamChannel(ctx context.Context, id, channelID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE teams SET channel_id = ? WHERE id = ?`, nullString(channelID), id)
	if err != nil {
		return unavailable(err, "set team channel")
	}
	if n, err := res.RowsAffected(); err != nil {
		return unavailable(err, "set team channel")
	} else if n == 0 {
		return notFound("team %s not found", id)
	}
	return nil
}

// GetTeam loads a team by id.
func (s *Store) GetTeam(ctx context.Context, id string) (Team, error) {
	team, err := scanTeam(s.db.QueryRowContext(ctx,
		`SELECT id, name, balance, channel_id FROM teams WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Team{}, notFound("team %s not found", id)
	}
	if err != nil {
		return Team{}, unavailable(err, "load team")
	}
	return team, nil
}

// ListTeams returns every materialized team ordered by name.
func (s *Store) ListTeams(ctx context.Context) ([]Team, error) {
	return s.queryTeams(ctx, s.db, "")
}

// AdjustBalances adds amount (which may be negative or zero) to one team, or
// to every team when teamID is empty, and returns the targeted teams with
// their new balances. A negative adjustment that would take any targeted team
// below zero is rejected as a whole with ErrInsufficientFunds, and one that
// would take any of them past the balance limit with ErrBalanceLimit.
func (s *Store) AdjustBalances(ctx context.Context, teamID string, amount decimal.Decimal) ([]Team, error) {
	if !ValidAmount(amount) {
		return nil, conflict("invalid amount %s", amount)
	}
	cents := toCents(amount)

	var teams []Team
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		where, args := "", []any{}
		if teamID != "" {
			where, args = "WHERE id = ?", []any{teamID}
		}

		var err error
		teams, err = s.queryTeams(ctx, tx, where, args...)
		if err != nil {
			return err
		}
		if teamID != "" && len(teams) == 0 {
			return notFound("team %s not found", teamID)
		}
		for _, t := range teams {
			switch balance := toCents(t.Balance) + cents; {
			case balance < 0:
				return insufficientFunds("team %s cannot cover %s", t.Name, amount)
			case balance >= maxCents:
				return balanceLimit("team %s cannot hold %s more", t.Name, amount)
			}
		}
		if cents == 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `UPDATE teams SET balance = balance + ? `+where,
			append([]any{cents}, args...)...); err != nil {
			return unavailable(err, "update team balances")
		}
		for i := range teams {
			teams[i].Balance = teams[i].Balance.Add(amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return teams, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) queryTeams(ctx context.Context, q queryer, where string, args ...any) ([]Team, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, balance, channel_id FROM teams `+where+` ORDER BY name`, args...)
	if err != nil {
		return nil, unavailable(err, "query teams")
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, unavailable(err, "scan team")
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "iterate teams")
	}
	return teams, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTeam(row scanner) (Team, error) {
	var (
		t       Team
		cents   int64
		channel sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Name, &cents, &channel); err != nil {
		return Team{}, err
	}
	t.Balance = fromCents(cents)
	t.ChannelID = channel.String
	return t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
