package database

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// EnsureUser registers slackID if it is not known yet. It reports whether a
// new row was created; calling it again for the same user is a no-op.
func (s *Store) EnsureUser(ctx context.Context, slackID, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, slack_id, name)
		VALUES (?, ?, ?)
		ON CONFLICT(slack_id) DO NOTHING`, uuid.NewString(), slackID, name)
	if err != nil {
		return false, unavailable(err, "save user")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, unavailable(err, "save user")
	}
	return n == 1, nil
}

// UserExists reports whether slackID has a user row.
func (s *Store) UserExists(ctx context.Context, slackID string) (bool, error) {
	return s.exists(ctx, "user", `SELECT EXISTS (SELECT 1 FROM users WHERE slack_id = ?)`, slackID)
}

// GetUser loads a user by Slack id.
func (s *Store) GetUser(ctx context.Context, slackID string) (User, error) {
	return s.queryUser(ctx, `WHERE slack_id = ?`, slackID)
}

// FindUserByName loads a user by the Slack user name recorded when the user
// was first seen.
func (s *Store) FindUserByName(ctx context.Context, name string) (User, error) {
	return s.queryUser(ctx, `WHERE name = ? ORDER BY rowid LIMIT 1`, name)
}

func (s *Store) queryUser(ctx context.Context, where string, args ...any) (User, error) {
	var (
		u      User
		teamID sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, slack_id, name, team_id FROM users `+where, args...).
		Scan(&u.ID, &u.SlackID, &u.Name, &teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, notFound("user not found")
	}
	if err != nil {
		return User{}, unavailable(err, "load user")
	}
	u.TeamID = teamID.String
	return u, nil
}

// AddUserToTeam attaches a user to a team. A user's team is set exactly once:
// ErrConflict is returned if the user already belongs to a team.
func (s *Store) AddUserToTeam(ctx context.Context, slackID, teamID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET team_id = ? WHERE slack_id = ? AND team_id IS NULL`, teamID, slackID)
	if err != nil {
		return unavailable(err, "add user to team")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable(err, "add user to team")
	}
	if n == 1 {
		return nil
	}
	found, err := s.UserExists(ctx, slackID)
	if err != nil {
		return err
	}
	if !found {
		return notFound("user %s not found", slackID)
	}
	return conflict("user %s already on a team", slackID)
}

// TeamMembers lists the users of a team ordered by name.
func (s *Store) TeamMembers(ctx context.Context, teamID string) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slack_id, name, team_id FROM users WHERE team_id = ? ORDER BY name`, teamID)
	if err != nil {
		return nil, unavailable(err, "query team members")
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var (
			u  User
			id sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.SlackID, &u.Name, &id); err != nil {
			return nil, unavailable(err, "scan team member")
		}
		u.TeamID = id.String
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "iterate team members")
	}
	return users, nil
}
