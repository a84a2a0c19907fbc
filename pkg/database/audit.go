package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack"
)

// SaveRequestLog records the outcome of a dispatched slash command.
func (s *Store) SaveRequestLog(ctx context.Context, cmd slack.SlashCommand, success bool, description string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requests (
			created_at, token, team_id, team_domain, channel_id, channel_name,
			user_id, user_name, command, command_text, response_url,
			success, description
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), cmd.Token, cmd.TeamID, cmd.TeamDomain, cmd.ChannelID, cmd.ChannelName,
		cmd.UserID, cmd.UserName, cmd.Command, cmd.Text, cmd.ResponseURL,
		success, description)
	if err != nil {
		return unavailable(err, "save request log")
	}
	return nil
}

// ListRequestLogs returns the latest limit request logs, newest first.
func (s *Store) ListRequestLogs(ctx context.Context, limit int) ([]RequestLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT created_at, user_id, command, command_text, success, description
		FROM requests ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, unavailable(err, "query request logs")
	}
	defer rows.Close()

	var logs []RequestLog
	for rows.Next() {
		var l RequestLog
		if err := rows.Scan(&l.CreatedAt, &l.UserID, &l.Command, &l.Text, &l.Success, &l.Description); err != nil {
			return nil, unavailable(err, "scan request log")
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "iterate request logs")
	}
	return logs, nil
}

// SaveReward records a balance adjustment made by an admin.
func (s *Store) SaveReward(ctx context.Context, r Reward) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rewards (id, created_at, admin_user, team_id, amount, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt, r.AdminUser, nullString(r.TeamID), toCents(r.Amount), r.Description)
	if err != nil {
		return unavailable(err, "save reward")
	}
	return nil
}

// ListRewards returns every recorded adjustment, newest first.
func (s *Store) ListRewards(ctx context.Context) ([]Reward, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, admin_user, team_id, amount, description
		FROM rewards ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, unavailable(err, "query rewards")
	}
	defer rows.Close()

	var rewards []Reward
	for rows.Next() {
		var (
			r      Reward
			teamID sql.NullString
			cents  int64
		)
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.AdminUser, &teamID, &cents, &r.Description); err != nil {
			return nil, unavailable(err, "scan reward")
		}
		r.TeamID = teamID.String
		r.Amount = fromCents(cents)
		rewards = append(rewards, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "iterate rewards")
	}
	return rewards, nil
}
