package database

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"

	"github.com/kaplan-michael/neecathon-bank/pkg/roles"
)

// UserRole returns the elevated role held by slackID, or roles.None.
func (s *Store) UserRole(ctx context.Context, slackID string) (roles.Role, error) {
	var stored string
	err := s.db.QueryRowContext(ctx, `SELECT role FROM permissions WHERE slack_id = ?`, slackID).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return roles.None, nil
	}
	if err != nil {
		return roles.None, unavailable(err, "load user permissions")
	}
	role, err := roles.Parse(stored)
	if err != nil {
		return roles.None, unavailable(err, "parse user permissions")
	}
	return role, nil
}

// SetUserRole grants role to slackID, replacing any previous role.
// roles.None removes the user's permissions.
func (s *Store) SetUserRole(ctx context.Context, slackID string, role roles.Role) error {
	var err error
	if role == roles.None {
		_, err = s.db.ExecContext(ctx, `DELETE FROM permissions WHERE slack_id = ?`, slackID)
	} else {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO permissions (slack_id, role) VALUES (?, ?)
			ON CONFLICT(slack_id) DO UPDATE SET role = excluded.role`, slackID, role.String())
	}
	if err != nil {
		return unavailable(err, "update user permissions")
	}
	return nil
}

// ListStaff returns every user holding a role, admins first.
func (s *Store) ListStaff(ctx context.Context) ([]StaffMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.slack_id, COALESCE(u.name, p.slack_id), p.role
		FROM permissions p
		LEFT JOIN users u ON u.slack_id = p.slack_id
		ORDER BY CASE p.role WHEN 'admin' THEN 0 ELSE 1 END, 2`)
	if err != nil {
		return nil, unavailable(err, "query staff")
	}
	defer rows.Close()

	var staff []StaffMember
	for rows.Next() {
		var (
			m    StaffMember
			role string
		)
		if err := rows.Scan(&m.SlackID, &m.Name, &role); err != nil {
			return nil, unavailable(err, "scan staff member")
		}
		if m.Role, err = roles.Parse(role); err != nil {
			return nil, unavailable(err, "parse staff role")
		}
		staff = append(staff, m)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "iterate staff")
	}
	return staff, nil
}
