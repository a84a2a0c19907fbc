package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/slack-go/slack"

	"github.com/kaplan-michael/neecathon-bank/pkg/database"
	"github.com/kaplan-michael/neecathon-bank/pkg/handler"
	"github.com/kaplan-michael/neecathon-bank/pkg/roles"
)

// ListTeams handles "/list-teams".
func (h *Handler) ListTeams(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.Staff, func(ctx context.Context, req *request) outcome {
		teams, err := h.store.ListTeams(ctx)
		if err != nil {
			return failed(auditTeamListFailed, err)
		}
		var b strings.Builder
		for i, t := range teams {
			fmt.Fprintf(&b, msgListTeamsDetails, i+1, t.Name, formatMoney(t.Balance), t.ID)
		}
		return succeeded(auditTeamListSuccess, detailsReply(fmt.Sprintf(msgListTeams, len(teams)), b.String()))
	})
}

// ListTeamsRegistration handles "/list-registrations". Entry codes are
// secrets, so only admins see them.
func (h *Handler) ListTeamsRegistration(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.Admin, func(ctx context.Context, req *request) outcome {
		regs, err := h.store.ListTeamRegistrations(ctx)
		if err != nil {
			return failed(auditRegistrationsFailed, err)
		}
		var b strings.Builder
		for i, r := range regs {
			fmt.Fprintf(&b, msgListRegistrationLine, i+1, r.Name, r.TeamID, r.EntryCode)
		}
		return succeeded(auditRegistrationsSuccess, detailsReply(fmt.Sprintf(msgListRegistrations, len(regs)), b.String()))
	})
}

// TeamDetails handles "/team-details <team-id>".
func (h *Handler) TeamDetails(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.Staff, func(ctx context.Context, req *request) outcome {
		if len(req.args) == 0 {
			return rejected(auditMissingArgs, h.usage(usageTeamDetails))
		}
		teamID, ok := parseTeamID(req.args[0])
		if !ok {
			return rejected(auditTeamNotFound, msgTeamNotFound)
		}
		team, err := h.store.GetTeam(ctx, teamID)
		if errors.Is(err, database.ErrNotFound) {
			return rejected(auditTeamNotFound, msgTeamNotFound)
		}
		if err != nil {
			return failed(auditTeamDetailsFailed, err)
		}
		members, err := h.store.TeamMembers(ctx, team.ID)
		if err != nil {
			return failed(auditTeamDetailsFailed, err)
		}

		var b strings.Builder
		for _, m := range members {
			fmt.Fprintf(&b, msgTeamMember, m.SlackID, m.Name, m.SlackID)
		}
		if len(members) == 0 {
			b.WriteString(msgTeamNoMembers)
		}
		return succeeded(auditTeamDetailsSuccess, detailsReply(
			fmt.Sprintf(msgTeamDetails, team.Name, formatMoney(team.Balance), team.ID), b.String()))
	})
}

// UserDetails handles "/details [@user|user-id]". Anyone may look themselves
// up; looking up somebody else takes staff.
func (h *Handler) UserDetails(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.None, func(ctx context.Context, req *request) outcome {
		user := req.user
		if len(req.args) > 0 {
			role, err := h.store.UserRole(ctx, req.user.SlackID)
			if err != nil {
				return failed(auditPermissionFailed, err)
			}
			if !roles.MeetsOrExceeds(roles.Staff, role) {
				return rejected(auditUnauthorized, h.unauthorized())
			}

			var found, wellFormed bool
			user, found, wellFormed, err = h.lookupUser(ctx, req.args[0])
			switch {
			case err != nil:
				return failed(auditUserSearchFailed, err)
			case !wellFormed:
				return rejected(auditBadUserFormat, h.usage(usageUserDetails))
			case !found:
				return rejected(auditUserNotFound, msgUserNotFound)
			}
		}

		team := noTeamName
		if user.HasTeam() {
			t, err := h.store.GetTeam(ctx, user.TeamID)
			if err != nil {
				return failed(auditTeamSearchFailed, err)
			}
			team = t.Name
		}
		return succeeded(auditUserDetailsSuccess, textReply(fmt.Sprintf(msgUserDetails, user.SlackID, user.Name, user.SlackID, team)))
	})
}

// ChangePermissions handles "/change-permissions <@user> <admin|staff|remove>"
// and keeps the staff channel membership in line with the new role.
func (h *Handler) ChangePermissions(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.Admin, func(ctx context.Context, req *request) outcome {
		if len(req.args) < 2 {
			return rejected(auditMissingArgs, h.usage(usagePermissions))
		}
		target, ok := parseMention(req.args[0])
		if !ok {
			if !userIDPattern.MatchString(req.args[0]) {
				return rejected(auditBadUserFormat, h.usage(usagePermissions))
			}
			target = mention{ID: req.args[0]}
		}

		var role roles.Role
		switch strings.ToLower(req.args[1]) {
		case "admin":
			role = roles.Admin
		case "staff":
			role = roles.Staff
		case "remove":
			role = roles.None
		default:
			return rejected(auditInvalidValue, h.usage(usagePermissions))
		}

		if err := h.store.SetUserRole(ctx, target.ID, role); err != nil {
			return failed(auditPermissionsFailed, err)
		}
		h.logLine(ctx, handler.LogInfo, "<@%s> set the role of <@%s> to %s", req.user.SlackID, target.ID, role)

		if h.settings.StaffChannelID == "" {
			return succeeded(auditPermissionsSuccess, textReply(msgPermissionsChanged))
		}
		var err error
		if role == roles.None {
			err = h.notifier.RemoveUser(ctx, h.settings.StaffChannelID, target.ID)
		} else {
			err = h.notifier.InviteUser(ctx, h.settings.StaffChannelID, target.ID)
		}
		if err != nil {
			h.logger.Warn("Failed to update staff channel membership", "user", target.ID, "role", role, "err", err)
			return succeeded(auditPermissionsSuccess, textReply(msgPermissionsNoChannel))
		}
		return succeeded(auditPermissionsSuccess, textReply(msgPermissionsChanged))
	})
}

// ListStaff handles "/list-staff".
func (h *Handler) ListStaff(ctx context.Context, cmd slack.SlashCommand) {
	h.run(ctx, cmd, roles.Staff, func(ctx context.Context, req *request) outcome {
		staff, err := h.store.ListStaff(ctx)
		if err != nil {
			return failed(auditStaffFailed, err)
		}
		if len(staff) == 0 {
			return succeeded(auditStaffSuccess, textReply(msgNoStaff))
		}
		var b strings.Builder
		for _, s := range staff {
			fmt.Fprintf(&b, msgListStaffLine, s.SlackID, s.Name, s.Role, s.SlackID)
		}
		return succeeded(auditStaffSuccess, detailsReply(msgListStaff, b.String()))
	})
}
