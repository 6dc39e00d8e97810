package policy

import (
	"notes-service/internal/apperr"
	"notes-service/internal/model"
)

// CanModifyNote reports whether actor may update or delete note. An
// admin acts tenant-wide but never across tenants; everyone else is
// limited to their own notes. Callers fetch notes pre-filtered by
// tenant ID, so a cross-tenant note never reaches this check.
func CanModifyNote(note *model.Note, actor *model.User) bool {
	if actor.IsAdmin() && actor.TenantID == note.TenantID {
		return true
	}
	return note.AuthorID == actor.ID
}

// CheckRoleChange validates a role change of target by actor. An admin
// may not change their own role away from admin.
func CheckRoleChange(actor, target *model.User, newRole string) error {
	if !model.ValidRole(newRole) {
		return apperr.InvalidRequest("unknown role")
	}
	if actor.ID == target.ID && newRole != model.RoleAdmin {
		return apperr.InvalidRequest("cannot change your own role away from admin")
	}
	return nil
}

// CheckDeactivation validates deactivation of target by actor. An
// admin may not deactivate their own account.
func CheckDeactivation(actor, target *model.User) error {
	if actor.ID == target.ID {
		return apperr.InvalidRequest("cannot deactivate your own account")
	}
	return nil
}
