// Package policy holds the pure authorization decisions: the
// subscription gate for note creation, the note ownership rule for
// mutation, and the admin self-protection rules.
package policy

import (
	"context"

	"notes-service/internal/apperr"
	"notes-service/internal/model"
)

// NoteCounter is the slice of the store the gate needs.
type NoteCounter interface {
	CountNotesForTenant(ctx context.Context, tenantID uint) (int64, error)
}

// SubscriptionGate answers "can tenant T create one more note?".
//
// The count and the subsequent create are two separate store calls
// with no lock between them; two concurrent creations at the boundary
// can both pass and jointly exceed the limit by one. This is the
// accepted weak quota, not exact accounting.
type SubscriptionGate struct {
	counter   NoteCounter
	freeLimit int
}

// NewSubscriptionGate builds a gate. freeLimit is the fallback when a
// free tenant has no per-tenant limit set.
func NewSubscriptionGate(counter NoteCounter, freeLimit int) *SubscriptionGate {
	return &SubscriptionGate{counter: counter, freeLimit: freeLimit}
}

// CanCreateNote returns nil when the tenant may create a note, a
// Forbidden error when its quota is reached, or an Internal error when
// the count cannot be read. Pro tenants are unbounded and never hit
// the store.
func (g *SubscriptionGate) CanCreateNote(ctx context.Context, tenant *model.Tenant) error {
	if tenant.IsPro() || tenant.MaxNotes == model.UnlimitedNotes {
		return nil
	}

	limit := tenant.MaxNotes
	if limit <= 0 {
		limit = g.freeLimit
	}

	count, err := g.counter.CountNotesForTenant(ctx, tenant.ID)
	if err != nil {
		return apperr.Internal("counting notes", err)
	}
	if count >= int64(limit) {
		return apperr.Forbidden("note quota reached for plan")
	}
	return nil
}
