package policy

import (
	"context"
	"errors"
	"testing"

	"notes-service/internal/apperr"
	"notes-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	count int64
	err   error
	calls int
}

func (f *fakeCounter) CountNotesForTenant(ctx context.Context, tenantID uint) (int64, error) {
	f.calls++
	return f.count, f.err
}

func freeTenant(maxNotes int) *model.Tenant {
	return &model.Tenant{ID: 1, Slug: "acme", Plan: model.PlanFree, MaxNotes: maxNotes}
}

func TestCanCreateNoteFreeBelowLimit(t *testing.T) {
	counter := &fakeCounter{count: 2}
	gate := NewSubscriptionGate(counter, 3)

	assert.NoError(t, gate.CanCreateNote(context.Background(), freeTenant(3)))
}

func TestCanCreateNoteFreeAtLimit(t *testing.T) {
	counter := &fakeCounter{count: 3}
	gate := NewSubscriptionGate(counter, 3)

	err := gate.CanCreateNote(context.Background(), freeTenant(3))
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestCanCreateNoteFreeOverLimit(t *testing.T) {
	counter := &fakeCounter{count: 10}
	gate := NewSubscriptionGate(counter, 3)

	err := gate.CanCreateNote(context.Background(), freeTenant(3))
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestCanCreateNoteProNeverChecksCount(t *testing.T) {
	counter := &fakeCounter{count: 1000000}
	gate := NewSubscriptionGate(counter, 3)
	tenant := &model.Tenant{ID: 1, Slug: "acme", Plan: model.PlanPro, MaxNotes: model.UnlimitedNotes}

	assert.NoError(t, gate.CanCreateNote(context.Background(), tenant))
	assert.Zero(t, counter.calls)
}

func TestCanCreateNoteFallsBackToConfiguredLimit(t *testing.T) {
	counter := &fakeCounter{count: 4}
	gate := NewSubscriptionGate(counter, 5)

	// Tenant with no per-tenant limit set uses the gate's default.
	assert.NoError(t, gate.CanCreateNote(context.Background(), freeTenant(0)))

	counter.count = 5
	err := gate.CanCreateNote(context.Background(), freeTenant(0))
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestCanCreateNoteCountError(t *testing.T) {
	counter := &fakeCounter{err: errors.New("store unavailable")}
	gate := NewSubscriptionGate(counter, 3)

	err := gate.CanCreateNote(context.Background(), freeTenant(3))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
