package store

import (
	"context"

	"notes-service/internal/model"
)

// CountNotesForTenant counts every note owned by a tenant, archived
// included. This feeds the subscription gate.
func (s *Store) CountNotesForTenant(ctx context.Context, tenantID uint) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Note{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateNote inserts a note record.
func (s *Store) CreateNote(ctx context.Context, note *model.Note) error {
	return s.db.WithContext(ctx).Create(note).Error
}

// FindNoteByID looks a note up by primary key scoped to a tenant. A
// note owned by another tenant is ErrNotFound, never a permission
// error.
func (s *Store) FindNoteByID(ctx context.Context, tenantID, id uint) (*model.Note, error) {
	var note model.Note
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&note, id).Error; err != nil {
		return nil, translate(err)
	}
	return &note, nil
}

// ListNotesByTenant returns a tenant's notes, newest first.
func (s *Store) ListNotesByTenant(ctx context.Context, tenantID uint) ([]model.Note, error) {
	var notes []model.Note
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// UpdateNote saves the mutable note fields. Author and tenant
// references are fixed at creation and never written here.
func (s *Store) UpdateNote(ctx context.Context, note *model.Note) error {
	return s.db.WithContext(ctx).Model(note).Select("Title", "Content", "Tags").Updates(note).Error
}

// DeleteNote removes a note row for good. Notes have no soft-delete
// lifecycle, unlike user deactivation.
func (s *Store) DeleteNote(ctx context.Context, tenantID, id uint) error {
	result := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Delete(&model.Note{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
