package store

import (
	"context"

	"notes-service/internal/model"

	"gorm.io/gorm"
)

// FindTenantByID looks a tenant up by primary key.
func (s *Store) FindTenantByID(ctx context.Context, id uint) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tenant, nil
}

// FindTenantBySlug looks a tenant up by its unique slug.
func (s *Store) FindTenantBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&tenant).Error; err != nil {
		return nil, translate(err)
	}
	return &tenant, nil
}

// CreateTenantWithAdmin inserts a tenant and its first admin user in
// one transaction. The user's tenant reference is stamped from the
// freshly created tenant.
func (s *Store) CreateTenantWithAdmin(ctx context.Context, tenant *model.Tenant, admin *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}
		admin.TenantID = tenant.ID
		admin.Role = model.RoleAdmin
		return tx.Create(admin).Error
	})
}

// UpdateTenant saves the plan fields. Plan transitions are one-way,
// the handler enforces free -> pro before calling this.
func (s *Store) UpdateTenant(ctx context.Context, tenant *model.Tenant) error {
	return s.db.WithContext(ctx).Model(tenant).Updates(map[string]interface{}{
		"plan":        tenant.Plan,
		"max_notes":   tenant.MaxNotes,
		"upgraded_at": tenant.UpgradedAt,
	}).Error
}
