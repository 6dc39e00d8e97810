package store

import (
	"context"

	"notes-service/internal/model"
)

// FindUserByID looks a user up by primary key with its tenant joined.
func (s *Store) FindUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Preload("Tenant").First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindUserByEmail looks a user up by its case-normalized email with
// its tenant joined. The caller is responsible for lowercasing.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Preload("Tenant").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindUserInTenant looks a user up by primary key scoped to a tenant.
// A user belonging to another tenant comes back as ErrNotFound.
func (s *Store) FindUserInTenant(ctx context.Context, tenantID, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// ListUsersByTenant returns all users of a tenant, active or not.
func (s *Store) ListUsersByTenant(ctx context.Context, tenantID uint) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser inserts a user record.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// UpdateUser saves mutable user fields.
func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Model(user).Select("role", "is_active").Updates(map[string]interface{}{
		"role":      user.Role,
		"is_active": user.IsActive,
	}).Error
}
