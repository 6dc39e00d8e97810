package model

import (
	"time"
)

// Limits on note fields, enforced at the HTTP boundary.
const (
	MaxTitleLength   = 200
	MaxContentLength = 10000
)

// Note represents a note owned by a user within a tenant. The tenant
// reference must equal the author's tenant at creation time; neither
// field is updatable afterwards. Notes are hard-deleted, there is no
// DeletedAt column. The Archived flag is reserved and has no mutation
// path yet.
type Note struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"type:varchar(200);not null"`
	Content   string    `json:"content" gorm:"type:text"`
	Tags      []string  `json:"tags" gorm:"serializer:json;type:jsonb"`
	Archived  bool      `json:"archived" gorm:"default:false"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"`
	TenantID  uint      `json:"tenant_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
