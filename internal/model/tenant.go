package model

import (
	"time"
)

// Subscription plans.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// UnlimitedNotes marks a tenant with no note quota.
const UnlimitedNotes = -1

// Tenant represents an isolated customer organization.
// Every record in the system is tagged with a tenant ID and all
// queries filter by it. Plan transitions are one-directional
// (free -> pro); once pro, MaxNotes is unbounded.
type Tenant struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Slug       string     `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	Name       string     `json:"name" gorm:"type:varchar(100);not null"`
	Plan       string     `json:"plan" gorm:"type:varchar(20);not null;default:'free'"`
	MaxNotes   int        `json:"max_notes" gorm:"default:3"`
	UpgradedAt *time.Time `json:"upgraded_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsPro reports whether the tenant is on the pro plan.
func (t *Tenant) IsPro() bool {
	return t.Plan == PlanPro
}
