package models

import "time"

// Resource represents a bookable space: a room, desk or area.
type Resource struct {
	ID               string    `bson:"id" json:"id"`
	Name             string    `bson:"name" json:"name"`
	Capacity         int       `bson:"capacity" json:"capacity"`
	IsActive         bool      `bson:"is_active" json:"isActive"`
	IsBookable       bool      `bson:"is_bookable" json:"isBookable"`
	RequiresApproval bool      `bson:"requires_approval" json:"requiresApproval"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updatedAt"`
}

// Bookable reports whether new bookings may target this resource.
func (r Resource) Bookable() bool {
	return r.IsActive && r.IsBookable
}
