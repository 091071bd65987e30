package model

import "time"

// Owner represents a listing owner as stored in the `owners` table.
// Owners are identified by phone number; there is no password, the
// email is verified with a one-time code before the row is written.
//
// Fields:
//
//	Phone    – primary key.
//	Email    – last verified address, may be empty on legacy rows.
//	JoinedAt – first registration time, never overwritten.
type Owner struct {
	Phone    string    `json:"phone"`     // owners.phone
	Name     string    `json:"name"`      // owners.name
	Email    string    `json:"email"`     // owners.email (nullable)
	JoinedAt time.Time `json:"joined_at"` // owners.joined_at
}

// RoleOwner is the role carried by every access token this service issues.
const RoleOwner = "OWNER"
