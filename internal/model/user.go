package model

import "time"

// User is an account owner: a community operator using the lead engine.
// This is a pure domain model with no database-specific dependencies or tags.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	FullName      string     `json:"full_name"`
	CommunityID   string     `json:"community_id,omitempty"`
	CommunityName string     `json:"community_name,omitempty"`
	APIKey        string     `json:"-"`
	IsActive      bool       `json:"is_active"`
	IsVerified    bool       `json:"is_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
}
