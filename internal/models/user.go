package models

import (
	"time"

	"github.com/google/uuid"
)

// Role determines which login flow applies and which operations a user may
// perform. It is assigned at registration and never changes afterwards.
type Role string

const (
	RoleFarmer   Role = "FARMER"
	RoleConsumer Role = "CONSUMER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleConsumer, RoleAdmin:
		return true
	}
	return false
}

// UsesPassword reports whether the role authenticates with email+password.
// All other roles go through the phone OTP flow.
func (r Role) UsesPassword() bool {
	return r == RoleAdmin
}

// User represents a marketplace account. Email and phone are nullable so the
// unique indexes only apply to rows that actually carry a value.
type User struct {
	BaseModel
	Name         string  `json:"name"`
	Role         Role    `gorm:"type:varchar(16);index" json:"role"`
	Email        *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Phone        *string `gorm:"uniqueIndex" json:"phone,omitempty"`
	PasswordHash string  `json:"-"`

	// Farmer profile
	FarmName string `json:"farm_name,omitempty"`
	Location string `json:"location,omitempty"`

	// Consumer profile
	Address string `json:"address,omitempty"`

	Orders []Order `json:"orders,omitempty"`
}

// UserSummary is the public shape returned by auth endpoints.
type UserSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role Role      `json:"role"`
}

// Summary strips the user down to its public fields.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Role: u.Role}
}

// OTPChallenge keeps track of one-time login codes sent to users. A challenge
// is good for exactly one successful verification and only before ExpiresAt;
// expired or consumed rows are never cleaned up actively, they just stop
// matching.
type OTPChallenge struct {
	BaseModel
	UserID    uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	Phone     string     `gorm:"index" json:"phone"`
	Code      string     `json:"code"`
	ExpiresAt time.Time  `json:"expires_at"`
	Consumed  bool       `json:"consumed"`
	UsedAt    *time.Time `json:"used_at"`
}
