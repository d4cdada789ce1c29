package entity

import (
	"time"
)

// Phase is the verification state of a user record at rest.
type Phase string

const (
	// PhasePending: registered, OTP outstanding.
	PhasePending Phase = "pending"
	// PhaseActive: OTP consumed, login allowed.
	PhaseActive Phase = "active"
)

// User is the aggregate root for the user domain.
// Password holds a bcrypt digest, never plaintext. VerificationToken is set
// only while the account is Pending.
//
// The JSON names mirror the stored document and are returned as-is by the
// listing endpoint, including Password and VerificationToken.
type User struct {
	ID                string    `json:"_id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Password          string    `json:"password"`
	DateOfBirth       time.Time `json:"date_of_birth"`
	Country           string    `json:"country"`
	VerificationToken *string   `json:"verificationToken"`
	IsVerified        bool      `json:"isVerified"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Phase derives the lifecycle phase from the verification fields.
func (u *User) Phase() Phase {
	if u.IsVerified {
		return PhaseActive
	}
	return PhasePending
}

// Activate moves a Pending record to Active and clears the code.
func (u *User) Activate() {
	u.IsVerified = true
	u.VerificationToken = nil
}

// Valid reports whether the verification fields form one of the two allowed phases.
func (u *User) Valid() bool {
	if u.IsVerified {
		return u.VerificationToken == nil
	}
	return u.VerificationToken != nil
}
