package model

import "time"

// PendingOTP is a pending one-time-passcode challenge for an email address.
// The record is single-use: it is deleted on successful verification, and
// expired records are purged on access.
type PendingOTP struct {
	Email     string    `json:"email"`
	Secret    string    `json:"secret"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired checks if the challenge has expired
func (o *PendingOTP) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}
