package models

import "time"

// PasswordRecoveryRequest is a single-use, time-bound reset secret. ID is the
// public identifier handed back to the client.
type PasswordRecoveryRequest struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
}
