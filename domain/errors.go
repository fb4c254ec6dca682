package domain

import "errors"

// Ceremony error taxonomy. Controllers map these to HTTP statuses; the
// messages are deliberately generic so a caller cannot tell an expired
// session from one that never existed, or which verification sub-check
// failed.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCredentialNotFound = errors.New("credential not recognized")
	ErrSessionExpired     = errors.New("ceremony session not found or expired, please restart")
	ErrVerificationFailed = errors.New("passkey verification failed")
	ErrCredentialExists   = errors.New("credential is already registered")
	ErrNoCredentials      = errors.New("no passkeys registered for this account")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrTokenRejected      = errors.New("refresh token not recognized")
)
