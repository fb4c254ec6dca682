package util

import "github.com/hashicorp/go-uuid"

const userHandleSize = 32

// GenerateUserHandle returns a fresh opaque handle for the WebAuthn user
// entity. It carries no derivable information about the account.
func GenerateUserHandle() ([]byte, error) {
	return uuid.GenerateRandomBytes(userHandleSize)
}
