package response

import "time"

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type PasskeyLoginResponse struct {
	UserId uint    `json:"user_id"`
	Email  string  `json:"email"`
	Tokens *Tokens `json:"tokens"`
}

// CredentialSummary is the read-only projection returned to the owner.
// Public key and signature counter never leave the server.
type CredentialSummary struct {
	Id          uint       `json:"id"`
	DeviceName  *string    `json:"device_name"`
	BackupState bool       `json:"backup_state"`
	CreatedAt   *time.Time `json:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at"`
}
