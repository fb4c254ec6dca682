package domain

import (
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
)

type User struct {
	Id          uint       `gorm:"primaryKey" json:"id"`
	CreatedAt   *time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"default:null" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"default:null" json:"deleted_at"`
	Email       string     `gorm:"size:100;not null;unique" json:"email"`
	DisplayName string     `gorm:"size:100" json:"display_name"`
	Active      bool       `gorm:"not null;default:true" json:"active"`
	UserHandle  []byte     `gorm:"size:64" json:"-"`
	Passkeys    []Passkey  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user_passkeys"`
}

// WebAuthnID returns the stable opaque handle the authenticator stores with
// the credential. It is generated once, on the user's first passkey
// registration, and never changes afterwards.
func (u User) WebAuthnID() []byte {
	return u.UserHandle
}
func (u User) WebAuthnName() string {
	return u.Email
}
func (u User) WebAuthnDisplayName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
func (u User) WebAuthnCredentials() []webauthn.Credential {
	var creds []webauthn.Credential
	for _, p := range u.Passkeys {
		creds = append(creds, webauthn.Credential{
			ID:        p.CredentialID,
			PublicKey: p.PublicKey,
			Authenticator: webauthn.Authenticator{
				AAGUID:    p.AAGUID,
				SignCount: p.SignCount,
			},
		})
	}
	return creds
}
