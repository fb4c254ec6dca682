package domain

import "time"

type Passkey struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"` // foreign key
	CredentialID    []byte     `gorm:"not null;unique" json:"credential_id"`
	PublicKey       []byte     `gorm:"not null" json:"public_key"`
	UserHandle      []byte     `gorm:"not null" json:"-"`
	SignCount       uint32     `gorm:"not null" json:"sign_count"`
	AAGUID          []byte     `gorm:"not null" json:"aa_guid"`
	AttestationType string     `json:"attestation_type"`
	Transports      []byte     `gorm:"type:json" json:"transports"`
	DeviceName      *string    `gorm:"size:64" json:"device_name"`
	BackupEligible  bool       `gorm:"not null;default:false" json:"backup_eligible"`
	BackupState     bool       `gorm:"not null;default:false" json:"backup_state"`
	CreatedAt       *time.Time `gorm:"autoCreateTime" json:"created_at"`
	LastUsedAt      *time.Time `gorm:"default:null" json:"last_used_at"`
}

func (Passkey) TableName() string {
	return "user_passkeys"
}
