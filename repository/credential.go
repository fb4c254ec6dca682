package repository

import (
	"time"

	"passkey_auth_ms/domain"

	"gorm.io/gorm"
)

type IPasskeyRepository interface {
	Create(db *gorm.DB, passkey *domain.Passkey) error
	GetByCredentialID(db *gorm.DB, credentialID []byte) (*domain.Passkey, error)
	GetByUserID(db *gorm.DB, userId uint) ([]domain.Passkey, error)
	ExistsByCredentialID(db *gorm.DB, credentialID []byte) (bool, error)
	UpdateSignCountAndLastUsed(db *gorm.DB, credentialID []byte, signCount uint32) error
	UpdateDeviceName(db *gorm.DB, id uint, userId uint, deviceName string) error
	DeleteByIDAndUser(db *gorm.DB, id uint, userId uint) error
}

type PasskeyRepository struct {
}

func NewPasskeyRepository() IPasskeyRepository {
	return &PasskeyRepository{}
}

func (p *PasskeyRepository) Create(db *gorm.DB, passkey *domain.Passkey) error {
	return db.Create(passkey).Error
}

func (p *PasskeyRepository) GetByCredentialID(db *gorm.DB, credentialID []byte) (*domain.Passkey, error) {
	var passkey domain.Passkey
	err := db.Where("credential_id = ?", credentialID).First(&passkey).Error
	if err != nil {
		return nil, err
	}
	return &passkey, nil
}

func (p *PasskeyRepository) GetByUserID(db *gorm.DB, userId uint) ([]domain.Passkey, error) {
	var passkeys []domain.Passkey
	err := db.Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&passkeys).Error
	if err != nil {
		return nil, err
	}
	return passkeys, nil
}

func (p *PasskeyRepository) ExistsByCredentialID(db *gorm.DB, credentialID []byte) (bool, error) {
	var count int64
	err := db.Model(&domain.Passkey{}).
		Where("credential_id = ?", credentialID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *PasskeyRepository) UpdateSignCountAndLastUsed(db *gorm.DB, credentialID []byte, signCount uint32) error {
	now := time.Now()
	return db.Model(&domain.Passkey{}).
		Where("credential_id = ?", credentialID).
		Updates(map[string]interface{}{
			"sign_count":   signCount,
			"last_used_at": now,
		}).Error
}

// UpdateDeviceName and DeleteByIDAndUser scope by owner inside the query
// predicate so a non-owned id behaves exactly like a missing one.
func (p *PasskeyRepository) UpdateDeviceName(db *gorm.DB, id uint, userId uint, deviceName string) error {
	res := db.Model(&domain.Passkey{}).
		Where("id = ? AND user_id = ?", id, userId).
		Update("device_name", deviceName)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCredentialNotFound
	}
	return nil
}

func (p *PasskeyRepository) DeleteByIDAndUser(db *gorm.DB, id uint, userId uint) error {
	res := db.Where("id = ? AND user_id = ?", id, userId).Delete(&domain.Passkey{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCredentialNotFound
	}
	return nil
}
