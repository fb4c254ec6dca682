package repository

import (
	"passkey_auth_ms/domain"

	"gorm.io/gorm"
)

type IUserRepository interface {
	GetByID(db *gorm.DB, id uint) (*domain.User, error)
	GetUserWithPasskeys(db *gorm.DB, userId uint) (*domain.User, error)
	GetUserWithPasskeysByEmail(db *gorm.DB, email string) (*domain.User, error)
	FindUserByCredentialID(db *gorm.DB, credID []byte) (*domain.User, error)
	SetUserHandle(db *gorm.DB, userId uint, handle []byte) error
}

type UserRepository struct {
}

func NewUserRepository() IUserRepository {
	return &UserRepository{}
}

func (u *UserRepository) GetByID(db *gorm.DB, id uint) (*domain.User, error) {
	var user domain.User
	err := db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserRepository) GetUserWithPasskeys(db *gorm.DB, userId uint) (*domain.User, error) {
	var user domain.User
	err := db.Preload("Passkeys").First(&user, userId).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserRepository) GetUserWithPasskeysByEmail(db *gorm.DB, email string) (*domain.User, error) {
	var user domain.User
	err := db.Preload("Passkeys").Where("email=?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserRepository) FindUserByCredentialID(db *gorm.DB, credentialID []byte) (*domain.User, error) {
	var user domain.User

	// Join with passkeys table to find the owning user by credential ID
	err := db.Preload("Passkeys").
		Joins("JOIN user_passkeys ON users.id = user_passkeys.user_id").
		Where("user_passkeys.credential_id = ?", credentialID).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (u *UserRepository) SetUserHandle(db *gorm.DB, userId uint, handle []byte) error {
	return db.Model(&domain.User{}).
		Where("id = ?", userId).
		Update("user_handle", handle).Error
}
