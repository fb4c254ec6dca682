package services

import (
	"passkey_auth_ms/dtos/request"
	"passkey_auth_ms/dtos/response"
	"passkey_auth_ms/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ICredentialService interface {
	ListCredentials(userId uint) ([]response.CredentialSummary, error)
	RenameCredential(id uint, userId uint, deviceName string) error
	DeleteCredential(id uint, userId uint) error
}

type CredentialService struct {
	db          *gorm.DB
	passkeyRepo repository.IPasskeyRepository
	redis       IRedisService
	events      ISecurityEventPublisher
	logger      *zap.Logger
}

func NewCredentialService(db *gorm.DB, passkeyRepo repository.IPasskeyRepository, redis IRedisService, events ISecurityEventPublisher, logger *zap.Logger) ICredentialService {
	return &CredentialService{db: db, passkeyRepo: passkeyRepo, redis: redis, events: events, logger: logger}
}

// ListCredentials returns the owner's credentials newest-first. Public keys
// and counters stay server-side.
func (cs *CredentialService) ListCredentials(userId uint) ([]response.CredentialSummary, error) {
	passkeys, err := cs.passkeyRepo.GetByUserID(cs.db, userId)
	if err != nil {
		return nil, err
	}

	summaries := make([]response.CredentialSummary, 0, len(passkeys))
	for _, p := range passkeys {
		summaries = append(summaries, response.CredentialSummary{
			Id:          p.ID,
			DeviceName:  p.DeviceName,
			BackupState: p.BackupState,
			CreatedAt:   p.CreatedAt,
			LastUsedAt:  p.LastUsedAt,
		})
	}
	return summaries, nil
}

func (cs *CredentialService) RenameCredential(id uint, userId uint, deviceName string) error {
	return cs.passkeyRepo.UpdateDeviceName(cs.db, id, userId, deviceName)
}

// DeleteCredential revokes one of the caller's own credentials. Ownership is
// enforced by the delete predicate itself, so an id belonging to another user
// is indistinguishable from a missing one.
func (cs *CredentialService) DeleteCredential(id uint, userId uint) error {
	if err := cs.passkeyRepo.DeleteByIDAndUser(cs.db, id, userId); err != nil {
		return err
	}
	// A revoked device must not keep its session alive past the access TTL.
	cs.redis.DelRefreshToken(userId)
	if err := cs.events.PublishPasskeyRevoked(&request.PasskeyRevokedEvent{
		UserId:    userId,
		PasskeyId: id,
	}); err != nil {
		cs.logger.Warn("failed to publish passkey revoked event", zap.Error(err))
	}
	return nil
}
