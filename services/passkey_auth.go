package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"passkey_auth_ms/domain"
	"passkey_auth_ms/dtos/request"
	"passkey_auth_ms/dtos/response"
	"passkey_auth_ms/repository"
	"passkey_auth_ms/util"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type IPasskeyService interface {
	RegisterStart(req *request.StartPasskeyRegistrationRequest) (*protocol.CredentialCreation, error)
	RegisterFinish(userID uint, deviceName string, r *http.Request) error
	LoginStart(email string) (*protocol.CredentialAssertion, error)
	LoginFinish(r *http.Request) (*response.PasskeyLoginResponse, error)
}

type PasskeyService struct {
	db          *gorm.DB
	userRepo    repository.IUserRepository
	passkeyRepo repository.IPasskeyRepository
	wa          *webauthn.WebAuthn
	verifier    IWebAuthnVerifier
	redis       IRedisService
	jwt         IJWTService
	events      ISecurityEventPublisher
	logger      *zap.Logger
}

func NewPasskeyService(wa *webauthn.WebAuthn, verifier IWebAuthnVerifier, db *gorm.DB, userRepo repository.IUserRepository, passkeyRepo repository.IPasskeyRepository, redis IRedisService, jwt IJWTService, events ISecurityEventPublisher, logger *zap.Logger) IPasskeyService {
	return &PasskeyService{
		db:          db,
		userRepo:    userRepo,
		passkeyRepo: passkeyRepo,
		wa:          wa,
		verifier:    verifier,
		redis:       redis,
		jwt:         jwt,
		events:      events,
		logger:      logger,
	}
}

// RegisterStart begins passkey enrollment for an authenticated user and
// stores the ceremony session in redis under the user's id.
func (ps *PasskeyService) RegisterStart(req *request.StartPasskeyRegistrationRequest) (*protocol.CredentialCreation, error) {
	user, err := ps.userRepo.GetUserWithPasskeys(ps.db, req.UserId)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.Active {
		return nil, domain.ErrAccountDisabled
	}

	// The user handle is minted on first enrollment and kept for life; the
	// authenticator stores it with the credential and asserts it on login.
	if len(user.UserHandle) == 0 {
		handle, err := util.GenerateUserHandle()
		if err != nil {
			return nil, err
		}
		if err := ps.userRepo.SetUserHandle(ps.db, user.Id, handle); err != nil {
			return nil, err
		}
		user.UserHandle = handle
	}

	// Exclude every credential the user already owns so the same
	// authenticator cannot be bound to the account twice.
	var exclusions []protocol.CredentialDescriptor
	for _, p := range user.Passkeys {
		exclusions = append(exclusions, protocol.CredentialDescriptor{
			Type:         protocol.PublicKeyCredentialType,
			CredentialID: p.CredentialID,
		})
	}

	options, sessionData, err := ps.wa.BeginRegistration(*user,
		webauthn.WithExclusions(exclusions),
		webauthn.WithAuthenticatorSelection(protocol.AuthenticatorSelection{
			ResidentKey:      protocol.ResidentKeyRequirementPreferred,
			UserVerification: protocol.VerificationPreferred,
		}),
		webauthn.WithConveyancePreference(protocol.PreferNoAttestation),
	)
	if err != nil {
		return nil, err
	}

	if err := ps.redis.StoreRegistrationSessionRedis(user.Id, sessionData); err != nil {
		return nil, err
	}

	return options, nil
}

// RegisterFinish validates the authenticator's attestation response against
// the stored session and persists the new credential.
func (ps *PasskeyService) RegisterFinish(userID uint, deviceName string, r *http.Request) error {
	parsed, err := protocol.ParseCredentialCreationResponse(r)
	if err != nil {
		ps.logger.Warn("malformed attestation response", zap.Error(err))
		return domain.ErrVerificationFailed
	}
	return ps.registerFinish(userID, deviceName, parsed)
}

func (ps *PasskeyService) registerFinish(userID uint, deviceName string, parsed *protocol.ParsedCredentialCreationData) error {
	user, err := ps.userRepo.GetUserWithPasskeys(ps.db, userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	sessionData, err := ps.redis.GetRegistrationSessionRedis(userID)
	if err != nil {
		return domain.ErrSessionExpired
	}

	credential, err := ps.verifier.VerifyRegistration(*user, *sessionData, parsed, func(credentialID []byte) (bool, error) {
		return ps.passkeyRepo.ExistsByCredentialID(ps.db, credentialID)
	})
	if err != nil {
		return err
	}

	transports, err := json.Marshal(credential.Transport)
	if err != nil {
		return err
	}
	passkey := &domain.Passkey{
		UserID:          user.Id,
		CredentialID:    credential.ID,
		PublicKey:       credential.PublicKey,
		UserHandle:      user.UserHandle,
		SignCount:       credential.Authenticator.SignCount,
		AAGUID:          credential.Authenticator.AAGUID,
		AttestationType: credential.AttestationType,
		Transports:      transports,
		BackupEligible:  credential.Flags.BackupEligible,
		BackupState:     credential.Flags.BackupState,
	}
	if deviceName != "" {
		passkey.DeviceName = &deviceName
	}

	if err := ps.passkeyRepo.Create(ps.db, passkey); err != nil {
		// The unique index on credential_id is the final arbiter when two
		// registrations of the same authenticator race past the pre-check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrCredentialExists
		}
		return err
	}

	if err := ps.redis.DeleteRegistrationSessionRedis(userID); err != nil {
		ps.logger.Warn("failed to delete registration session", zap.Uint("user_id", userID), zap.Error(err))
	}
	if err := ps.events.PublishPasskeyRegistered(&request.PasskeyRegisteredEvent{
		UserId:       user.Id,
		Email:        user.Email,
		CredentialId: base64.RawURLEncoding.EncodeToString(credential.ID),
		DeviceName:   deviceName,
	}); err != nil {
		ps.logger.Warn("failed to publish passkey registered event", zap.Error(err))
	}
	return nil
}

// LoginStart begins an authentication ceremony. With an email the allow list
// is scoped to that user's credentials; without one the ceremony is
// discoverable and any resident credential for this RP may answer.
func (ps *PasskeyService) LoginStart(email string) (*protocol.CredentialAssertion, error) {
	var assertion *protocol.CredentialAssertion
	var sessionData *webauthn.SessionData

	if email != "" {
		user, err := ps.userRepo.GetUserWithPasskeysByEmail(ps.db, email)
		if err != nil {
			return nil, domain.ErrUserNotFound
		}
		if len(user.Passkeys) == 0 {
			// Hard stop: nothing to authenticate against, and silently
			// falling back to another method would mask it.
			return nil, domain.ErrNoCredentials
		}
		assertion, sessionData, err = ps.wa.BeginLogin(*user)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		assertion, sessionData, err = ps.wa.BeginDiscoverableLogin()
		if err != nil {
			return nil, err
		}
	}

	// Keyed by the challenge, not a user id: the responder may be unknown
	// until the assertion arrives.
	if err := ps.redis.StoreLoginSessionRedis(sessionData.Challenge, sessionData); err != nil {
		return nil, err
	}

	return assertion, nil
}

// LoginFinish validates the assertion, updates the signature counter and
// hands off to the token issuer.
func (ps *PasskeyService) LoginFinish(r *http.Request) (*response.PasskeyLoginResponse, error) {
	parsed, err := protocol.ParseCredentialRequestResponse(r)
	if err != nil {
		ps.logger.Warn("malformed assertion response", zap.Error(err))
		return nil, domain.ErrVerificationFailed
	}
	return ps.loginFinish(parsed)
}

func (ps *PasskeyService) loginFinish(parsed *protocol.ParsedCredentialAssertionData) (*response.PasskeyLoginResponse, error) {
	// Credential lookup comes first: the session key lives inside the signed
	// client data, so there is no caller-supplied identity to start from.
	passkey, err := ps.passkeyRepo.GetByCredentialID(ps.db, parsed.RawID)
	if err != nil {
		return nil, domain.ErrCredentialNotFound
	}

	// The challenge the client signed over is the session key. Any parse or
	// cache miss collapses to the same recoverable outcome.
	challenge := parsed.Response.CollectedClientData.Challenge
	sessionData, err := ps.redis.GetLoginSessionRedis(challenge)
	if err != nil {
		return nil, domain.ErrSessionExpired
	}

	credential, err := ps.verifier.VerifyAssertion(*sessionData, parsed, func(rawID, userHandle []byte) (webauthn.User, error) {
		return ps.resolveHandleOwner(rawID, userHandle)
	})
	if err != nil {
		return nil, err
	}

	if err := ps.passkeyRepo.UpdateSignCountAndLastUsed(ps.db, credential.ID, credential.Authenticator.SignCount); err != nil {
		return nil, err
	}

	user, err := ps.userRepo.GetByID(ps.db, passkey.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	// Checked only after the cryptographic proof so a disabled account does
	// not reveal whether the credential itself was valid.
	if !user.Active {
		return nil, domain.ErrAccountDisabled
	}

	tokens, err := ps.jwt.IssueTokens(user)
	if err != nil {
		return nil, err
	}

	if err := ps.redis.DeleteLoginSessionRedis(challenge); err != nil {
		ps.logger.Warn("failed to delete login session", zap.Error(err))
	}
	if err := ps.events.PublishPasskeyLogin(&request.PasskeyLoginEvent{
		UserId:       user.Id,
		Email:        user.Email,
		CredentialId: base64.RawURLEncoding.EncodeToString(credential.ID),
	}); err != nil {
		ps.logger.Warn("failed to publish passkey login event", zap.Error(err))
	}

	return &response.PasskeyLoginResponse{
		UserId: user.Id,
		Email:  user.Email,
		Tokens: tokens,
	}, nil
}

// resolveHandleOwner is the binding check injected into the verifier: the
// user handle asserted by the authenticator must match the one stored on the
// credential row, so one credential can never vouch for another account.
func (ps *PasskeyService) resolveHandleOwner(rawID, userHandle []byte) (webauthn.User, error) {
	passkey, err := ps.passkeyRepo.GetByCredentialID(ps.db, rawID)
	if err != nil {
		return nil, domain.ErrCredentialNotFound
	}
	if len(userHandle) > 0 && !bytes.Equal(userHandle, passkey.UserHandle) {
		return nil, domain.ErrVerificationFailed
	}
	owner, err := ps.userRepo.FindUserByCredentialID(ps.db, rawID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return *owner, nil
}
