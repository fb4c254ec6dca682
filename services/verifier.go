package services

import (
	"passkey_auth_ms/domain"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"go.uber.org/zap"
)

// IWebAuthnVerifier is the boundary to the cryptographic verification
// component. The uniqueness and ownership checks are injected as callbacks so
// they run inside the verification pass against live store data instead of a
// pre-fetched snapshot.
type IWebAuthnVerifier interface {
	VerifyRegistration(user webauthn.User, session webauthn.SessionData, response *protocol.ParsedCredentialCreationData, credentialIDTaken func(credentialID []byte) (bool, error)) (*webauthn.Credential, error)
	VerifyAssertion(session webauthn.SessionData, response *protocol.ParsedCredentialAssertionData, handleOwner webauthn.DiscoverableUserHandler) (*webauthn.Credential, error)
}

type WebAuthnVerifier struct {
	wa     *webauthn.WebAuthn
	logger *zap.Logger
}

func NewWebAuthnVerifier(wa *webauthn.WebAuthn, logger *zap.Logger) IWebAuthnVerifier {
	return &WebAuthnVerifier{wa: wa, logger: logger}
}

func (v *WebAuthnVerifier) VerifyRegistration(user webauthn.User, session webauthn.SessionData, response *protocol.ParsedCredentialCreationData, credentialIDTaken func(credentialID []byte) (bool, error)) (*webauthn.Credential, error) {
	credential, err := v.wa.CreateCredential(user, session, response)
	if err != nil {
		v.logger.Warn("attestation verification failed", zap.Error(err))
		return nil, domain.ErrVerificationFailed
	}

	taken, err := credentialIDTaken(credential.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrCredentialExists
	}
	return credential, nil
}

func (v *WebAuthnVerifier) VerifyAssertion(session webauthn.SessionData, response *protocol.ParsedCredentialAssertionData, handleOwner webauthn.DiscoverableUserHandler) (*webauthn.Credential, error) {
	var credential *webauthn.Credential
	var err error

	if len(session.UserID) == 0 {
		// Discoverable ceremony: the library resolves the user through the
		// injected handler, which also enforces the user-handle binding.
		credential, err = v.wa.ValidateDiscoverableLogin(handleOwner, session, response)
	} else {
		user, handlerErr := handleOwner(response.RawID, response.Response.UserHandle)
		if handlerErr != nil {
			return nil, handlerErr
		}
		credential, err = v.wa.ValidateLogin(user, session, response)
	}
	if err != nil {
		v.logger.Warn("assertion verification failed", zap.Error(err))
		return nil, domain.ErrVerificationFailed
	}

	if err := ensureNotCloned(credential); err != nil {
		v.logger.Warn("signature counter regression, possible cloned authenticator",
			zap.Uint32("sign_count", credential.Authenticator.SignCount))
		return nil, err
	}
	return credential, nil
}

// ensureNotCloned rejects assertions whose signature counter failed to
// increase. Authenticators without a counter always report zero and never
// trip the clone warning inside the library.
func ensureNotCloned(credential *webauthn.Credential) error {
	if credential.Authenticator.CloneWarning {
		return domain.ErrVerificationFailed
	}
	return nil
}
