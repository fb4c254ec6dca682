package services

import (
	"testing"
	"time"
	"passkey_auth_ms/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newCredentialFixture() (*fakePasskeyRepo, *fakeSessionCache, *fakePublisher, ICredentialService) {
	repo := &fakePasskeyRepo{}
	cache := newFakeSessionCache()
	events := &fakePublisher{}
	svc := NewCredentialService(nil, repo, cache, events, zap.NewNop())
	return repo, cache, events, svc
}

func TestListCredentials_ProjectionOnly(t *testing.T) {
	repo, _, _, svc := newCredentialFixture()
	name := "Pixel 9"
	created := time.Now()
	repo.rows = []*domain.Passkey{
		{ID: 2, UserID: 1, CredentialID: []byte("b"), PublicKey: []byte("pk"), DeviceName: &name, CreatedAt: &created},
		{ID: 1, UserID: 1, CredentialID: []byte("a"), PublicKey: []byte("pk")},
		{ID: 3, UserID: 2, CredentialID: []byte("c"), PublicKey: []byte("pk")},
	}

	summaries, err := svc.ListCredentials(1)

	assert.NoError(t, err)
	assert.Len(t, summaries, 2, "only the owner's credentials")
	assert.Equal(t, uint(2), summaries[0].Id)
	assert.Equal(t, "Pixel 9", *summaries[0].DeviceName)
}

func TestDeleteCredential_Owned(t *testing.T) {
	repo, _, events, svc := newCredentialFixture()
	repo.rows = []*domain.Passkey{{ID: 1, UserID: 1, CredentialID: []byte("a")}}

	err := svc.DeleteCredential(1, 1)

	assert.NoError(t, err)
	assert.Empty(t, repo.rows)
	assert.Equal(t, 1, events.revoked)
}

func TestDeleteCredential_NotOwned(t *testing.T) {
	repo, cache, events, svc := newCredentialFixture()
	repo.rows = []*domain.Passkey{{ID: 1, UserID: 1, CredentialID: []byte("a")}}
	cache.refresh[1] = "refresh-token"

	err := svc.DeleteCredential(1, 99)

	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
	assert.Len(t, repo.rows, 1)
	assert.Equal(t, 0, events.revoked)
	assert.Contains(t, cache.refresh, uint(1), "owner's session must be untouched")
}

// Revoking a credential forces a fresh ceremony once the access token runs
// out: the cached refresh token goes with the credential.
func TestDeleteCredential_DropsRefreshToken(t *testing.T) {
	repo, cache, _, svc := newCredentialFixture()
	repo.rows = []*domain.Passkey{{ID: 1, UserID: 1, CredentialID: []byte("a")}}
	cache.refresh[1] = "refresh-token"

	err := svc.DeleteCredential(1, 1)

	assert.NoError(t, err)
	assert.NotContains(t, cache.refresh, uint(1))
}

func TestRenameCredential(t *testing.T) {
	repo, _, _, svc := newCredentialFixture()
	repo.rows = []*domain.Passkey{{ID: 1, UserID: 1, CredentialID: []byte("a")}}

	err := svc.RenameCredential(1, 1, "Work laptop")

	assert.NoError(t, err)
	assert.Equal(t, "Work laptop", *repo.rows[0].DeviceName)
}

func TestRenameCredential_NotOwned(t *testing.T) {
	repo, _, _, svc := newCredentialFixture()
	repo.rows = []*domain.Passkey{{ID: 1, UserID: 1, CredentialID: []byte("a")}}

	err := svc.RenameCredential(1, 99, "Work laptop")

	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
	assert.Nil(t, repo.rows[0].DeviceName)
}
