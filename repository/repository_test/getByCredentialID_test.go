package repository_test_test

import (
	"testing"
	"passkey_auth_ms/repository"
	"passkey_auth_ms/repository/repository_test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestGetByCredentialID_SQLMock(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	credID := []byte{0x01, 0x02, 0x03}
	rows := sqlmock.NewRows([]string{"id", "user_id", "credential_id", "sign_count"}).
		AddRow(7, 3, credID, 42)

	mock.ExpectQuery(`SELECT \* FROM "user_passkeys" WHERE credential_id = \$1 ORDER BY "user_passkeys"\."id" LIMIT \$2`).
		WithArgs(credID, 1).
		WillReturnRows(rows)

	repo := repository.NewPasskeyRepository()
	passkey, err := repo.GetByCredentialID(conn, credID)

	assert.NoError(t, err)
	assert.NotNil(t, passkey)
	assert.Equal(t, uint(3), passkey.UserID)
	assert.Equal(t, uint32(42), passkey.SignCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByCredentialID_NotFound(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	credID := []byte{0xde, 0xad}
	mock.ExpectQuery(`SELECT \* FROM "user_passkeys" WHERE credential_id = \$1 ORDER BY "user_passkeys"\."id" LIMIT \$2`).
		WithArgs(credID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := repository.NewPasskeyRepository()
	passkey, err := repo.GetByCredentialID(conn, credID)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, passkey)
	assert.NoError(t, mock.ExpectationsWereMet())
}
