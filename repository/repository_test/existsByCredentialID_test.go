package repository_test_test

import (
	"testing"
	"passkey_auth_ms/repository"
	"passkey_auth_ms/repository/repository_test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestExistsByCredentialID_Taken(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	credID := []byte{0x0a, 0x0b}
	mock.ExpectQuery(`SELECT count\(\*\) FROM "user_passkeys" WHERE credential_id = \$1`).
		WithArgs(credID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	repo := repository.NewPasskeyRepository()
	taken, err := repo.ExistsByCredentialID(conn, credID)

	assert.NoError(t, err)
	assert.True(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByCredentialID_Free(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	credID := []byte{0x0c}
	mock.ExpectQuery(`SELECT count\(\*\) FROM "user_passkeys" WHERE credential_id = \$1`).
		WithArgs(credID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	repo := repository.NewPasskeyRepository()
	taken, err := repo.ExistsByCredentialID(conn, credID)

	assert.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
