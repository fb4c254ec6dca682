package repository_test_test

import (
	"testing"
	"time"
	"passkey_auth_ms/repository"
	"passkey_auth_ms/repository/repository_test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestGetByUserID_NewestFirst(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	newer := time.Now()
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "user_id", "created_at"}).
		AddRow(2, 3, newer).
		AddRow(1, 3, older)

	mock.ExpectQuery(`SELECT \* FROM "user_passkeys" WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs(3).
		WillReturnRows(rows)

	repo := repository.NewPasskeyRepository()
	passkeys, err := repo.GetByUserID(conn, 3)

	assert.NoError(t, err)
	assert.Len(t, passkeys, 2)
	assert.Equal(t, uint(2), passkeys[0].ID)
	assert.Equal(t, uint(1), passkeys[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
