package repository_test_test

import (
	"testing"
	"passkey_auth_ms/repository"
	"passkey_auth_ms/repository/repository_test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSettingsGetInt_Found(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "setting_key", "setting_value"}).
		AddRow(1, repository.SettingAccessTokenValidityMinutes, "30")

	mock.ExpectQuery(`SELECT \* FROM "platform_settings" WHERE setting_key = \$1 ORDER BY "platform_settings"\."id" LIMIT \$2`).
		WithArgs(repository.SettingAccessTokenValidityMinutes, 1).
		WillReturnRows(rows)

	repo := repository.NewSettingsRepository()
	value, found, err := repo.GetInt(conn, repository.SettingAccessTokenValidityMinutes)

	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 30, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A missing row is not an error, the caller falls back to its default.
func TestSettingsGetInt_Missing(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "platform_settings" WHERE setting_key = \$1 ORDER BY "platform_settings"\."id" LIMIT \$2`).
		WithArgs("no-such-key", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := repository.NewSettingsRepository()
	value, found, err := repo.GetInt(conn, "no-such-key")

	assert.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}
