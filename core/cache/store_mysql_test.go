package cache_test

import (
	"context"
	"testing"

	"family-sync/core/cache"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The mysql path is exercised against sqlmock. NewWithDB leaves schema
// management to the caller, so only the store's own queries need
// expectations.
func newMockedStore(t *testing.T) (*cache.Store, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	assert.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	assert.NoError(t, err)

	return cache.NewWithDB(db, zap.NewNop()), mock
}

func TestUsersQueryAgainstMySQL(t *testing.T) {
	s, mock := newMockedStore(t)
	t.Cleanup(s.Close)

	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "role", "pro"}).
			AddRow(1, "Anna", "P", "owner", true))

	users, err := s.Users(context.Background())
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "Anna", users[0].FirstName)
	assert.True(t, users[0].Pro)
}

func TestEmptyMySQLRowsAreDataNotFound(t *testing.T) {
	s, mock := newMockedStore(t)
	t.Cleanup(s.Close)

	mock.ExpectQuery("SELECT \\* FROM `posts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.Posts(context.Background())
	assert.ErrorIs(t, err, cache.ErrDataNotFound)
}
