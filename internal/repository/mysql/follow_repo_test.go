package mysql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	driver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(driver.New(driver.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

func TestFollowInsertsNewPair(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &FollowRepository{DB: gdb}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `follows`").
		WithArgs(uint64(1), uint64(2), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := repo.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowDuplicateIsNoop(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &FollowRepository{DB: gdb}

	// 唯一索引生效时 ON CONFLICT DO NOTHING 影响 0 行
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `follows`").
		WithArgs(uint64(1), uint64(2), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	created, err := repo.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsFollowing(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &FollowRepository{DB: gdb}

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `follows`").
		WithArgs(uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	following, err := repo.IsFollowing(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, following)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReadScopedToUser(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &NotificationRepository{DB: gdb}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `notifications` SET").
		WithArgs(true, sqlmock.AnyArg(), uint64(5), uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.MarkRead(5, 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}
