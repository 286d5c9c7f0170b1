package mysql

import (
	"context"
	"testing"

	"campfire/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleCreatesWhenAbsent(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &ReactionRepository{DB: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reactions` (.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "target_type", "target_id", "reaction"}))
	mock.ExpectExec("INSERT INTO `reactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	result, err := repo.Toggle(context.Background(), 7, model.TargetPost, 9, model.ReactionUpvote)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionUpvote, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleSameValueCancels(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &ReactionRepository{DB: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reactions` (.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "target_type", "target_id", "reaction"}).
			AddRow(3, 7, model.TargetPost, 9, model.ReactionUpvote))
	mock.ExpectExec("DELETE FROM `reactions`").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Toggle(context.Background(), 7, model.TargetPost, 9, model.ReactionUpvote)
	require.NoError(t, err)
	assert.Equal(t, "", result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleOppositeValueOverwrites(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &ReactionRepository{DB: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reactions` (.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "target_type", "target_id", "reaction"}).
			AddRow(3, 7, model.TargetComment, 9, model.ReactionDownvote))
	mock.ExpectExec("UPDATE `reactions` SET").
		WithArgs(model.ReactionUpvote, sqlmock.AnyArg(), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Toggle(context.Background(), 7, model.TargetComment, 9, model.ReactionUpvote)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionUpvote, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
