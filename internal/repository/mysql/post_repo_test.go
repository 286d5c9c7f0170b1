package mysql

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 列表查询必须带私有社区过滤：非私区放行，私区要求浏览者持有正式成员角色
const visibilityClause = "c.type <> 'private' (.+)EXISTS \\(SELECT 1 FROM community_relations cr (.+)cr.role IN \\('admin','moderator','member'\\)\\)"

func TestSearchFiltersPrivateCommunityPosts(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &PostRepository{DB: gdb}

	mock.ExpectQuery("SELECT (.+) FROM `posts` (.+)" + visibilityClause).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	views, err := repo.Search("golang", 7)
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedFiltersPrivateCommunityPosts(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &PostRepository{DB: gdb}

	mock.ExpectQuery("SELECT (.+) FROM `posts` (.+)" + visibilityClause).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	views, err := repo.Feed(7, []uint64{1}, []uint64{2})
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.NoError(t, mock.ExpectationsWereMet())
}
