package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"campfire/internal/middleware"
	"campfire/internal/repository/mysql"
	"campfire/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	driver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type fakeStorage struct {
	uploads int
	deleted []string
}

func (f *fakeStorage) Upload(ctx context.Context, folder, fileName string, file io.Reader, size int64) (string, string, error) {
	f.uploads++
	return "communities/obj.png", "http://cdn/communities/obj.png", nil
}

func (f *fakeStorage) Delete(ctx context.Context, objectName string) error {
	f.deleted = append(f.deleted, objectName)
	return nil
}

// swapMockDB 把包级连接换成 sqlmock，服务按正常构造方式接上
func swapMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(driver.New(driver.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	prev := mysql.DB
	mysql.DB = gdb
	t.Cleanup(func() { mysql.DB = prev })
	return mock
}

func newIconRouter(h *CommunityHandler, userID uint64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/:name/icon", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
	}, h.UpdateIcon)
	return r
}

func iconRequest(t *testing.T, path string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("icon", "icon.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUpdateIconGateRunsBeforeUpload(t *testing.T) {
	mock := swapMockDB(t)
	store := &fakeStorage{}
	h := NewCommunityHandler(service.NewCommunityService(), store)
	r := newIconRouter(h, 10)

	// 社区不存在，门禁在上传前拦下，对象存储不能被碰到
	mock.ExpectQuery("SELECT (.+) FROM `communities`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type"}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, iconRequest(t, "/ghost/icon"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, store.uploads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateIconRejectsNonModeratorWithoutUpload(t *testing.T) {
	mock := swapMockDB(t)
	store := &fakeStorage{}
	h := NewCommunityHandler(service.NewCommunityService(), store)
	r := newIconRouter(h, 10)

	mock.ExpectQuery("SELECT (.+) FROM `communities`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type"}).AddRow(1, "golang", "public"))
	mock.ExpectQuery("SELECT (.+) FROM `community_relations`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "community_id", "user_id", "role"}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, iconRequest(t, "/golang/icon"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, store.uploads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateIconRollsBackUploadWhenPersistFails(t *testing.T) {
	mock := swapMockDB(t)
	store := &fakeStorage{}
	h := NewCommunityHandler(service.NewCommunityService(), store)
	r := newIconRouter(h, 10)

	communityRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "name", "type"}).AddRow(1, "golang", "public")
	}
	moderatorRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "community_id", "user_id", "role"}).
			AddRow(1, 1, 10, "moderator")
	}

	// 门禁通过、上传成功，落库失败时要删掉已传对象
	mock.ExpectQuery("SELECT (.+) FROM `communities`").WillReturnRows(communityRows())
	mock.ExpectQuery("SELECT (.+) FROM `community_relations`").WillReturnRows(moderatorRows())
	mock.ExpectQuery("SELECT (.+) FROM `communities`").WillReturnRows(communityRows())
	mock.ExpectQuery("SELECT (.+) FROM `community_relations`").WillReturnRows(moderatorRows())
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `communities` SET").
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, iconRequest(t, "/golang/icon"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, store.uploads)
	assert.Equal(t, []string{"communities/obj.png"}, store.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
