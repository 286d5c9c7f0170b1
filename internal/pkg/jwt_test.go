package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	SetJWTSecret("test-secret")
}

func TestAuthenticateWithValidAccessToken(t *testing.T) {
	access, err := NewAccessToken(42)
	require.NoError(t, err)

	userID, rotated, err := Authenticate(access, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
	assert.Empty(t, rotated, "valid access token should not trigger rotation")
}

func TestAuthenticateRotatesWithRefreshToken(t *testing.T) {
	refresh, err := NewRefreshToken(7)
	require.NoError(t, err)

	// access 解析失败但 refresh 有效时透明续签
	userID, rotated, err := Authenticate("not-a-jwt", refresh)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), userID)
	require.NotEmpty(t, rotated)

	// 续签出的就是可用的 access token
	again, _, err := Authenticate(rotated, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), again)
}

func TestAuthenticateNoToken(t *testing.T) {
	_, _, err := Authenticate("", "")
	ae, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, ae.StatusCode)
	assert.Equal(t, map[string]string{"code": CodeNoToken}, ae.Data)
}

func TestAuthenticateInvalidRefresh(t *testing.T) {
	_, _, err := Authenticate("garbage", "garbage")
	ae, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, ae.StatusCode)
	assert.Equal(t, map[string]string{"code": CodeInvalidToken}, ae.Data)
}

func TestSubjectsAreNotInterchangeable(t *testing.T) {
	refresh, err := NewRefreshToken(9)
	require.NoError(t, err)

	// refresh 不能当 access 用
	assert.Equal(t, uint64(0), DecodeLenient(refresh))

	_, _, err = ParseSocketTicket(refresh)
	assert.Error(t, err)
}

func TestDecodeLenient(t *testing.T) {
	access, err := NewAccessToken(3)
	require.NoError(t, err)

	assert.Equal(t, uint64(3), DecodeLenient(access))
	assert.Equal(t, uint64(0), DecodeLenient(""))
	assert.Equal(t, uint64(0), DecodeLenient("garbage"))
}

func TestSocketTicketCarriesJTI(t *testing.T) {
	ticket, err := NewSocketTicket(5)
	require.NoError(t, err)

	userID, jti, err := ParseSocketTicket(ticket)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), userID)
	assert.NotEmpty(t, jti)

	// 每张凭证的 jti 都不同
	other, err := NewSocketTicket(5)
	require.NoError(t, err)
	_, otherJTI, err := ParseSocketTicket(other)
	require.NoError(t, err)
	assert.NotEqual(t, jti, otherJTI)
}
