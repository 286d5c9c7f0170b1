package pkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

const (
	AccessTTL       = time.Hour
	RefreshTTL      = 7 * 24 * time.Hour
	SocketTicketTTL = time.Minute

	subjectAccess  = "access"
	subjectRefresh = "refresh"
	subjectSocket  = "socket"
)

// secret 启动时由 config 注入
var secret []byte

func SetJWTSecret(s string) { secret = []byte(s) }

type Claims struct {
	UserID uint64 `json:"userId"`
	jwt.RegisteredClaims
}

func signToken(userID uint64, subject string, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   subject,
			ID:        jti,
		},
	})
	return token.SignedString(secret)
}

// NewAccessToken 短期访问令牌
func NewAccessToken(userID uint64) (string, error) {
	return signToken(userID, subjectAccess, AccessTTL, "")
}

// NewRefreshToken 长期刷新令牌
func NewRefreshToken(userID uint64) (string, error) {
	return signToken(userID, subjectRefresh, RefreshTTL, "")
}

// NewSocketTicket 实时通道一次性凭证，jti 在连接时消费掉
func NewSocketTicket(userID uint64) (string, error) {
	return signToken(userID, subjectSocket, SocketTicketTTL, uuid.NewString())
}

func parse(tokenStr, subject string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject != subject {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Authenticate 校验 access；过期时用 refresh 透明续签，
// rotated 非空表示要重新种 token cookie。
// 失败统一 401，Data 里带机读原因码
func Authenticate(accessToken, refreshToken string) (userID uint64, rotated string, err error) {
	if accessToken == "" {
		return 0, "", Unauthorized("Unauthorized", CodeNoToken)
	}

	claims, parseErr := parse(accessToken, subjectAccess)
	if parseErr == nil {
		return claims.UserID, "", nil
	}

	// access 失效，走 refresh 续签
	if refreshToken == "" {
		return 0, "", Unauthorized("Unauthorized", CodeNoToken)
	}
	rc, parseErr := parse(refreshToken, subjectRefresh)
	if parseErr != nil {
		if errors.Is(parseErr, ErrTokenExpired) {
			return 0, "", Unauthorized("TOKEN_EXPIRED", CodeTokenExpired)
		}
		return 0, "", Unauthorized("Unauthorized", CodeInvalidToken)
	}

	rotated, signErr := NewAccessToken(rc.UserID)
	if signErr != nil {
		return 0, "", Internal("token signing failed", signErr)
	}
	return rc.UserID, rotated, nil
}

// DecodeLenient 匿名可访问的接口用：能解出用户就带上，解不出返回 0，从不报错
func DecodeLenient(accessToken string) uint64 {
	if accessToken == "" {
		return 0
	}
	claims, err := parse(accessToken, subjectAccess)
	if err != nil {
		return 0
	}
	return claims.UserID
}

// ParseSocketTicket 校验 socket 凭证，返回用户和 jti
func ParseSocketTicket(ticket string) (uint64, string, error) {
	claims, err := parse(ticket, subjectSocket)
	if err != nil {
		return 0, "", err
	}
	return claims.UserID, claims.ID, nil
}
