package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	OtpTTL    = 5 * time.Minute
	otpPrefix = "otp"

	// 两阶段键：pending 是发出去待校验的码，confirmed 是校验通过的标记
	pendingSuffix   = "pending"
	confirmedSuffix = "confirmed"

	ScopeRegister = "register"
	ScopeReset    = "reset"
)

var (
	ErrOtpNotFound  = errors.New("otp not found or expired")
	ErrOtpMismatch  = errors.New("otp is incorrect")
	ErrOtpConfirmed = errors.New("otp already verified")
)

// OtpRepository 验证码存储。TTL 管过期，confirmed 键即"已验证"标记，
// 重发直接覆盖 pending 键完成作废
type OtpRepository struct{}

func pendingKey(scope, email string) string {
	return fmt.Sprintf("%s:%s:%s:%s", otpPrefix, scope, pendingSuffix, email)
}

func confirmedKey(scope, email string) string {
	return fmt.Sprintf("%s:%s:%s:%s", otpPrefix, scope, confirmedSuffix, email)
}

// SetPending 写入新验证码，旧码（含已确认标记）一并作废
func (o *OtpRepository) SetPending(ctx context.Context, scope, email, code string) error {
	if err := Client.Del(ctx, confirmedKey(scope, email)).Err(); err != nil {
		return err
	}
	return Client.Set(ctx, pendingKey(scope, email), code, OtpTTL).Err()
}

// Verify 比对验证码；命中则用 lua 原子地把 pending 转成 confirmed
func (o *OtpRepository) Verify(ctx context.Context, scope, email, code string) error {
	if n, err := Client.Exists(ctx, confirmedKey(scope, email)).Result(); err == nil && n > 0 {
		return ErrOtpConfirmed
	}

	val, err := Client.Get(ctx, pendingKey(scope, email)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrOtpNotFound
	}
	if err != nil {
		return err
	}
	if val != code {
		return ErrOtpMismatch
	}

	script := `
local val = redis.call("GET", KEYS[1])
if not val then
  return 0
end
redis.call("SET", KEYS[2], "1", "PX", ARGV[1])
redis.call("DEL", KEYS[1])
return 1
`
	px := int64(OtpTTL / time.Millisecond)
	res := Client.Eval(ctx, script, []string{pendingKey(scope, email), confirmedKey(scope, email)}, px)
	if err := res.Err(); err != nil {
		return err
	}
	if ok, _ := res.Int(); ok != 1 {
		return ErrOtpNotFound
	}
	return nil
}

// IsConfirmed 注册/重置前检查邮箱是否已验证
func (o *OtpRepository) IsConfirmed(ctx context.Context, scope, email string) (bool, error) {
	n, err := Client.Exists(ctx, confirmedKey(scope, email)).Result()
	return n > 0, err
}

// Consume 用完即删，失败不影响主流程
func (o *OtpRepository) Consume(ctx context.Context, scope, email string) error {
	return Client.Del(ctx, confirmedKey(scope, email)).Err()
}
