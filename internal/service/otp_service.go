package service

import (
	"context"
	"errors"

	"campfire/internal/pkg"
	"campfire/internal/repository/redis"
)

type OtpService struct {
	smtp pkg.SMTPConfig
	rds  *redis.OtpRepository
}

func NewOtpService(smtp pkg.SMTPConfig) *OtpService {
	return &OtpService{smtp: smtp, rds: &redis.OtpRepository{}}
}

var otpSubjects = map[string]string{
	redis.ScopeRegister: "registration",
	redis.ScopeReset:    "password reset",
}

// SendCode 生成并发送验证码；同邮箱重发会作废旧码
func (s *OtpService) SendCode(ctx context.Context, scope, email string) error {
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}

	if err := s.rds.SetPending(ctx, scope, email, code); err != nil {
		return err
	}

	html := pkg.OtpMailHTML(otpSubjects[scope], code, redis.OtpTTL)
	if err := pkg.SendEmail(s.smtp, email, "Your verification code", html); err != nil {
		return err
	}
	return nil
}

// Verify 比对验证码，通过后置"已验证"标记
func (s *OtpService) Verify(ctx context.Context, scope, email, code string) error {
	err := s.rds.Verify(ctx, scope, email, code)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.ErrOtpNotFound):
		return pkg.BadRequest("OTP not found or expired")
	case errors.Is(err, redis.ErrOtpMismatch):
		return pkg.BadRequest("OTP is incorrect")
	case errors.Is(err, redis.ErrOtpConfirmed):
		return pkg.BadRequest("OTP already verified")
	default:
		return err
	}
}

// IsVerified 注册/重置前的前置检查
func (s *OtpService) IsVerified(ctx context.Context, scope, email string) (bool, error) {
	return s.rds.IsConfirmed(ctx, scope, email)
}

// Consume 主流程完成后清掉标记，失败不影响结果
func (s *OtpService) Consume(ctx context.Context, scope, email string) {
	_ = s.rds.Consume(ctx, scope, email)
}
