package service

import (
	"context"
	"errors"

	"campfire/internal/model"
	"campfire/internal/pkg"
	"campfire/internal/repository/mysql"
	"campfire/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type UserService struct {
	repo *mysql.UserRepository
	otp  *OtpService
}

func NewUserService(otp *OtpService) *UserService {
	return &UserService{
		repo: &mysql.UserRepository{DB: mysql.DB},
		otp:  otp,
	}
}

// Register 注册前置条件：用户名/邮箱未占用，且邮箱验证码已验证
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if taken, err := s.repo.UsernameExists(username); err != nil {
		return nil, err
	} else if taken {
		return nil, pkg.BadRequest("Username already exists")
	}
	if taken, err := s.repo.EmailExists(email); err != nil {
		return nil, err
	} else if taken {
		return nil, pkg.BadRequest("Email already exists")
	}

	verified, err := s.otp.IsVerified(ctx, redis.ScopeRegister, email)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, pkg.BadRequest("Email not verified")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:    username,
		Email:       email,
		Password:    string(hash),
		DisplayName: username, // 默认取用户名
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	s.otp.Consume(ctx, redis.ScopeRegister, email)
	return user, nil
}

// Login 邮箱或用户名均可登录
func (s *UserService) Login(login, password string) (*model.User, error) {
	user, err := s.repo.FindByLogin(login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.BadRequest("User not found!")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.BadRequest("Password is incorrect!")
	}
	return user, nil
}

func (s *UserService) FindByID(id uint64) (*model.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetProfile(username string) (*model.User, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateDisplayName(userID uint64, displayName string) error {
	return s.repo.UpdateFields(userID, map[string]any{"display_name": displayName})
}

func (s *UserService) UpdateAbout(userID uint64, about string) error {
	return s.repo.UpdateFields(userID, map[string]any{"about": about})
}

func (s *UserService) UpdateAvatar(userID uint64, url string) error {
	return s.repo.UpdateFields(userID, map[string]any{"avatar": url})
}

func (s *UserService) UpdateBanner(userID uint64, url string) error {
	return s.repo.UpdateFields(userID, map[string]any{"banner": url})
}

// ChangePassword 登录态修改密码，要求旧密码正确
func (s *UserService) ChangePassword(userID uint64, currentPassword, newPassword string) error {
	user, err := s.FindByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		return pkg.BadRequest("Invalid password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(user, string(hash))
}

// ResetPassword 忘记密码：凭已验证的邮箱验证码重置
func (s *UserService) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.BadRequest("User not found")
		}
		return err
	}

	verified, err := s.otp.IsVerified(ctx, redis.ScopeReset, email)
	if err != nil {
		return err
	}
	if !verified {
		return pkg.BadRequest("Email not verified")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(user, string(hash)); err != nil {
		return err
	}
	s.otp.Consume(ctx, redis.ScopeReset, email)
	return nil
}

// DeleteAccount 活表删除 + 归档，同一事务
func (s *UserService) DeleteAccount(userID uint64) error {
	if err := s.repo.DeleteAndArchive(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("User not found")
		}
		return err
	}
	return nil
}

func (s *UserService) Search(q string) ([]model.User, error) {
	return s.repo.SearchByUsername(q, mysql.FeedLimit)
}

// EmailFree 发注册验证码前检查邮箱是否已被占用
func (s *UserService) EmailFree(email string) error {
	taken, err := s.repo.EmailExists(email)
	if err != nil {
		return err
	}
	if taken {
		return pkg.BadRequest("Email already exists, Please login")
	}
	return nil
}

// EmailRegistered 发重置验证码前要求邮箱存在
func (s *UserService) EmailRegistered(email string) error {
	taken, err := s.repo.EmailExists(email)
	if err != nil {
		return err
	}
	if !taken {
		return pkg.BadRequest("User not found")
	}
	return nil
}
