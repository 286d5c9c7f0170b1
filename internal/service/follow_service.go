package service

import (
	"context"
	"errors"

	"campfire/internal/pkg"
	"campfire/internal/repository/mysql"

	"gorm.io/gorm"
)

type FollowService struct {
	follows *mysql.FollowRepository
	users   *mysql.UserRepository
	notify  *NotificationService
}

func NewFollowService(notify *NotificationService) *FollowService {
	return &FollowService{
		follows: &mysql.FollowRepository{DB: mysql.DB},
		users:   &mysql.UserRepository{DB: mysql.DB},
		notify:  notify,
	}
}

func (s *FollowService) resolveTarget(username string) (uint64, error) {
	target, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkg.NotFound("User not found")
		}
		return 0, err
	}
	return target.ID, nil
}

// Follow 幂等：重复关注直接成功但不重发通知
func (s *FollowService) Follow(ctx context.Context, followerID uint64, username string) error {
	targetID, err := s.resolveTarget(username)
	if err != nil {
		return err
	}
	if targetID == followerID {
		return pkg.BadRequest("You cannot follow yourself")
	}

	created, err := s.follows.Follow(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if created {
		if follower, err := s.users.FindByID(followerID); err == nil {
			s.notify.NotifyFollow(targetID, follower.Username)
		}
	}
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID uint64, username string) error {
	targetID, err := s.resolveTarget(username)
	if err != nil {
		return err
	}
	return s.follows.Unfollow(ctx, followerID, targetID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID uint64, username string) (bool, error) {
	targetID, err := s.resolveTarget(username)
	if err != nil {
		return false, err
	}
	return s.follows.IsFollowing(ctx, followerID, targetID)
}
