package mysql

import (
	"context"

	"campfire/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	DB *gorm.DB
}

// Follow 幂等插入，唯一索引挡掉并发重复；changed 表示本次是否真的新建
func (r *FollowRepository) Follow(ctx context.Context, followerID, followingID uint64) (bool, error) {
	tx := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
		DoNothing: true,
	}).Create(&model.Follow{FollowerID: followerID, FollowingID: followingID})
	return tx.RowsAffected > 0, tx.Error
}

func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followingID uint64) error {
	return r.DB.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{}).Error
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error
	return n > 0, err
}

// FollowingIDs feed 组装用
func (r *FollowRepository) FollowingIDs(ctx context.Context, followerID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	return ids, err
}
