package model

import "time"

// Follow 关注关系，(follower_id, following_id) 唯一
type Follow struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	FollowerID  uint64 `gorm:"not null;index;uniqueIndex:uk_follow_pair" json:"followerId"`
	FollowingID uint64 `gorm:"not null;index;uniqueIndex:uk_follow_pair" json:"followingId"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Follow) TableName() string { return "follows" }
