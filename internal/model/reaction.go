package model

import "time"

const (
	ReactionUpvote   = "upvote"
	ReactionDownvote = "downvote"

	TargetPost    = "post"
	TargetComment = "comment"
)

// Reaction 投票记录，(user_id, target_type, target_id) 唯一，
// 同值重投=取消，反值重投=覆盖
type Reaction struct {
	ID         uint64 `gorm:"primaryKey" json:"id"`
	UserID     uint64 `gorm:"not null;uniqueIndex:uk_reaction_target" json:"userId"`
	TargetType string `gorm:"size:8;not null;uniqueIndex:uk_reaction_target" json:"targetType"`
	TargetID   uint64 `gorm:"not null;index;uniqueIndex:uk_reaction_target" json:"targetId"`
	Reaction   string `gorm:"size:8;not null" json:"reaction"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
