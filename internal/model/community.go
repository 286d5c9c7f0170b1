package model

import "time"

// 社区可见性
const (
	CommunityPublic     = "public"
	CommunityRestricted = "restricted"
	CommunityPrivate    = "private"
)

// 社区内角色
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleMember    = "member"
	RolePending   = "pending"
	RoleFollower  = "follower"
)

type Community struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:64;not null" json:"name"`
	DisplayName string `gorm:"size:64;not null" json:"displayName"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:255" json:"icon"`
	Banner      string `gorm:"size:255" json:"banner"`
	Type        string `gorm:"size:16;not null;default:'public'" json:"type"`
	CreatorID   uint64 `gorm:"not null;index" json:"creatorId"`
	IsBanned    bool   `gorm:"not null;default:false" json:"isBanned"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CommunityRelation 用户与社区的关系，(community_id, user_id) 唯一
type CommunityRelation struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user" json:"communityId"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user" json:"userId"`
	Role        string `gorm:"size:16;not null" json:"role"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive pending 以外的关系才算生效（follower 也会进 feed）
func (r *CommunityRelation) IsActive() bool {
	return r.Role != RolePending
}

// IsMember 正式成员身份，follower 和 pending 都不算
func (r *CommunityRelation) IsMember() bool {
	return r.Role == RoleAdmin || r.Role == RoleModerator || r.Role == RoleMember
}
