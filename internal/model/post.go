package model

import "time"

const (
	PostText  = "text"
	PostMedia = "media"
)

type Post struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:300;not null" json:"title"`
	Type        string    `gorm:"size:8;not null" json:"type"`
	Body        string    `gorm:"type:text" json:"body"`
	Images      string    `gorm:"type:json" json:"images,omitempty"` // JSON 数组，media 帖才有
	Video       string    `gorm:"size:255" json:"video,omitempty"`
	CommunityID uint64    `gorm:"index" json:"communityId,omitempty"` // 0 表示不属于任何社区
	CreatorID   uint64    `gorm:"not null;index:idx_creator_time" json:"creatorId"`
	CreatedAt   time.Time `gorm:"index:idx_creator_time" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Draft 草稿和帖子同构，落在单独的表里
type Draft struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"size:300;not null" json:"title"`
	Type      string `gorm:"size:8;not null" json:"type"`
	Body      string `gorm:"type:text" json:"body"`
	CreatorID uint64 `gorm:"not null;index" json:"creatorId"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Draft) TableName() string { return "drafts" }

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatorID uint64    `gorm:"not null;index" json:"creatorId"`
	PostID    uint64    `gorm:"not null;index" json:"postId"`
	ParentID  uint64    `gorm:"index" json:"parentId,omitempty"` // 0 表示顶层评论
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
