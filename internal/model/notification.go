package model

import "time"

const (
	NotifyLike    = "like"
	NotifyComment = "comment"
	NotifyFollow  = "follow"
)

type Notification struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"userId"`
	Type      string    `gorm:"size:16;not null" json:"type"`
	Message   string    `gorm:"size:255;not null" json:"message"`
	Link      string    `gorm:"size:255;not null" json:"link"`
	IsRead    bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

type Message struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	SenderID   uint64    `gorm:"not null;index" json:"senderId"`
	ReceiverID uint64    `gorm:"not null;index" json:"receiverId"`
	Body       string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"-"`
}
