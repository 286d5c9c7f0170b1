package model

import "time"

type User struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	Username    string `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Email       string `gorm:"uniqueIndex;size:64;not null" json:"email"`
	Password    string `gorm:"size:255;not null" json:"-"`
	DisplayName string `gorm:"size:64;not null" json:"displayName"`
	About       string `gorm:"type:text" json:"about"`
	Avatar      string `gorm:"size:255" json:"avatar"`
	Banner      string `gorm:"size:255" json:"banner"`
	IsBanned    bool   `gorm:"not null;default:false" json:"isBanned"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DeletedUser 注销用户归档表，删除账号时整行搬过来
type DeletedUser struct {
	ID          uint64 `gorm:"primaryKey"`
	UserID      uint64 `gorm:"not null;index"`
	Username    string `gorm:"size:32;not null"`
	Email       string `gorm:"size:64;not null"`
	Password    string `gorm:"size:255;not null"`
	DisplayName string `gorm:"size:64"`
	About       string `gorm:"type:text"`
	Avatar      string `gorm:"size:255"`
	Banner      string `gorm:"size:255"`
	DeletedAt   time.Time
}

func (DeletedUser) TableName() string { return "deleted_users" }
