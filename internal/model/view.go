package model

import (
	"encoding/json"
	"time"
)

// UserRef 列表里内嵌的作者信息
type UserRef struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// CommunityRef 列表里内嵌的社区信息
type CommunityRef struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// PostView 聚合后的帖子：票数、当前用户的投票、作者与社区信息、评论数
type PostView struct {
	ID           uint64        `json:"id"`
	Title        string        `json:"title"`
	Type         string        `json:"type"`
	Body         string        `json:"body,omitempty"`
	Images       []string      `json:"images,omitempty"`
	Video        string        `json:"video,omitempty"`
	Upvotes      int64         `json:"upvotes"`
	Downvotes    int64         `json:"downvotes"`
	UserReaction string        `json:"userReaction,omitempty"`
	CommentCount int64         `json:"commentCount"`
	Creator      UserRef       `json:"creator"`
	Community    *CommunityRef `json:"community,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// CommentView 聚合后的评论
type CommentView struct {
	ID           uint64    `json:"id"`
	Body         string    `json:"body"`
	PostID       uint64    `json:"postId"`
	ParentID     uint64    `json:"parentId,omitempty"`
	Upvotes      int64     `json:"upvotes"`
	Downvotes    int64     `json:"downvotes"`
	UserReaction string    `json:"userReaction,omitempty"`
	Creator      UserRef   `json:"creator"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DecodeImages images 列存的是 JSON 数组
func DecodeImages(raw string) []string {
	if raw == "" {
		return nil
	}
	var imgs []string
	if err := json.Unmarshal([]byte(raw), &imgs); err != nil {
		return nil
	}
	return imgs
}

func EncodeImages(imgs []string) string {
	if len(imgs) == 0 {
		return ""
	}
	b, err := json.Marshal(imgs)
	if err != nil {
		return ""
	}
	return string(b)
}
