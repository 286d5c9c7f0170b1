package service

import (
	"context"
	"errors"

	"campfire/internal/model"
	"campfire/internal/pkg"
	"campfire/internal/repository/mysql"

	"gorm.io/gorm"
)

type ChatService struct {
	messages *mysql.MessageRepository
	users    *mysql.UserRepository
}

func NewChatService() *ChatService {
	return &ChatService{
		messages: &mysql.MessageRepository{DB: mysql.DB},
		users:    &mysql.UserRepository{DB: mysql.DB},
	}
}

// ChatPerson 聊天对象的公开信息
type ChatPerson struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

type ChatData struct {
	Person   ChatPerson      `json:"person"`
	Messages []model.Message `json:"messages"`
}

func toChatPerson(u *model.User) ChatPerson {
	return ChatPerson{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
	}
}

// GetChat 拉取和某人的完整会话，时间正序
func (s *ChatService) GetChat(ctx context.Context, userID uint64, personName string) (*ChatData, error) {
	person, err := s.users.FindByUsername(personName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("User not found")
		}
		return nil, err
	}
	if person.ID == userID {
		return nil, pkg.BadRequest("You cannot chat with yourself")
	}

	msgs, err := s.messages.Conversation(ctx, userID, person.ID)
	if err != nil {
		return nil, err
	}
	return &ChatData{Person: toChatPerson(person), Messages: msgs}, nil
}

// GetChattedPeople 聊过天的人，按最近一条消息排序
func (s *ChatService) GetChattedPeople(ctx context.Context, userID uint64) ([]ChatPerson, error) {
	partnerIDs, err := s.messages.PartnerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	users, err := s.messages.FindUsers(ctx, partnerIDs)
	if err != nil {
		return nil, err
	}

	// FindUsers 不保证顺序，按最近聊天顺序重排
	byID := make(map[uint64]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	people := make([]ChatPerson, 0, len(partnerIDs))
	for _, id := range partnerIDs {
		if u, ok := byID[id]; ok {
			people = append(people, toChatPerson(u))
		}
	}
	return people, nil
}
