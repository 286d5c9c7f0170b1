package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"campfire/internal/model"
	"campfire/internal/pkg"
	"campfire/internal/repository/mysql"
)

type notificationStore interface {
	Create(n *model.Notification) error
	ListByUser(userID uint64) ([]model.Notification, error)
	MarkRead(id, userID uint64) error
	MarkAllRead(userID uint64) error
}

// pusher 实时推送面，realtime.Hub 满足
type pusher interface {
	PushNotification(userID uint64, n *model.Notification)
}

// NotificationService 通知三路出口：落库、websocket 推送、kafka 事件。
// 通知是副作用，任何一路失败只记日志，不影响主流程
type NotificationService struct {
	repo     notificationStore
	hub      pusher
	producer *pkg.KafkaProducer
}

func NewNotificationService(hub pusher, producer *pkg.KafkaProducer) *NotificationService {
	return &NotificationService{
		repo:     &mysql.NotificationRepository{DB: mysql.DB},
		hub:      hub,
		producer: producer,
	}
}

func (s *NotificationService) dispatch(n *model.Notification) {
	if err := s.repo.Create(n); err != nil {
		log.Printf("notification create failed: %v", err)
		return
	}
	if s.hub != nil {
		s.hub.PushNotification(n.UserID, n)
	}
	if payload, err := json.Marshal(n); err == nil {
		if err := s.producer.Send(context.Background(), n.UserID, payload); err != nil {
			log.Printf("notification kafka send failed: %v", err)
		}
	}
}

// NotifyComment 评论通知发给被评论对象的作者；回复评论时措辞不同
func (s *NotificationService) NotifyComment(ownerID uint64, commenterUsername string, postID uint64, isReply bool) {
	target := "post"
	if isReply {
		target = "comment"
	}
	s.dispatch(&model.Notification{
		UserID:  ownerID,
		Type:    model.NotifyComment,
		Message: fmt.Sprintf("%s commented on your %s!", commenterUsername, target),
		Link:    fmt.Sprintf("/post/%d", postID),
	})
}

// NotifyVotes 投票通知带上当前净票数
func (s *NotificationService) NotifyVotes(ownerID uint64, votes int64, postID uint64, isComment bool) {
	target := "post"
	if isComment {
		target = "comment"
	}
	s.dispatch(&model.Notification{
		UserID:  ownerID,
		Type:    model.NotifyLike,
		Message: fmt.Sprintf("You got %d votes on your %s!", votes, target),
		Link:    fmt.Sprintf("/post/%d", postID),
	})
}

func (s *NotificationService) NotifyFollow(targetID uint64, followerUsername string) {
	s.dispatch(&model.Notification{
		UserID:  targetID,
		Type:    model.NotifyFollow,
		Message: fmt.Sprintf("%s started following you", followerUsername),
		Link:    fmt.Sprintf("/u/%s", followerUsername),
	})
}

func (s *NotificationService) List(userID uint64) ([]model.Notification, error) {
	return s.repo.ListByUser(userID)
}

func (s *NotificationService) MarkRead(id, userID uint64) error {
	return s.repo.MarkRead(id, userID)
}

func (s *NotificationService) MarkAllRead(userID uint64) error {
	return s.repo.MarkAllRead(userID)
}
