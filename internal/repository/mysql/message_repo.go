package mysql

import (
	"context"

	"campfire/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.DB.WithContext(ctx).Create(msg).Error
}

// Conversation 两个人之间的全部消息，会话由消息双向查询推导，没有会话实体
func (r *MessageRepository) Conversation(ctx context.Context, a, b uint64) ([]model.Message, error) {
	var list []model.Message
	err := r.DB.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// PartnerIDs 跟当前用户聊过天的人，按最近消息排序去重
func (r *MessageRepository) PartnerIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var msgs []model.Message
	err := r.DB.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]bool)
	var partners []uint64
	for _, m := range msgs {
		other := m.SenderID
		if other == userID {
			other = m.ReceiverID
		}
		if !seen[other] {
			seen[other] = true
			partners = append(partners, other)
		}
	}
	return partners, nil
}

func (r *MessageRepository) FindUsers(ctx context.Context, ids []uint64) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}
