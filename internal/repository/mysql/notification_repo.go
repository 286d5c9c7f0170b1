package mysql

import (
	"campfire/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.DB.Create(n).Error
}

func (r *NotificationRepository) ListByUser(userID uint64) ([]model.Notification, error) {
	var list []model.Notification
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// MarkRead 限定 user_id 防止标记别人的通知
func (r *NotificationRepository) MarkRead(id, userID uint64) error {
	return r.DB.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(userID uint64) error {
	return r.DB.Model(&model.Notification{}).
		Where("user_id = ?", userID).
		Update("is_read", true).Error
}
