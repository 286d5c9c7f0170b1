package mysql

import (
	"context"
	"errors"

	"campfire/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactionRepository struct {
	DB *gorm.DB
}

// Toggle 投票三态：无记录则创建，同值则删除（取消），反值则覆盖。
// select for update 避免并发下双写，result 为落库后的状态（"" 表示已取消）
func (r *ReactionRepository) Toggle(ctx context.Context, userID uint64, targetType string, targetID uint64, reaction string) (result string, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Reaction
		findErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
			First(&existing).Error

		if findErr != nil {
			if !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return findErr
			}
			// 唯一索引兜底并发的重复插入
			created := model.Reaction{
				UserID:     userID,
				TargetType: targetType,
				TargetID:   targetID,
				Reaction:   reaction,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_type"}, {Name: "target_id"}},
				DoUpdates: clause.Assignments(map[string]any{"reaction": reaction}),
			}).Create(&created).Error; err != nil {
				return err
			}
			result = reaction
			return nil
		}

		if existing.Reaction == reaction {
			result = ""
			return tx.Delete(&existing).Error
		}
		result = reaction
		return tx.Model(&existing).Update("reaction", reaction).Error
	})
	return result, err
}

// NetVotes 一次分组统计出净票数，替代两次 COUNT
func (r *ReactionRepository) NetVotes(ctx context.Context, targetType string, targetID uint64) (int64, error) {
	var net int64
	err := r.DB.WithContext(ctx).Model(&model.Reaction{}).
		Select("COALESCE(SUM(CASE WHEN reaction = 'upvote' THEN 1 WHEN reaction = 'downvote' THEN -1 ELSE 0 END), 0)").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Scan(&net).Error
	return net, err
}
