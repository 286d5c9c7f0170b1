package mysql

import (
	"campfire/internal/model"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create 建社区并让创建者成为 admin，同一事务
func (r *CommunityRepository) Create(c *model.Community) (*model.Community, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		rel := &model.CommunityRelation{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
			Role:        model.RoleAdmin,
		}
		return tx.Create(rel).Error
	})
	return c, err
}

func (r *CommunityRepository) FindByName(name string) (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("name = ?", name).First(&community).Error
	return &community, err
}

func (r *CommunityRepository) FindByID(id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) NameExists(name string) (bool, error) {
	var n int64
	err := r.DB.Model(&model.Community{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}

func (r *CommunityRepository) List(limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.Order("id desc").Limit(limit).Find(&list).Error
	return list, err
}

// ListPopular 按成员数排序
func (r *CommunityRepository) ListPopular(limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.
		Select("communities.*").
		Joins("LEFT JOIN community_relations cr ON cr.community_id = communities.id AND cr.role <> ?", model.RolePending).
		Group("communities.id").
		Order("COUNT(cr.id) DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *CommunityRepository) Search(q string, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.
		Where("name LIKE ? OR display_name LIKE ?", "%"+q+"%", "%"+q+"%").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// UpdateFields 社区设置变更
func (r *CommunityRepository) UpdateFields(id uint64, fields map[string]any) error {
	return r.DB.Model(&model.Community{}).Where("id = ?", id).Updates(fields).Error
}
