package mysql

import (
	"campfire/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RelationRepository struct {
	DB *gorm.DB
}

// MemberRow 成员列表行
type MemberRow struct {
	UserID      uint64 `json:"userId"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	Role        string `json:"role"`
}

// Create 幂等插入：(community_id, user_id) 冲突时不报错，
// 返回本次是否真的新建了关系
func (r *RelationRepository) Create(rel *model.CommunityRelation) (bool, error) {
	tx := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(rel)
	return tx.RowsAffected > 0, tx.Error
}

func (r *RelationRepository) Find(communityID, userID uint64) (*model.CommunityRelation, error) {
	var rel model.CommunityRelation
	err := r.DB.Where("community_id = ? AND user_id = ?", communityID, userID).First(&rel).Error
	return &rel, err
}

func (r *RelationRepository) UpdateRole(communityID, userID uint64, role string) error {
	return r.DB.Model(&model.CommunityRelation{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Update("role", role).Error
}

// Delete 幂等删除
func (r *RelationRepository) Delete(communityID, userID uint64) error {
	return r.DB.Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&model.CommunityRelation{}).Error
}

// ListJoined 用户加入的社区（含 pending 之外的所有角色）
func (r *RelationRepository) ListJoined(userID uint64) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.Model(&model.Community{}).
		Joins("JOIN community_relations cr ON cr.community_id = communities.id").
		Where("cr.user_id = ? AND cr.role <> ?", userID, model.RolePending).
		Find(&list).Error
	return list, err
}

// JoinedCommunityIDs 喂给 feed 查询用
func (r *RelationRepository) JoinedCommunityIDs(userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.Model(&model.CommunityRelation{}).
		Where("user_id = ? AND role <> ?", userID, model.RolePending).
		Pluck("community_id", &ids).Error
	return ids, err
}

// ListMembers 只列正式成员，follower 和 pending 不在内
func (r *RelationRepository) ListMembers(communityID uint64) ([]MemberRow, error) {
	var rows []MemberRow
	err := r.DB.Model(&model.CommunityRelation{}).
		Select("community_relations.user_id, users.username, users.display_name, users.avatar, community_relations.role").
		Joins("JOIN users ON users.id = community_relations.user_id").
		Where("community_relations.community_id = ? AND community_relations.role IN ?",
			communityID, []string{model.RoleAdmin, model.RoleModerator, model.RoleMember}).
		Find(&rows).Error
	return rows, err
}

func (r *RelationRepository) CountPending(communityID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.CommunityRelation{}).
		Where("community_id = ? AND role = ?", communityID, model.RolePending).
		Count(&n).Error
	return n, err
}
