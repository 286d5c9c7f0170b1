package mysql

import (
	"time"

	"campfire/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

type commentRow struct {
	ID                 uint64
	Body               string
	PostID             uint64
	ParentID           uint64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Upvotes            int64
	Downvotes          int64
	UserReaction       *string
	CreatorUsername    string
	CreatorDisplayName string
	CreatorAvatar      string
}

func (row *commentRow) toView() model.CommentView {
	v := model.CommentView{
		ID:        row.ID,
		Body:      row.Body,
		PostID:    row.PostID,
		ParentID:  row.ParentID,
		Upvotes:   row.Upvotes,
		Downvotes: row.Downvotes,
		Creator: model.UserRef{
			Username:    row.CreatorUsername,
			DisplayName: row.CreatorDisplayName,
			Avatar:      row.CreatorAvatar,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.UserReaction != nil {
		v.UserReaction = *row.UserReaction
	}
	return v
}

// selectWithVotes 评论聚合：票数 + 当前用户投票 + 作者信息
func (r *CommentRepository) selectWithVotes(viewerID uint64) *gorm.DB {
	return r.DB.Model(&model.Comment{}).
		Select(`comments.id, comments.body, comments.post_id, comments.parent_id,
			comments.created_at, comments.updated_at,
			(SELECT COUNT(*) FROM reactions rc WHERE rc.target_type = 'comment' AND rc.target_id = comments.id AND rc.reaction = 'upvote') AS upvotes,
			(SELECT COUNT(*) FROM reactions rc WHERE rc.target_type = 'comment' AND rc.target_id = comments.id AND rc.reaction = 'downvote') AS downvotes,
			(SELECT rc.reaction FROM reactions rc WHERE rc.target_type = 'comment' AND rc.target_id = comments.id AND rc.user_id = ?) AS user_reaction,
			u.username AS creator_username, u.display_name AS creator_display_name, u.avatar AS creator_avatar`, viewerID).
		Joins("LEFT JOIN users u ON u.id = comments.creator_id")
}

func (r *CommentRepository) scanViews(q *gorm.DB) ([]model.CommentView, error) {
	var rows []commentRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]model.CommentView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].toView())
	}
	return views, nil
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.DB.Create(comment).Error
}

func (r *CommentRepository) FindByID(id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.First(&comment, id).Error
	return &comment, err
}

func (r *CommentRepository) Delete(id uint64) error {
	return r.DB.Delete(&model.Comment{}, id).Error
}

// ListByPost 帖子的顶层评论，时间倒序
func (r *CommentRepository) ListByPost(postID, viewerID uint64) ([]model.CommentView, error) {
	return r.scanViews(r.selectWithVotes(viewerID).
		Where("comments.post_id = ? AND comments.parent_id = 0", postID).
		Order("comments.created_at DESC, comments.id DESC").
		Limit(FeedLimit))
}

// ListReplies 某条评论的回复
func (r *CommentRepository) ListReplies(parentID, viewerID uint64) ([]model.CommentView, error) {
	return r.scanViews(r.selectWithVotes(viewerID).
		Where("comments.parent_id = ?", parentID).
		Order("comments.created_at ASC, comments.id ASC").
		Limit(FeedLimit))
}

// ListByCreator 某用户发过的评论
func (r *CommentRepository) ListByCreator(creatorID, viewerID uint64) ([]model.CommentView, error) {
	return r.scanViews(r.selectWithVotes(viewerID).
		Where("comments.creator_id = ?", creatorID).
		Order("comments.created_at DESC, comments.id DESC").
		Limit(FeedLimit))
}
