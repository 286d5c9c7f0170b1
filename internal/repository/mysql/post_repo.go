package mysql

import (
	"time"

	"campfire/internal/model"

	"gorm.io/gorm"
)

// 排序策略
const (
	SortRecent = "recent"
	SortWeek   = "week"
	SortMonth  = "month"
	SortTop    = "top" // 默认：全时段按净票数
)

// FeedLimit 所有列表接口的上限
const FeedLimit = 10

type PostRepository struct {
	DB *gorm.DB
}

// postRow 聚合查询的扫描目标，扁平结构，出仓库前转成 PostView
type postRow struct {
	ID                 uint64
	Title              string
	Type               string
	Body               string
	Images             string
	Video              string
	CommunityID        uint64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Upvotes            int64
	Downvotes          int64
	UserReaction       *string
	CommentCount       int64
	CreatorUsername    string
	CreatorDisplayName string
	CreatorAvatar      string
	CommunityName      string
	CommunityIcon      string
}

func (row *postRow) toView() model.PostView {
	v := model.PostView{
		ID:           row.ID,
		Title:        row.Title,
		Type:         row.Type,
		Body:         row.Body,
		Images:       model.DecodeImages(row.Images),
		Video:        row.Video,
		Upvotes:      row.Upvotes,
		Downvotes:    row.Downvotes,
		CommentCount: row.CommentCount,
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
	if row.CommunityID != 0 {
		v.Community = &model.CommunityRef{Name: row.CommunityName, Icon: row.CommunityIcon}
	}
	return v
}

func toViews(rows []postRow) []model.PostView {
	views := make([]model.PostView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].toView())
	}
	return views
}

// selectWithVotes 聚合基础查询：一条语句算出两类票数、当前用户的投票、
// 作者与社区信息和评论数，并过滤掉浏览者无权看的私有社区帖子
func (r *PostRepository) selectWithVotes(viewerID uint64) *gorm.DB {
	q := r.DB.Model(&model.Post{}).
		Select(`posts.id, posts.title, posts.type, posts.body, posts.images, posts.video,
			posts.community_id, posts.created_at, posts.updated_at,
			(SELECT COUNT(*) FROM reactions rc WHERE rc.target_type = 'post' AND rc.target_id = posts.id AND rc.reaction = 'upvote') AS upvotes,
			(SELECT COUNT(*) FROM reactions rc WHERE rc.target_type = 'post' AND rc.target_id = posts.id AND rc.reaction = 'downvote') AS downvotes,
			(SELECT rc.reaction FROM reactions rc WHERE rc.target_type = 'post' AND rc.target_id = posts.id AND rc.user_id = ?) AS user_reaction,
			(SELECT COUNT(*) FROM comments cm WHERE cm.post_id = posts.id) AS comment_count,
			u.username AS creator_username, u.display_name AS creator_display_name, u.avatar AS creator_avatar,
			c.name AS community_name, c.icon AS community_icon`, viewerID).
		Joins("LEFT JOIN users u ON u.id = posts.creator_id").
		Joins("LEFT JOIN communities c ON c.id = posts.community_id")

	// 私有社区可见性：无社区的帖子、非私有社区、或浏览者持有正式成员身份
	return q.Where(`posts.community_id = 0 OR c.type <> 'private'
		OR EXISTS (SELECT 1 FROM community_relations cr
			WHERE cr.community_id = posts.community_id AND cr.user_id = ? AND cr.role IN ('admin','moderator','member'))`, viewerID)
}

// applySort 排序策略：recent 按时间，week/month 先截窗口再按净票数，默认全时段净票数
func applySort(q *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortRecent:
		return q.Order("posts.created_at DESC, posts.id DESC")
	case SortWeek:
		return q.Where("posts.created_at >= ?", time.Now().AddDate(0, 0, -7)).
			Order("(upvotes - downvotes) DESC, posts.id DESC")
	case SortMonth:
		return q.Where("posts.created_at >= ?", time.Now().AddDate(0, -1, 0)).
			Order("(upvotes - downvotes) DESC, posts.id DESC")
	default:
		return q.Order("(upvotes - downvotes) DESC, posts.id DESC")
	}
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *PostRepository) CreateDraft(draft *model.Draft) error {
	return r.DB.Create(draft).Error
}

func (r *PostRepository) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.First(&post, id).Error
	return &post, err
}

func (r *PostRepository) Delete(id uint64) error {
	return r.DB.Delete(&model.Post{}, id).Error
}

// GetView 单帖详情（带聚合字段）
func (r *PostRepository) GetView(postID, viewerID uint64) (*model.PostView, error) {
	var row postRow
	err := r.selectWithVotes(viewerID).
		Where("posts.id = ?", postID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	v := row.toView()
	return &v, nil
}

// ListByCommunity 社区帖子列表
func (r *PostRepository) ListByCommunity(communityID, viewerID uint64, sort string) ([]model.PostView, error) {
	var rows []postRow
	q := r.selectWithVotes(viewerID).Where("posts.community_id = ?", communityID)
	err := applySort(q, sort).Limit(FeedLimit).Scan(&rows).Error
	return toViews(rows), err
}

// ListByCreator 某用户的帖子，时间倒序
func (r *PostRepository) ListByCreator(creatorID, viewerID uint64) ([]model.PostView, error) {
	var rows []postRow
	err := r.selectWithVotes(viewerID).
		Where("posts.creator_id = ?", creatorID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(FeedLimit).
		Scan(&rows).Error
	return toViews(rows), err
}

// Feed 登录用户的首页：加入的社区 ∪ 关注的人，时间倒序
func (r *PostRepository) Feed(viewerID uint64, communityIDs, followingIDs []uint64) ([]model.PostView, error) {
	if len(communityIDs) == 0 {
		communityIDs = []uint64{0} // 避免空 IN
	}
	if len(followingIDs) == 0 {
		followingIDs = []uint64{0}
	}
	var rows []postRow
	err := r.selectWithVotes(viewerID).
		Where("posts.community_id IN ? OR posts.creator_id IN ?", communityIDs, followingIDs).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(FeedLimit).
		Scan(&rows).Error
	return toViews(rows), err
}

// FeedAnonymous 未登录首页：最近一周按净票数
func (r *PostRepository) FeedAnonymous() ([]model.PostView, error) {
	var rows []postRow
	err := applySort(r.selectWithVotes(0), SortWeek).
		Limit(FeedLimit).
		Scan(&rows).Error
	return toViews(rows), err
}

// Search 标题模糊搜索
func (r *PostRepository) Search(q string, viewerID uint64) ([]model.PostView, error) {
	var rows []postRow
	err := r.selectWithVotes(viewerID).
		Where("posts.title LIKE ?", "%"+q+"%").
		Order("posts.created_at DESC, posts.id DESC").
		Limit(FeedLimit).
		Scan(&rows).Error
	return toViews(rows), err
}
