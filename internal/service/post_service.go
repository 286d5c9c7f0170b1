package service

import (
	"context"
	"errors"

	"campfire/internal/model"
	"campfire/internal/pkg"
	"campfire/internal/repository/mysql"

	"gorm.io/gorm"
)

type PostService struct {
	posts       *mysql.PostRepository
	reactions   *mysql.ReactionRepository
	relations   *mysql.RelationRepository
	follows     *mysql.FollowRepository
	communities *CommunityService
	users       *mysql.UserRepository
	notify      *NotificationService
}

func NewPostService(communities *CommunityService, notify *NotificationService) *PostService {
	return &PostService{
		posts:       &mysql.PostRepository{DB: mysql.DB},
		reactions:   &mysql.ReactionRepository{DB: mysql.DB},
		relations:   &mysql.RelationRepository{DB: mysql.DB},
		follows:     &mysql.FollowRepository{DB: mysql.DB},
		communities: communities,
		users:       &mysql.UserRepository{DB: mysql.DB},
		notify:      notify,
	}
}

// resolveTarget 发帖目标社区：空名字表示发到个人主页
func (s *PostService) resolveTarget(userID uint64, communityName string) (uint64, error) {
	if communityName == "" {
		return 0, nil
	}
	community, err := s.communities.Resolve(communityName)
	if err != nil {
		return 0, err
	}
	if err := s.communities.CanPost(community, userID); err != nil {
		return 0, err
	}
	return community.ID, nil
}

func (s *PostService) CreateText(userID uint64, title, body, communityName string) (*model.Post, error) {
	if title == "" {
		return nil, pkg.BadRequest("Title is required!")
	}
	communityID, err := s.resolveTarget(userID, communityName)
	if err != nil {
		return nil, err
	}
	post := &model.Post{
		Title:       title,
		Type:        model.PostText,
		Body:        body,
		CommunityID: communityID,
		CreatorID:   userID,
	}
	return post, s.posts.Create(post)
}

func (s *PostService) CreateMedia(userID uint64, title string, images []string, video, communityName string) (*model.Post, error) {
	if title == "" {
		return nil, pkg.BadRequest("Title is required!")
	}
	if len(images) == 0 && video == "" {
		return nil, pkg.BadRequest("Media post needs at least one image or a video")
	}
	communityID, err := s.resolveTarget(userID, communityName)
	if err != nil {
		return nil, err
	}
	post := &model.Post{
		Title:       title,
		Type:        model.PostMedia,
		Images:      model.EncodeImages(images),
		Video:       video,
		CommunityID: communityID,
		CreatorID:   userID,
	}
	return post, s.posts.Create(post)
}

func (s *PostService) SaveDraft(userID uint64, title, postType, body string) (*model.Draft, error) {
	if title == "" {
		return nil, pkg.BadRequest("Title is required!")
	}
	draft := &model.Draft{
		Title:     title,
		Type:      postType,
		Body:      body,
		CreatorID: userID,
	}
	return draft, s.posts.CreateDraft(draft)
}

// Delete 作者本人，或帖子所在社区的 admin/moderator
func (s *PostService) Delete(postID, userID uint64) error {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("Post not found")
		}
		return err
	}
	if post.CreatorID != userID {
		if post.CommunityID == 0 {
			return pkg.Forbidden("You cannot delete this post")
		}
		rel, err := s.relations.Find(post.CommunityID, userID)
		if err != nil || (rel.Role != model.RoleAdmin && rel.Role != model.RoleModerator) {
			return pkg.Forbidden("You cannot delete this post")
		}
	}
	return s.posts.Delete(postID)
}

// Get 可见性裁剪在聚合查询里做，查不到一律 404，不泄露私有社区帖子的存在
func (s *PostService) Get(postID, viewerID uint64) (*model.PostView, error) {
	view, err := s.posts.GetView(postID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("Post not found")
		}
		return nil, err
	}
	return view, nil
}

func (s *PostService) ListByCommunity(communityName string, viewerID uint64, sort string) ([]model.PostView, error) {
	community, err := s.communities.Resolve(communityName)
	if err != nil {
		return nil, err
	}
	if err := s.communities.CanView(community, viewerID); err != nil {
		return nil, err
	}
	return s.posts.ListByCommunity(community.ID, viewerID, sort)
}

func (s *PostService) ListByCreator(username string, viewerID uint64) ([]model.PostView, error) {
	creator, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("User not found")
		}
		return nil, err
	}
	return s.posts.ListByCreator(creator.ID, viewerID)
}

// Feed 登录首页：加入的社区 ∪ 关注的人
func (s *PostService) Feed(ctx context.Context, viewerID uint64) ([]model.PostView, error) {
	communityIDs, err := s.relations.JoinedCommunityIDs(viewerID)
	if err != nil {
		return nil, err
	}
	followingIDs, err := s.follows.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return s.posts.Feed(viewerID, communityIDs, followingIDs)
}

func (s *PostService) FeedAnonymous() ([]model.PostView, error) {
	return s.posts.FeedAnonymous()
}

func (s *PostService) Search(q string, viewerID uint64) ([]model.PostView, error) {
	return s.posts.Search(q, viewerID)
}

func validReaction(r string) bool {
	return r == model.ReactionUpvote || r == model.ReactionDownvote
}

// React 投票三态切换，落票后给作者发净票数通知（取消和给自己投不通知）
func (s *PostService) React(ctx context.Context, userID, postID uint64, reaction string) (string, error) {
	if !validReaction(reaction) {
		return "", pkg.BadRequest("Invalid reaction")
	}
	post, err := s.posts.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkg.NotFound("Post not found")
		}
		return "", err
	}

	result, err := s.reactions.Toggle(ctx, userID, model.TargetPost, postID, reaction)
	if err != nil {
		return "", err
	}

	if result != "" && post.CreatorID != userID {
		if votes, err := s.reactions.NetVotes(ctx, model.TargetPost, postID); err == nil {
			s.notify.NotifyVotes(post.CreatorID, votes, postID, false)
		}
	}
	return result, nil
}
