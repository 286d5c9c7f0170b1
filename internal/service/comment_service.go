package service

import (
	"context"
	"errors"

	"campfire/internal/model"
	"campfire/internal/pkg"
	"campfire/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommentService struct {
	comments  *mysql.CommentRepository
	posts     *mysql.PostRepository
	reactions *mysql.ReactionRepository
	users     *mysql.UserRepository
	notify    *NotificationService
}

func NewCommentService(notify *NotificationService) *CommentService {
	return &CommentService{
		comments:  &mysql.CommentRepository{DB: mysql.DB},
		posts:     &mysql.PostRepository{DB: mysql.DB},
		reactions: &mysql.ReactionRepository{DB: mysql.DB},
		users:     &mysql.UserRepository{DB: mysql.DB},
		notify:    notify,
	}
}

func (s *CommentService) findPost(postID uint64) (*model.Post, error) {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("Post not found")
		}
		return nil, err
	}
	return post, nil
}

func (s *CommentService) findComment(id uint64) (*model.Comment, error) {
	comment, err := s.comments.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("Comment not found")
		}
		return nil, err
	}
	return comment, nil
}

// Create 顶层评论通知帖主，回复通知被回复的评论作者
func (s *CommentService) Create(userID, postID, parentID uint64, body string) (*model.Comment, error) {
	if body == "" {
		return nil, pkg.BadRequest("Comment body is required!")
	}
	post, err := s.findPost(postID)
	if err != nil {
		return nil, err
	}

	notifyTarget := post.CreatorID
	isReply := false
	if parentID != 0 {
		parent, err := s.findComment(parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, pkg.BadRequest("Parent comment belongs to another post")
		}
		notifyTarget = parent.CreatorID
		isReply = true
	}

	comment := &model.Comment{
		Body:      body,
		CreatorID: userID,
		PostID:    postID,
		ParentID:  parentID,
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}

	if notifyTarget != userID {
		if commenter, err := s.users.FindByID(userID); err == nil {
			s.notify.NotifyComment(notifyTarget, commenter.Username, postID, isReply)
		}
	}
	return comment, nil
}

// Delete 只有评论作者本人能删
func (s *CommentService) Delete(commentID, userID uint64) error {
	comment, err := s.findComment(commentID)
	if err != nil {
		return err
	}
	if comment.CreatorID != userID {
		return pkg.Forbidden("You cannot delete this comment")
	}
	return s.comments.Delete(commentID)
}

func (s *CommentService) ListByPost(postID, viewerID uint64) ([]model.CommentView, error) {
	if _, err := s.findPost(postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(postID, viewerID)
}

func (s *CommentService) ListReplies(parentID, viewerID uint64) ([]model.CommentView, error) {
	if _, err := s.findComment(parentID); err != nil {
		return nil, err
	}
	return s.comments.ListReplies(parentID, viewerID)
}

func (s *CommentService) ListByCreator(username string, viewerID uint64) ([]model.CommentView, error) {
	creator, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("User not found")
		}
		return nil, err
	}
	return s.comments.ListByCreator(creator.ID, viewerID)
}

// React 和帖子投票同一套三态语义，通知链接仍指向所在帖子
func (s *CommentService) React(ctx context.Context, userID, commentID uint64, reaction string) (string, error) {
	if !validReaction(reaction) {
		return "", pkg.BadRequest("Invalid reaction")
	}
	comment, err := s.findComment(commentID)
	if err != nil {
		return "", err
	}

	result, err := s.reactions.Toggle(ctx, userID, model.TargetComment, commentID, reaction)
	if err != nil {
		return "", err
	}

	if result != "" && comment.CreatorID != userID {
		if votes, err := s.reactions.NetVotes(ctx, model.TargetComment, commentID); err == nil {
			s.notify.NotifyVotes(comment.CreatorID, votes, comment.PostID, true)
		}
	}
	return result, nil
}
