package handler

import (
	"net/http"

	"campfire/internal/middleware"
	"campfire/internal/pkg"
	"campfire/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type createCommentReq struct {
	PostID   uint64 `json:"postId" binding:"required"`
	ParentID uint64 `json:"parentId"`
	Body     string `json:"body" binding:"required,max=5000"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Comment body is required!", nil)
		return
	}
	comment, err := h.comments.Create(middleware.UserID(c), req.PostID, req.ParentID, req.Body)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusCreated, "Comment created!", comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	if err := h.comments.Delete(id, middleware.UserID(c)); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Comment deleted!", nil)
}

type reactCommentReq struct {
	CommentID uint64 `json:"commentId" binding:"required"`
	Reaction  string `json:"reaction" binding:"required,oneof=upvote downvote"`
}

func (h *CommentHandler) React(c *gin.Context) {
	var req reactCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Invalid reaction", nil)
		return
	}
	result, err := h.comments.React(c.Request.Context(), middleware.UserID(c), req.CommentID, req.Reaction)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Reaction saved!", gin.H{"reaction": result})
}
