package handler

import (
	"net/http"

	"campfire/internal/middleware"
	"campfire/internal/model"
	"campfire/internal/pkg"
	"campfire/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicHandler 匿名可访问的读接口，带宽松认证：
// 登录用户能看到自己的投票状态和私有社区内容
type PublicHandler struct {
	posts       *service.PostService
	comments    *service.CommentService
	communities *service.CommunityService
	users       *service.UserService
}

func NewPublicHandler(posts *service.PostService, comments *service.CommentService, communities *service.CommunityService, users *service.UserService) *PublicHandler {
	return &PublicHandler{posts: posts, comments: comments, communities: communities, users: users}
}

// Feed 登录用户看订阅流，游客看最近一周的热帖
func (h *PublicHandler) Feed(c *gin.Context) {
	viewerID := middleware.UserID(c)

	var (
		list []model.PostView
		err  error
	)
	if viewerID == 0 {
		list, err = h.posts.FeedAnonymous()
	} else {
		list, err = h.posts.Feed(c.Request.Context(), viewerID)
	}
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Feed fetched!", list)
}

func (h *PublicHandler) GetPost(c *gin.Context) {
	id, ok := pathID(c, "postId")
	if !ok {
		return
	}
	view, err := h.posts.Get(id, middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Post fetched!", view)
}

func (h *PublicHandler) PostComments(c *gin.Context) {
	id, ok := pathID(c, "postId")
	if !ok {
		return
	}
	list, err := h.comments.ListByPost(id, middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Comments fetched!", list)
}

func (h *PublicHandler) CommentReplies(c *gin.Context) {
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	list, err := h.comments.ListReplies(id, middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Replies fetched!", list)
}

func (h *PublicHandler) GetCommunity(c *gin.Context) {
	community, role, err := h.communities.Get(c.Param("name"), middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Community fetched!", gin.H{
		"community": community,
		"role":      role,
	})
}

func (h *PublicHandler) CommunityPosts(c *gin.Context) {
	list, err := h.posts.ListByCommunity(c.Param("name"), middleware.UserID(c), c.Query("sort"))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Community posts fetched!", list)
}

func (h *PublicHandler) Communities(c *gin.Context) {
	list, err := h.communities.List()
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Communities fetched!", list)
}

func (h *PublicHandler) PopularCommunities(c *gin.Context) {
	list, err := h.communities.ListPopular()
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Popular communities fetched!", list)
}

func (h *PublicHandler) GetProfile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Param("username"))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Profile fetched!", user)
}

func (h *PublicHandler) ProfilePosts(c *gin.Context) {
	list, err := h.posts.ListByCreator(c.Param("username"), middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Profile posts fetched!", list)
}

func (h *PublicHandler) ProfileComments(c *gin.Context) {
	list, err := h.comments.ListByCreator(c.Param("username"), middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Profile comments fetched!", list)
}

// Search 帖子和社区一起搜
func (h *PublicHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		pkg.Respond(c, http.StatusBadRequest, "Search query is required", nil)
		return
	}

	posts, err := h.posts.Search(q, middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	communities, err := h.communities.Search(q)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Search results fetched!", gin.H{
		"posts":       posts,
		"communities": communities,
	})
}

func (h *PublicHandler) SearchUsers(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		pkg.Respond(c, http.StatusBadRequest, "Search query is required", nil)
		return
	}
	list, err := h.users.Search(q)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Search results fetched!", list)
}
