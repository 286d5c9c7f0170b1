package handler

import (
	"context"
	"net/http"

	"campfire/internal/middleware"
	"campfire/internal/pkg"
	"campfire/internal/service"
	"campfire/internal/storage"

	"github.com/gin-gonic/gin"
)

const maxCommunityImageSize = 8 << 20

type CommunityHandler struct {
	communities *service.CommunityService
	store       storage.Storage
}

func NewCommunityHandler(communities *service.CommunityService, store storage.Storage) *CommunityHandler {
	return &CommunityHandler{communities: communities, store: store}
}

// Create multipart 表单：name、description、type 加可选的 icon/banner 图；
// 图传了但建区失败时回滚已传对象
func (h *CommunityHandler) Create(c *gin.Context) {
	name := c.PostForm("name")
	description := c.PostForm("description")
	ctype := c.PostForm("type")

	ctx := c.Request.Context()
	var uploaded []string
	rollback := func() {
		for _, obj := range uploaded {
			_ = h.store.Delete(context.Background(), obj)
		}
	}

	upload := func(field string) (string, bool) {
		file, err := c.FormFile(field)
		if err != nil {
			return "", true // 可选字段，没传不算错
		}
		if file.Size > maxCommunityImageSize {
			pkg.Respond(c, http.StatusBadRequest, "Image is too large", nil)
			return "", false
		}
		src, err := file.Open()
		if err != nil {
			pkg.WriteError(c, err)
			return "", false
		}
		defer src.Close()
		obj, url, err := h.store.Upload(ctx, "communities", file.Filename, src, file.Size)
		if err != nil {
			pkg.WriteError(c, err)
			return "", false
		}
		uploaded = append(uploaded, obj)
		return url, true
	}

	icon, ok := upload("icon")
	if !ok {
		rollback()
		return
	}
	banner, ok := upload("banner")
	if !ok {
		rollback()
		return
	}

	community, err := h.communities.Create(middleware.UserID(c), name, description, ctype, icon, banner)
	if err != nil {
		rollback()
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusCreated, "Community created!", community)
}

// CheckName 建区前查名字占用
func (h *CommunityHandler) CheckName(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		pkg.Respond(c, http.StatusBadRequest, "Community name is required!", nil)
		return
	}
	taken, err := h.communities.CheckName(name)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Name checked", gin.H{"taken": taken})
}

func (h *CommunityHandler) Joined(c *gin.Context) {
	list, err := h.communities.Joined(middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Joined communities fetched!", list)
}

type communityNameReq struct {
	Name string `json:"name" binding:"required"`
}

// Join 返回落库的角色，前端据此区分"已加入"和"等待审批"
func (h *CommunityHandler) Join(c *gin.Context) {
	var req communityNameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Community name is required!", nil)
		return
	}
	role, err := h.communities.Join(middleware.UserID(c), req.Name)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Join request processed!", gin.H{"role": role})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	var req communityNameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Community name is required!", nil)
		return
	}
	if err := h.communities.Leave(middleware.UserID(c), req.Name); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Left community!", nil)
}

func (h *CommunityHandler) CancelRequest(c *gin.Context) {
	var req communityNameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Community name is required!", nil)
		return
	}
	if err := h.communities.CancelRequest(middleware.UserID(c), req.Name); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Join request cancelled!", nil)
}

// Follow 关注不加入，帖子进 feed
func (h *CommunityHandler) Follow(c *gin.Context) {
	var req communityNameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Community name is required!", nil)
		return
	}
	if err := h.communities.FollowCommunity(middleware.UserID(c), req.Name); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Community followed!", nil)
}

func (h *CommunityHandler) Unfollow(c *gin.Context) {
	var req communityNameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Community name is required!", nil)
		return
	}
	if err := h.communities.UnfollowCommunity(middleware.UserID(c), req.Name); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Community unfollowed!", nil)
}

// Members 成员列表，私区仍受浏览门禁约束
func (h *CommunityHandler) Members(c *gin.Context) {
	list, err := h.communities.Members(c.Param("name"), middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Members fetched!", list)
}

func (h *CommunityHandler) PendingCount(c *gin.Context) {
	count, err := h.communities.PendingCount(c.Param("name"), middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Pending count fetched!", gin.H{"count": count})
}

func (h *CommunityHandler) memberAction(c *gin.Context, action func(name string, actorID uint64, username string) error, okMsg string) {
	if err := action(c.Param("name"), middleware.UserID(c), c.Param("username")); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, okMsg, nil)
}

func (h *CommunityHandler) Accept(c *gin.Context) {
	h.memberAction(c, h.communities.Accept, "Member accepted!")
}

func (h *CommunityHandler) Reject(c *gin.Context) {
	h.memberAction(c, h.communities.Reject, "Request rejected!")
}

func (h *CommunityHandler) Promote(c *gin.Context) {
	h.memberAction(c, h.communities.Promote, "Member promoted!")
}

func (h *CommunityHandler) Demote(c *gin.Context) {
	h.memberAction(c, h.communities.Demote, "Moderator demoted!")
}

func (h *CommunityHandler) Kick(c *gin.Context) {
	h.memberAction(c, h.communities.Kick, "Member kicked!")
}

type settingReq struct {
	Value string `json:"value" binding:"required"`
}

func (h *CommunityHandler) updateSetting(c *gin.Context, field, okMsg string) {
	var req settingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Value is required", nil)
		return
	}
	if err := h.communities.UpdateSetting(c.Param("name"), middleware.UserID(c), field, req.Value); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, okMsg, nil)
}

func (h *CommunityHandler) UpdateDisplayName(c *gin.Context) {
	h.updateSetting(c, "display_name", "Display name updated!")
}

func (h *CommunityHandler) UpdateDescription(c *gin.Context) {
	h.updateSetting(c, "description", "Description updated!")
}

func (h *CommunityHandler) UpdateType(c *gin.Context) {
	h.updateSetting(c, "type", "Community type updated!")
}

// updateImage icon/banner 走 multipart。先过门禁再上传，
// 被拒的请求不能留下孤儿对象；落库失败时回滚已传对象
func (h *CommunityHandler) updateImage(c *gin.Context, field, column, okMsg string) {
	if _, err := h.communities.RequireModerator(c.Param("name"), middleware.UserID(c)); err != nil {
		pkg.WriteError(c, err)
		return
	}

	file, err := c.FormFile(field)
	if err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Image file is required", nil)
		return
	}
	if file.Size > maxCommunityImageSize {
		pkg.Respond(c, http.StatusBadRequest, "Image is too large", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	defer src.Close()

	obj, url, err := h.store.Upload(c.Request.Context(), "communities", file.Filename, src, file.Size)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	if err := h.communities.UpdateSetting(c.Param("name"), middleware.UserID(c), column, url); err != nil {
		_ = h.store.Delete(context.Background(), obj)
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, okMsg, gin.H{column: url})
}

func (h *CommunityHandler) UpdateIcon(c *gin.Context) {
	h.updateImage(c, "icon", "icon", "Icon updated!")
}

func (h *CommunityHandler) UpdateBanner(c *gin.Context) {
	h.updateImage(c, "banner", "banner", "Banner updated!")
}
