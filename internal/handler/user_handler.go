package handler

import (
	"net/http"

	"campfire/internal/middleware"
	"campfire/internal/pkg"
	"campfire/internal/service"
	"campfire/internal/storage"

	"github.com/gin-gonic/gin"
)

// 头像 8MB，横幅 12MB
const (
	maxAvatarSize = 8 << 20
	maxBannerSize = 12 << 20
)

type UserHandler struct {
	users         *service.UserService
	follows       *service.FollowService
	notifications *service.NotificationService
	store         storage.Storage
}

func NewUserHandler(users *service.UserService, follows *service.FollowService, notifications *service.NotificationService, store storage.Storage) *UserHandler {
	return &UserHandler{users: users, follows: follows, notifications: notifications, store: store}
}

// Hydrate 前端启动时拉当前用户
func (h *UserHandler) Hydrate(c *gin.Context) {
	user, err := h.users.FindByID(middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "User hydrated!", user)
}

// SocketTicket 换取 websocket 一次性凭证
func (h *UserHandler) SocketTicket(c *gin.Context) {
	ticket, err := pkg.NewSocketTicket(middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Socket ticket issued", gin.H{"ticket": ticket})
}

type displayNameReq struct {
	DisplayName string `json:"displayName" binding:"required,max=40"`
}

func (h *UserHandler) UpdateDisplayName(c *gin.Context) {
	var req displayNameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Display name is required", nil)
		return
	}
	if err := h.users.UpdateDisplayName(middleware.UserID(c), req.DisplayName); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Display name updated!", nil)
}

type aboutReq struct {
	About string `json:"about" binding:"max=300"`
}

func (h *UserHandler) UpdateAbout(c *gin.Context) {
	var req aboutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "About is too long", nil)
		return
	}
	if err := h.users.UpdateAbout(middleware.UserID(c), req.About); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "About updated!", nil)
}

// uploadImage 表单字段 → 对象存储，返回可访问的 URL
func (h *UserHandler) uploadImage(c *gin.Context, field, folder string, maxSize int64) (string, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Image file is required", nil)
		return "", false
	}
	if file.Size > maxSize {
		pkg.Respond(c, http.StatusBadRequest, "Image is too large", nil)
		return "", false
	}
	src, err := file.Open()
	if err != nil {
		pkg.WriteError(c, err)
		return "", false
	}
	defer src.Close()

	_, url, err := h.store.Upload(c.Request.Context(), folder, file.Filename, src, file.Size)
	if err != nil {
		pkg.WriteError(c, err)
		return "", false
	}
	return url, true
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	url, ok := h.uploadImage(c, "avatar", "avatars", maxAvatarSize)
	if !ok {
		return
	}
	if err := h.users.UpdateAvatar(middleware.UserID(c), url); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Avatar updated!", gin.H{"avatar": url})
}

func (h *UserHandler) UpdateBanner(c *gin.Context) {
	url, ok := h.uploadImage(c, "banner", "banners", maxBannerSize)
	if !ok {
		return
	}
	if err := h.users.UpdateBanner(middleware.UserID(c), url); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Banner updated!", gin.H{"banner": url})
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Current and new password are required", nil)
		return
	}
	if err := h.users.ChangePassword(middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Password changed!", nil)
}

func (h *UserHandler) Follow(c *gin.Context) {
	if err := h.follows.Follow(c.Request.Context(), middleware.UserID(c), c.Param("username")); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Followed!", nil)
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	if err := h.follows.Unfollow(c.Request.Context(), middleware.UserID(c), c.Param("username")); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Unfollowed!", nil)
}

func (h *UserHandler) Notifications(c *gin.Context) {
	list, err := h.notifications.List(middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Notifications fetched!", list)
}

func (h *UserHandler) MarkNotificationRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(id, middleware.UserID(c)); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Notification marked as read!", nil)
}

func (h *UserHandler) MarkAllNotificationsRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(middleware.UserID(c)); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "All notifications marked as read!", nil)
}

// DeleteAccount 注销后顺手清 cookie
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	if err := h.users.DeleteAccount(middleware.UserID(c)); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.ClearAuthCookies(c)
	pkg.Respond(c, http.StatusOK, "Account deleted!", nil)
}
