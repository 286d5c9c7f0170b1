package handler

import (
	"net/http"

	"campfire/internal/middleware"
	"campfire/internal/pkg"
	"campfire/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chats *service.ChatService
}

func NewChatHandler(chats *service.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// GetChat 和某人的完整会话
func (h *ChatHandler) GetChat(c *gin.Context) {
	personName := c.Query("personName")
	if personName == "" {
		pkg.Respond(c, http.StatusBadRequest, "personName is required", nil)
		return
	}
	data, err := h.chats.GetChat(c.Request.Context(), middleware.UserID(c), personName)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Chat fetched!", data)
}

// ChattedPeople 会话列表，按最近消息排序
func (h *ChatHandler) ChattedPeople(c *gin.Context) {
	people, err := h.chats.GetChattedPeople(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Chatted people fetched!", people)
}
