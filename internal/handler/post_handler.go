package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"campfire/internal/middleware"
	"campfire/internal/pkg"
	"campfire/internal/service"
	"campfire/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	maxPostImages    = 4
	maxPostImageSize = 8 << 20
	maxPostVideoSize = 50 << 20
)

type PostHandler struct {
	posts *service.PostService
	store storage.Storage
}

func NewPostHandler(posts *service.PostService, store storage.Storage) *PostHandler {
	return &PostHandler{posts: posts, store: store}
}

type createTextPostReq struct {
	Title     string `json:"title" binding:"required,max=300"`
	Body      string `json:"body"`
	Community string `json:"community"`
}

func (h *PostHandler) CreateText(c *gin.Context) {
	var req createTextPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Title is required!", nil)
		return
	}
	post, err := h.posts.CreateText(middleware.UserID(c), req.Title, req.Body, req.Community)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusCreated, "Post created!", post)
}

// CreateMedia multipart 表单：title、community、images 若干、video 至多一个。
// 任何一个文件失败就回滚已传的对象
func (h *PostHandler) CreateMedia(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Invalid multipart form", nil)
		return
	}
	title := c.PostForm("title")
	community := c.PostForm("community")

	images := form.File["images"]
	videos := form.File["video"]
	if len(images) > maxPostImages {
		pkg.Respond(c, http.StatusBadRequest, "Too many images", nil)
		return
	}
	if len(videos) > 1 {
		pkg.Respond(c, http.StatusBadRequest, "Only one video allowed", nil)
		return
	}

	ctx := c.Request.Context()
	var uploaded []string // 回滚用的 objectName
	rollback := func() {
		for _, obj := range uploaded {
			_ = h.store.Delete(context.Background(), obj)
		}
	}

	var imageURLs []string
	for _, file := range images {
		if file.Size > maxPostImageSize {
			rollback()
			pkg.Respond(c, http.StatusBadRequest, "Image is too large", nil)
			return
		}
		obj, url, err := h.uploadFile(ctx, file, "posts")
		if err != nil {
			rollback()
			pkg.WriteError(c, err)
			return
		}
		uploaded = append(uploaded, obj)
		imageURLs = append(imageURLs, url)
	}

	videoURL := ""
	if len(videos) == 1 {
		if videos[0].Size > maxPostVideoSize {
			rollback()
			pkg.Respond(c, http.StatusBadRequest, "Video is too large", nil)
			return
		}
		obj, url, err := h.uploadFile(ctx, videos[0], "posts")
		if err != nil {
			rollback()
			pkg.WriteError(c, err)
			return
		}
		uploaded = append(uploaded, obj)
		videoURL = url
	}

	post, err := h.posts.CreateMedia(middleware.UserID(c), title, imageURLs, videoURL, community)
	if err != nil {
		rollback()
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusCreated, "Post created!", post)
}

func (h *PostHandler) uploadFile(ctx context.Context, file *multipart.FileHeader, folder string) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()
	return h.store.Upload(ctx, folder, file.Filename, src, file.Size)
}

type draftReq struct {
	Title string `json:"title" binding:"required,max=300"`
	Type  string `json:"type" binding:"required,oneof=text media"`
	Body  string `json:"body"`
}

func (h *PostHandler) SaveDraft(c *gin.Context) {
	var req draftReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Invalid draft payload", nil)
		return
	}
	draft, err := h.posts.SaveDraft(middleware.UserID(c), req.Title, req.Type, req.Body)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusCreated, "Draft saved!", draft)
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "postId")
	if !ok {
		return
	}
	if err := h.posts.Delete(id, middleware.UserID(c)); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Post deleted!", nil)
}

type reactPostReq struct {
	PostID   uint64 `json:"postId" binding:"required"`
	Reaction string `json:"reaction" binding:"required,oneof=upvote downvote"`
}

// React 返回落库后的状态，"" 表示取消了投票
func (h *PostHandler) React(c *gin.Context) {
	var req reactPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Invalid reaction", nil)
		return
	}
	result, err := h.posts.React(c.Request.Context(), middleware.UserID(c), req.PostID, req.Reaction)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Reaction saved!", gin.H{"reaction": result})
}
