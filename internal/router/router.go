package router

import (
	"campfire/internal/handler"
	"campfire/internal/middleware"
	"campfire/internal/realtime"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Post      *handler.PostHandler
	Comment   *handler.CommentHandler
	Community *handler.CommunityHandler
	Public    *handler.PublicHandler
	Chat      *handler.ChatHandler
}

func InitRouter(h Handlers, hub *realtime.Hub, allowedOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.CORS(allowedOrigin))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.GET("/register/:email", h.Auth.SendOtp)
		auth.POST("/verify-otp", h.Auth.VerifyOtp)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/logout", h.Auth.Logout)
		auth.GET("/reset-password/:email", h.Auth.SendResetOtp)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}

	user := api.Group("/user", middleware.Auth())
	{
		user.GET("/hydrate", h.User.Hydrate)
		user.GET("/socket-pass", h.User.SocketTicket)
		user.PUT("/displayname", h.User.UpdateDisplayName)
		user.PUT("/about", h.User.UpdateAbout)
		user.PUT("/avatar", h.User.UpdateAvatar)
		user.PUT("/banner", h.User.UpdateBanner)
		user.PUT("/password", h.User.ChangePassword)
		user.POST("/:username/follow", h.User.Follow)
		user.DELETE("/:username/follow", h.User.Unfollow)
		user.GET("/notifications", h.User.Notifications)
		user.PUT("/notifications/:id/read", h.User.MarkNotificationRead)
		user.PUT("/notifications/read-all", h.User.MarkAllNotificationsRead)
		user.POST("/delete-account", h.User.DeleteAccount)
	}

	post := api.Group("/post", middleware.Auth())
	{
		post.POST("/text", h.Post.CreateText)
		post.POST("/draft/text", h.Post.SaveDraft)
		post.POST("/media", h.Post.CreateMedia)
		post.PUT("/react", h.Post.React)
		post.DELETE("/:postId", h.Post.Delete)
	}

	comment := api.Group("/comment", middleware.Auth())
	{
		comment.POST("/", h.Comment.Create)
		comment.PUT("/react", h.Comment.React)
		comment.DELETE("/:commentId", h.Comment.Delete)
	}

	community := api.Group("/community", middleware.Auth())
	{
		community.POST("/", h.Community.Create)
		community.GET("/check", h.Community.CheckName)
		community.GET("/joined", h.Community.Joined)
		community.POST("/join", h.Community.Join)
		community.POST("/leave", h.Community.Leave)
		community.POST("/cancel-request", h.Community.CancelRequest)
		community.POST("/follow", h.Community.Follow)
		community.POST("/unfollow", h.Community.Unfollow)
		community.GET("/:name/members", h.Community.Members)
		community.GET("/:name/members/requests/count", h.Community.PendingCount)
		community.PUT("/:name/displayname", h.Community.UpdateDisplayName)
		community.PUT("/:name/description", h.Community.UpdateDescription)
		community.PUT("/:name/icon", h.Community.UpdateIcon)
		community.PUT("/:name/banner", h.Community.UpdateBanner)
		community.PUT("/:name/type", h.Community.UpdateType)
		community.PUT("/:name/members/:username/moderator", h.Community.Promote)
		community.DELETE("/:name/members/:username/moderator", h.Community.Demote)
		community.PUT("/:name/members/:username/accept", h.Community.Accept)
		community.PUT("/:name/members/:username/reject", h.Community.Reject)
		community.DELETE("/:name/members/:username", h.Community.Kick)
	}

	// 读接口对游客开放，带宽松认证以便登录用户看到自己的投票和私区内容
	public := api.Group("/public", middleware.OptionalAuth())
	{
		public.GET("/feed", h.Public.Feed)
		public.GET("/post/:postId", h.Public.GetPost)
		public.GET("/comment/:postId", h.Public.PostComments)
		public.GET("/replies/:commentId", h.Public.CommentReplies)
		public.GET("/community/:name", h.Public.GetCommunity)
		public.GET("/community/:name/posts", h.Public.CommunityPosts)
		public.GET("/communities", h.Public.Communities)
		public.GET("/communities/popular", h.Public.PopularCommunities)
		public.GET("/user/:username", h.Public.GetProfile)
		public.GET("/user/:username/posts", h.Public.ProfilePosts)
		public.GET("/user/:username/comments", h.Public.ProfileComments)
		public.GET("/search", h.Public.Search)
		public.GET("/search/users", h.Public.SearchUsers)
	}

	chat := api.Group("/chat", middleware.Auth())
	{
		chat.GET("/", h.Chat.GetChat)
		chat.GET("/people", h.Chat.ChattedPeople)
	}

	// 实时通道自己做凭证鉴权，不走 cookie 中间件
	r.GET("/ws", hub.ServeWS)

	return r
}
