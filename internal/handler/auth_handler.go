package handler

import (
	"net/http"

	"campfire/internal/pkg"
	"campfire/internal/repository/redis"
	"campfire/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *service.UserService
	otp   *service.OtpService
}

func NewAuthHandler(users *service.UserService, otp *service.OtpService) *AuthHandler {
	return &AuthHandler{users: users, otp: otp}
}

// SendOtp 注册验证码：邮箱必须未注册
func (h *AuthHandler) SendOtp(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		pkg.Respond(c, http.StatusBadRequest, "Email is required", nil)
		return
	}
	if err := h.users.EmailFree(email); err != nil {
		pkg.WriteError(c, err)
		return
	}
	if err := h.otp.SendCode(c.Request.Context(), redis.ScopeRegister, email); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "OTP sent successfully!", nil)
}

// SendResetOtp 重置密码验证码：邮箱必须已注册
func (h *AuthHandler) SendResetOtp(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		pkg.Respond(c, http.StatusBadRequest, "Email is required", nil)
		return
	}
	if err := h.users.EmailRegistered(email); err != nil {
		pkg.WriteError(c, err)
		return
	}
	if err := h.otp.SendCode(c.Request.Context(), redis.ScopeReset, email); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "OTP sent successfully!", nil)
}

type otpReq struct {
	Email string `json:"email" binding:"required,email"`
	Otp   string `json:"otp" binding:"required"`
}

func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var req otpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Email and OTP are required", nil)
		return
	}
	if err := h.otp.Verify(c.Request.Context(), redis.ScopeRegister, req.Email, req.Otp); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "OTP verified!", nil)
}

type registerReq struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register 注册成功即视为登录，直接种 cookie
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Invalid registration payload", nil)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	if err := issueCookies(c, user.ID); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusCreated, "User created successfully!", user)
}

type loginReq struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Login and password are required", nil)
		return
	}

	user, err := h.users.Login(req.Login, req.Password)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	if err := issueCookies(c, user.ID); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Login successful!", user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	pkg.ClearAuthCookies(c)
	pkg.Respond(c, http.StatusOK, "Logged out!", nil)
}

type resetPasswordReq struct {
	Email    string `json:"email" binding:"required,email"`
	Otp      string `json:"otp" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword 一次请求完成验证码核验和改密
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Respond(c, http.StatusBadRequest, "Email, OTP and new password are required", nil)
		return
	}
	if err := h.otp.Verify(c.Request.Context(), redis.ScopeReset, req.Email, req.Otp); err != nil {
		pkg.WriteError(c, err)
		return
	}
	if err := h.users.ResetPassword(c.Request.Context(), req.Email, req.Password); err != nil {
		pkg.WriteError(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "Password reset successfully!", nil)
}

func issueCookies(c *gin.Context, userID uint64) error {
	access, err := pkg.NewAccessToken(userID)
	if err != nil {
		return err
	}
	refresh, err := pkg.NewRefreshToken(userID)
	if err != nil {
		return err
	}
	pkg.SetAuthCookies(c, access, refresh)
	return nil
}
