package api

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"finbook/config"
	"finbook/middleware"
)

// AuthHandler 认证处理器（单用户部署，账号来自配置）
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login 登录
// @Summary 登录
// @Description 使用配置的账号登录，获取 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "用户名或密码错误"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if !h.verify(req.Username, req.Password) {
		Unauthorized(c, "用户名或密码错误")
		return
	}

	token, err := middleware.GenerateToken(1, req.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	SuccessWithMessage(c, "登录成功", LoginResponse{
		Token:     token,
		Username:  req.Username,
		ExpiresAt: time.Now().Add(h.cfg.JWT.ExpireTime),
	})
}

// verify 校验账号密码
// 配置了 password_hash 时按 bcrypt 校验，否则按明文常量时间比较
func (h *AuthHandler) verify(username, password string) bool {
	auth := h.cfg.Auth
	if subtle.ConstantTimeCompare([]byte(username), []byte(auth.Username)) != 1 {
		return false
	}
	if auth.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(auth.PasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(auth.Password)) == 1
}

// GetProfile 获取当前登录信息
// @Summary 获取当前登录信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	Success(c, gin.H{
		"user_id":  middleware.GetCurrentUserID(c),
		"username": middleware.GetCurrentUsername(c),
	})
}
