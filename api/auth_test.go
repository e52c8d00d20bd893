package api

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"finbook/config"
	"finbook/middleware"
)

func authTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Auth:   config.AuthConfig{Username: "admin", Password: "admin123"},
	}
}

func setupAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.InitJWT(cfg)

	h := NewAuthHandler(cfg)
	router := gin.New()
	router.POST("/login", h.Login)
	return router
}

func TestAuthHandler_Login(t *testing.T) {
	cfg := authTestConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	router := setupAuthRouter(cfg)

	w := doJSON(router, "POST", "/login", `{"username":"admin","password":"admin123"}`)
	assert.Equal(t, 200, w.Code)

	resp := decodeResp(t, w)
	assert.Equal(t, "登录成功", resp["message"])
	data := resp["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	assert.NotEmpty(t, token)

	// token 可解析
	claims, err := middleware.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	cfg := authTestConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	router := setupAuthRouter(cfg)

	w := doJSON(router, "POST", "/login", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "用户名或密码错误")

	w = doJSON(router, "POST", "/login", `{"username":"other","password":"admin123"}`)
	assert.Equal(t, 401, w.Code)
}

func TestAuthHandler_Login_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := authTestConfig()
	// 配置了 password_hash 时忽略明文 password
	cfg.Auth.Password = ""
	cfg.Auth.PasswordHash = string(hash)
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	router := setupAuthRouter(cfg)

	w := doJSON(router, "POST", "/login", `{"username":"admin","password":"s3cret"}`)
	assert.Equal(t, 200, w.Code)

	w = doJSON(router, "POST", "/login", `{"username":"admin","password":"bad"}`)
	assert.Equal(t, 401, w.Code)
}
