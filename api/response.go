package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"finbook/models"
	"finbook/store"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401 错误响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// StoreError 将存储层错误映射为对应的 HTTP 响应
func StoreError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrExpenseNotFound):
		NotFound(c, "消费记录不存在")
	case errors.Is(err, store.ErrGoalNotFound):
		NotFound(c, "储蓄目标不存在")
	case errors.Is(err, store.ErrNegativeAmount):
		BadRequest(c, "调整金额不能为负数")
	case errors.Is(err, models.ErrInvalidTarget):
		BadRequest(c, "目标金额必须大于 0")
	case errors.Is(err, models.ErrInvalidBudget):
		BadRequest(c, "预算不合法：储蓄目标金额不能超过收入")
	case errors.Is(err, store.ErrCorruptData):
		InternalError(c, "持久化数据损坏，请检查数据文件")
	default:
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
