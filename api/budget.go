package api

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finbook/models"
	"finbook/store"
)

// BudgetHandler 预算处理器
type BudgetHandler struct {
	store store.Store
}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler(st store.Store) *BudgetHandler {
	return &BudgetHandler{store: st}
}

// SaveBudgetRequest 保存预算请求
type SaveBudgetRequest struct {
	Income     decimal.Decimal `json:"income"`
	SavingGoal decimal.Decimal `json:"savingGoal"`
}

// Get 获取预算
// @Summary 获取预算
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Budget} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "尚未设置预算"
// @Router /api/v1/budget [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	budget, err := h.store.LoadBudget()
	if err != nil {
		StoreError(c, err, "查询预算失败")
		return
	}
	if budget == nil {
		NotFound(c, "尚未设置预算")
		return
	}
	Success(c, budget)
}

// Save 保存预算
// @Summary 保存预算
// @Description 整体覆盖保存月度预算，储蓄目标金额不能超过收入
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SaveBudgetRequest true "预算信息"
// @Success 200 {object} Response{data=models.Budget} "保存成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/budget [put]
func (h *BudgetHandler) Save(c *gin.Context) {
	var req SaveBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	budget := models.Budget{
		Income:     req.Income,
		SavingGoal: req.SavingGoal,
	}
	if err := h.store.SaveBudget(budget); err != nil {
		StoreError(c, err, "保存预算失败")
		return
	}

	SuccessWithMessage(c, "保存成功", budget)
}

// Delete 删除预算
// @Summary 删除预算
// @Description 删除月度预算；尚未设置时同样返回成功
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/budget [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteBudget(); err != nil {
		StoreError(c, err, "删除预算失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
