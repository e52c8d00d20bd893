package api

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finbook/models"
	"finbook/store"
)

// GoalHandler 储蓄目标处理器
type GoalHandler struct {
	store store.Store
}

// NewGoalHandler 创建储蓄目标处理器
func NewGoalHandler(st store.Store) *GoalHandler {
	return &GoalHandler{store: st}
}

// CreateGoalRequest 创建储蓄目标请求
type CreateGoalRequest struct {
	Name         string          `json:"name" binding:"required,max=100" example:"买车"`
	IconName     string          `json:"iconName" example:"car"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
}

// UpdateGoalRequest 更新储蓄目标请求
type UpdateGoalRequest struct {
	Name         string           `json:"name" binding:"omitempty,max=100" example:"买车"`
	IconName     string           `json:"iconName" example:"car"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
	SavedAmount  *decimal.Decimal `json:"savedAmount"` // 可选，用于手工修正已存金额
}

// AdjustAmountRequest 调整已存金额请求
type AdjustAmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Create 创建储蓄目标
// @Summary 创建储蓄目标
// @Description 创建一个新的储蓄目标，已存金额从 0 开始，目标金额必须大于 0
// @Tags 储蓄目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGoalRequest true "储蓄目标信息"
// @Success 200 {object} Response{data=models.SavingGoal} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	goal := models.NewSavingGoal(req.Name, req.IconName, req.TargetAmount)
	if err := h.store.AddGoal(goal); err != nil {
		StoreError(c, err, "创建储蓄目标失败")
		return
	}

	SuccessWithMessage(c, "创建成功", goal)
}

// List 获取储蓄目标列表
// @Summary 获取储蓄目标列表
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.SavingGoal} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.store.LoadAllGoals()
	if err != nil {
		StoreError(c, err, "查询储蓄目标失败")
		return
	}
	Success(c, goals)
}

// Get 获取单个储蓄目标
// @Summary 获取单个储蓄目标
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Param id path string true "储蓄目标ID"
// @Success 200 {object} Response{data=models.SavingGoal} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [get]
func (h *GoalHandler) Get(c *gin.Context) {
	id := c.Param("id")

	goals, err := h.store.LoadAllGoals()
	if err != nil {
		StoreError(c, err, "查询储蓄目标失败")
		return
	}
	for _, g := range goals {
		if g.ID == id {
			Success(c, g)
			return
		}
	}
	NotFound(c, "储蓄目标不存在")
}

// Update 更新储蓄目标
// @Summary 更新储蓄目标
// @Description 更新目标的名称、图标和金额；savedAmount 仅用于手工修正已存金额
// @Tags 储蓄目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "储蓄目标ID"
// @Param request body UpdateGoalRequest true "储蓄目标信息"
// @Success 200 {object} Response{data=models.SavingGoal} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	id := c.Param("id")

	goals, err := h.store.LoadAllGoals()
	if err != nil {
		StoreError(c, err, "查询储蓄目标失败")
		return
	}
	var current *models.SavingGoal
	for i := range goals {
		if goals[i].ID == id {
			current = &goals[i]
			break
		}
	}
	if current == nil {
		NotFound(c, "储蓄目标不存在")
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updated := *current
	if req.Name != "" {
		updated.Name = req.Name
	}
	if req.IconName != "" {
		updated.IconName = req.IconName
	}
	if req.TargetAmount != nil {
		updated.TargetAmount = *req.TargetAmount
	}
	if req.SavedAmount != nil {
		if req.SavedAmount.IsNegative() {
			BadRequest(c, "已存金额不能为负数")
			return
		}
		updated.SavedAmount = *req.SavedAmount
	}

	if err := h.store.UpdateGoal(updated); err != nil {
		StoreError(c, err, "更新储蓄目标失败")
		return
	}

	SuccessWithMessage(c, "更新成功", updated)
}

// Delete 删除储蓄目标
// @Summary 删除储蓄目标
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Param id path string true "储蓄目标ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.DeleteGoal(id); err != nil {
		StoreError(c, err, "删除储蓄目标失败")
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// AddAmount 增加已存金额
// @Summary 增加已存金额
// @Description 为指定目标的已存金额加上 amount（不能为负数）
// @Tags 储蓄目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "储蓄目标ID"
// @Param request body AdjustAmountRequest true "调整金额"
// @Success 200 {object} Response "调整成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id}/add [post]
func (h *GoalHandler) AddAmount(c *gin.Context) {
	id := c.Param("id")

	var req AdjustAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if err := h.store.AddAmount(id, req.Amount); err != nil {
		StoreError(c, err, "调整已存金额失败")
		return
	}

	SuccessWithMessage(c, "调整成功", nil)
}

// SubtractAmount 减少已存金额
// @Summary 减少已存金额
// @Description 为指定目标的已存金额减去 amount，结果下限为 0，不会为负
// @Tags 储蓄目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "储蓄目标ID"
// @Param request body AdjustAmountRequest true "调整金额"
// @Success 200 {object} Response "调整成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id}/subtract [post]
func (h *GoalHandler) SubtractAmount(c *gin.Context) {
	id := c.Param("id")

	var req AdjustAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if err := h.store.SubtractAmount(id, req.Amount); err != nil {
		StoreError(c, err, "调整已存金额失败")
		return
	}

	SuccessWithMessage(c, "调整成功", nil)
}

// DeleteAll 清空储蓄目标
// @Summary 清空全部储蓄目标
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "清空成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/goals [delete]
func (h *GoalHandler) DeleteAll(c *gin.Context) {
	if err := h.store.DeleteAllGoals(); err != nil {
		StoreError(c, err, "清空储蓄目标失败")
		return
	}
	SuccessWithMessage(c, "清空成功", nil)
}
