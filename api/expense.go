package api

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finbook/models"
	"finbook/service"
	"finbook/store"
)

// 时间格式
const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	store store.Store
	email *service.EmailService
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler(st store.Store, email *service.EmailService) *ExpenseHandler {
	return &ExpenseHandler{store: st, email: email}
}

// CreateExpenseRequest 创建消费记录请求
type CreateExpenseRequest struct {
	Name   string          `json:"name" binding:"required,max=100" example:"午餐"`
	Date   string          `json:"date" binding:"required" example:"2024-01-15 12:30:00"`
	Type   string          `json:"type" binding:"required" example:"Food"`
	Amount decimal.Decimal `json:"amount"`
	GoalID *string         `json:"goalID" example:"f2a6a3de-6f21-4b0c-9e3c-8f1f0a2b1c3d"`
}

// UpdateExpenseRequest 更新消费记录请求
type UpdateExpenseRequest struct {
	Name   string          `json:"name" binding:"omitempty,max=100" example:"午餐"`
	Date   string          `json:"date" example:"2024-01-15 12:30:00"`
	Type   string          `json:"type" example:"Food"`
	Amount decimal.Decimal `json:"amount"`
	GoalID *string         `json:"goalID"`
}

// parseExpenseType 校验消费类型
func parseExpenseType(raw string) (models.ExpenseType, bool) {
	t := models.ExpenseType(strings.TrimSpace(raw))
	return t, t.Valid()
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 创建一条新的消费记录；Savings 类型可通过 goalID 关联储蓄目标，目标的已存金额会加上消费金额
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "消费记录信息"
// @Success 200 {object} Response{data=models.Expense} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "关联的储蓄目标不存在"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	t, ok := parseExpenseType(req.Type)
	if !ok {
		BadRequest(c, "无效的消费类型")
		return
	}
	if !req.Amount.IsPositive() {
		BadRequest(c, "金额必须大于 0")
		return
	}

	// 解析时间
	date, err := time.ParseInLocation(timeLayout, req.Date, time.Local)
	if err != nil {
		BadRequest(c, "时间格式错误，应为: 2006-01-02 15:04:05")
		return
	}

	expense := models.NewExpense(req.Name, date, t, req.Amount, req.GoalID)

	if err := h.store.AddExpense(expense); err != nil {
		StoreError(c, err, "创建消费记录失败")
		return
	}

	// 支出类消费入账后检查本月预算
	if expense.Type != models.TypeSavings {
		go h.checkBudget(expense.Date)
	}

	SuccessWithMessage(c, "创建成功", expense)
}

// checkBudget 本月支出超过可支配预算时发送提醒邮件，失败仅记录日志
func (h *ExpenseHandler) checkBudget(ref time.Time) {
	if h.email == nil || !h.email.Enabled() {
		return
	}

	budget, err := h.store.LoadBudget()
	if err != nil || budget == nil {
		return
	}
	expenses, err := h.store.LoadAllExpenses()
	if err != nil {
		return
	}

	spent := service.MonthlySpending(expenses, ref)
	spendable := budget.Spendable()
	if spent.LessThanOrEqual(spendable) {
		return
	}

	month := ref.Format("2006-01")
	if err := h.email.SendBudgetAlert(month, spent, spendable); err != nil {
		log.Printf("发送预算超支提醒失败: %v", err)
	}
}

// List 获取消费记录列表
// @Summary 获取消费记录列表
// @Description 获取消费记录列表，支持按类型和月份筛选
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param type query string false "类型筛选（Bills/Food/Groceries/Savings/Transportation/Misc.）"
// @Param month query string false "月份筛选（格式：2024-01）"
// @Success 200 {object} Response{data=[]models.Expense} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var (
		expenses []models.Expense
		err      error
	)

	if typeStr := c.Query("type"); typeStr != "" {
		t, ok := parseExpenseType(typeStr)
		if !ok {
			BadRequest(c, "无效的消费类型")
			return
		}
		expenses, err = h.store.LoadExpensesByType(t)
	} else {
		expenses, err = h.store.LoadAllExpenses()
	}
	if err != nil {
		StoreError(c, err, "查询消费记录失败")
		return
	}

	// 月份筛选
	if monthStr := c.Query("month"); monthStr != "" {
		month, err := time.ParseInLocation("2006-01", monthStr, time.Local)
		if err != nil {
			BadRequest(c, "month格式错误，应为：2024-01")
			return
		}
		from := service.MonthStart(month)
		to := from.AddDate(0, 1, 0).Add(-time.Second)
		expenses = service.FilterByRange(expenses, from, to)
	}

	Success(c, expenses)
}

// Get 获取单条消费记录
// @Summary 获取单条消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path string true "消费记录ID"
// @Success 200 {object} Response{data=models.Expense} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id := c.Param("id")

	expenses, err := h.store.LoadAllExpenses()
	if err != nil {
		StoreError(c, err, "查询消费记录失败")
		return
	}
	for _, e := range expenses {
		if e.ID == id {
			Success(c, e)
			return
		}
	}
	NotFound(c, "消费记录不存在")
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Description 更新指定的消费记录；关联储蓄目标的变动会先回退旧贡献再应用新贡献
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "消费记录ID"
// @Param request body UpdateExpenseRequest true "消费记录信息"
// @Success 200 {object} Response{data=models.Expense} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id := c.Param("id")

	expenses, err := h.store.LoadAllExpenses()
	if err != nil {
		StoreError(c, err, "查询消费记录失败")
		return
	}
	var current *models.Expense
	for i := range expenses {
		if expenses[i].ID == id {
			current = &expenses[i]
			break
		}
	}
	if current == nil {
		NotFound(c, "消费记录不存在")
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updated := *current
	if req.Name != "" {
		updated.Name = req.Name
	}
	if req.Date != "" {
		date, err := time.ParseInLocation(timeLayout, req.Date, time.Local)
		if err != nil {
			BadRequest(c, "时间格式错误，应为: 2006-01-02 15:04:05")
			return
		}
		updated.Date = date
	}
	if req.Type != "" {
		t, ok := parseExpenseType(req.Type)
		if !ok {
			BadRequest(c, "无效的消费类型")
			return
		}
		updated.Type = t
	}
	if !req.Amount.IsZero() {
		if !req.Amount.IsPositive() {
			BadRequest(c, "金额必须大于 0")
			return
		}
		updated.Amount = req.Amount
	}
	if req.GoalID != nil {
		if *req.GoalID == "" {
			updated.GoalID = nil
		} else {
			updated.GoalID = req.GoalID
		}
	}
	updated.Normalize()

	if err := h.store.UpdateExpense(updated); err != nil {
		StoreError(c, err, "更新消费记录失败")
		return
	}

	if updated.Type != models.TypeSavings {
		go h.checkBudget(updated.Date)
	}

	SuccessWithMessage(c, "更新成功", updated)
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Description 删除指定的消费记录；关联的储蓄目标已存金额会减去消费金额（下限为 0）
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path string true "消费记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.DeleteExpense(id); err != nil {
		StoreError(c, err, "删除消费记录失败")
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// DeleteAll 清空消费记录
// @Summary 清空全部消费记录
// @Description 删除全部消费记录；尚无数据时同样返回成功
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "清空成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [delete]
func (h *ExpenseHandler) DeleteAll(c *gin.Context) {
	if err := h.store.DeleteAllExpenses(); err != nil {
		StoreError(c, err, "清空消费记录失败")
		return
	}
	SuccessWithMessage(c, "清空成功", nil)
}

// GetTypes 获取消费类型列表
// @Summary 获取消费类型列表
// @Description 获取全部消费类型及对应的图标标识
// @Tags 消费记录
// @Produce json
// @Success 200 {object} Response "获取成功"
// @Router /api/v1/types [get]
func (h *ExpenseHandler) GetTypes(c *gin.Context) {
	types := models.GetExpenseTypes()
	list := make([]gin.H, 0, len(types))
	for _, t := range types {
		list = append(list, gin.H{
			"type":      t,
			"icon_name": t.IconName(),
		})
	}
	Success(c, list)
}

// GetStatistics 获取消费统计
// @Summary 获取消费统计
// @Description 获取指定时间范围内按类型汇总的消费统计
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses/statistics [get]
func (h *ExpenseHandler) GetStatistics(c *gin.Context) {
	expenses, err := h.store.LoadAllExpenses()
	if err != nil {
		StoreError(c, err, "查询消费记录失败")
		return
	}

	// 时间范围筛选
	from := time.Time{}
	to := time.Time{}
	if startStr := c.Query("start_time"); startStr != "" {
		start, err := time.ParseInLocation(dateLayout, startStr, time.Local)
		if err == nil {
			from = start
		}
	}
	if endStr := c.Query("end_time"); endStr != "" {
		end, err := time.ParseInLocation(dateLayout, endStr, time.Local)
		if err == nil {
			// 包含结束日期当天
			to = end.Add(24*time.Hour - time.Second)
		}
	}
	if !from.IsZero() || !to.IsZero() {
		if from.IsZero() {
			from = time.Time{}
		}
		expenses = service.FilterByRange(expenses, from, to)
	}

	stats := service.TypeStats(expenses)
	total := decimal.Zero
	for _, st := range stats {
		total = total.Add(st.Total)
	}

	Success(c, gin.H{
		"total_amount": total,
		"total_count":  len(expenses),
		"type_stats":   stats,
	})
}
