package api

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbook/models"
	"finbook/store/filestore"
)

func setupGoalRouter(t *testing.T) (*gin.Engine, *filestore.Store) {
	gin.SetMode(gin.TestMode)
	st := newTestStore(t)
	h := NewGoalHandler(st)

	router := gin.New()
	router.POST("/goals", h.Create)
	router.GET("/goals", h.List)
	router.DELETE("/goals", h.DeleteAll)
	router.GET("/goals/:id", h.Get)
	router.PUT("/goals/:id", h.Update)
	router.DELETE("/goals/:id", h.Delete)
	router.POST("/goals/:id/add", h.AddAmount)
	router.POST("/goals/:id/subtract", h.SubtractAmount)
	return router, st
}

func TestGoalHandler_Create(t *testing.T) {
	router, st := setupGoalRouter(t)

	w := doJSON(router, "POST", "/goals", `{"name":"旅行基金","iconName":"airplane","targetAmount":5000}`)
	assert.Equal(t, 200, w.Code)

	goals, err := st.LoadAllGoals()
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "旅行基金", goals[0].Name)
	assert.True(t, goals[0].SavedAmount.IsZero(), "已存金额从 0 开始")
}

func TestGoalHandler_Create_InvalidTarget(t *testing.T) {
	router, _ := setupGoalRouter(t)

	w := doJSON(router, "POST", "/goals", `{"name":"无效","targetAmount":0}`)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "目标金额必须大于 0")
}

func TestGoalHandler_Update(t *testing.T) {
	router, st := setupGoalRouter(t)

	g := models.NewSavingGoal("旅行", "airplane", decimal.NewFromInt(5000))
	require.NoError(t, st.AddGoal(g))

	w := doJSON(router, "PUT", "/goals/"+g.ID, `{"name":"欧洲旅行","targetAmount":8000}`)
	assert.Equal(t, 200, w.Code)

	goals, err := st.LoadAllGoals()
	require.NoError(t, err)
	assert.Equal(t, "欧洲旅行", goals[0].Name)
	assert.True(t, goals[0].TargetAmount.Equal(decimal.NewFromInt(8000)))

	// 手工修正已存金额
	w = doJSON(router, "PUT", "/goals/"+g.ID, `{"savedAmount":150}`)
	assert.Equal(t, 200, w.Code)
	goals, _ = st.LoadAllGoals()
	assert.True(t, goals[0].SavedAmount.Equal(decimal.NewFromInt(150)))

	// 负数已存金额被拒绝
	w = doJSON(router, "PUT", "/goals/"+g.ID, `{"savedAmount":-10}`)
	assert.Equal(t, 400, w.Code)
}

func TestGoalHandler_AddSubtractAmount(t *testing.T) {
	router, st := setupGoalRouter(t)

	g := models.NewSavingGoal("旅行", "airplane", decimal.NewFromInt(5000))
	require.NoError(t, st.AddGoal(g))

	w := doJSON(router, "POST", "/goals/"+g.ID+"/add", `{"amount":500}`)
	assert.Equal(t, 200, w.Code)

	// 减去超过已存金额，下限为 0
	w = doJSON(router, "POST", "/goals/"+g.ID+"/subtract", `{"amount":700}`)
	assert.Equal(t, 200, w.Code)

	goals, err := st.LoadAllGoals()
	require.NoError(t, err)
	assert.True(t, goals[0].SavedAmount.IsZero())

	// 负数金额
	w = doJSON(router, "POST", "/goals/"+g.ID+"/add", `{"amount":-1}`)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "不能为负数")

	// 目标不存在
	w = doJSON(router, "POST", "/goals/missing/add", `{"amount":1}`)
	assert.Equal(t, 404, w.Code)
}

func TestGoalHandler_Delete(t *testing.T) {
	router, st := setupGoalRouter(t)

	g := models.NewSavingGoal("旅行", "airplane", decimal.NewFromInt(5000))
	require.NoError(t, st.AddGoal(g))

	w := doJSON(router, "DELETE", "/goals/"+g.ID, "")
	assert.Equal(t, 200, w.Code)

	w = doJSON(router, "DELETE", "/goals/"+g.ID, "")
	assert.Equal(t, 404, w.Code)
}

func TestGoalHandler_ListAndGet(t *testing.T) {
	router, st := setupGoalRouter(t)

	g := models.NewSavingGoal("旅行", "airplane", decimal.NewFromInt(5000))
	require.NoError(t, st.AddGoal(g))

	w := doJSON(router, "GET", "/goals", "")
	assert.Equal(t, 200, w.Code)
	resp := decodeResp(t, w)
	assert.Len(t, resp["data"], 1)

	w = doJSON(router, "GET", "/goals/"+g.ID, "")
	assert.Equal(t, 200, w.Code)

	w = doJSON(router, "GET", "/goals/missing", "")
	assert.Equal(t, 404, w.Code)
}
