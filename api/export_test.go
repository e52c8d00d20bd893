package api

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbook/models"
	"finbook/store/filestore"
)

func setupExportRouter(t *testing.T) (*gin.Engine, *filestore.Store) {
	gin.SetMode(gin.TestMode)
	st := newTestStore(t)
	h := NewExportHandler(st)

	router := gin.New()
	router.GET("/export/csv", h.ExportCSV)
	router.GET("/export/json", h.ExportJSON)
	router.GET("/export/excel", h.ExportExcel)
	return router, st
}

func seedExportData(t *testing.T, st *filestore.Store) {
	t.Helper()
	day := time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)
	require.NoError(t, st.AddExpense(models.NewExpense("电费", day, models.TypeBills, decimal.NewFromInt(200), nil)))
	require.NoError(t, st.AddExpense(models.NewExpense("晚餐", day.AddDate(0, 0, 1), models.TypeFood, decimal.RequireFromString("35.50"), nil)))
	// 范围之外的记录
	require.NoError(t, st.AddExpense(models.NewExpense("历史数据", day.AddDate(0, -3, 0), models.TypeMisc, decimal.NewFromInt(999), nil)))
}

func TestExportHandler_CSV(t *testing.T) {
	router, st := setupExportRouter(t)
	seedExportData(t, st)

	w := doJSON(router, "GET", "/export/csv?start_time=2024-05-01&end_time=2024-05-31", "")
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "expenses_2024-05-01_2024-05-31.csv")

	body := w.Body.String()
	assert.Contains(t, body, "电费")
	assert.Contains(t, body, "35.50")
	assert.NotContains(t, body, "历史数据")
}

func TestExportHandler_CSV_MissingRange(t *testing.T) {
	router, _ := setupExportRouter(t)

	w := doJSON(router, "GET", "/export/csv", "")
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "开始时间和结束时间")

	w = doJSON(router, "GET", "/export/csv?start_time=bad&end_time=2024-05-31", "")
	assert.Equal(t, 400, w.Code)
}

func TestExportHandler_JSON(t *testing.T) {
	router, st := setupExportRouter(t)
	seedExportData(t, st)

	w := doJSON(router, "GET", "/export/json?start_time=2024-05-01&end_time=2024-05-31", "")
	assert.Equal(t, 200, w.Code)

	resp := decodeResp(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total_count"])
	assert.Equal(t, "235.5", data["total_amount"])
}

func TestExportHandler_Excel(t *testing.T) {
	router, st := setupExportRouter(t)
	seedExportData(t, st)

	w := doJSON(router, "GET", "/export/excel?start_time=2024-05-01&end_time=2024-05-31", "")
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotEmpty(t, w.Body.Bytes())
	// xlsx 是 zip 格式，以 PK 开头
	assert.Equal(t, []byte{0x50, 0x4B}, w.Body.Bytes()[:2])
}
