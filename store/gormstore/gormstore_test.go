package gormstore

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"finbook/models"
	"finbook/store"
)

// eventRecorder 记录收到的全部变更事件
type eventRecorder struct {
	events []store.Event
}

func (r *eventRecorder) Notify(ev store.Event) {
	r.events = append(r.events, ev)
}

func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock, *eventRecorder, func()) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	rec := &eventRecorder{}
	return New(gormDB, rec), mock, rec, func() { sqlDB.Close() }
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func goalRows(id string, saved, target string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "icon_name", "saved_amount", "target_amount", "created_at", "updated_at", "deleted_at"}).
		AddRow(id, "旅行基金", "airplane", saved, target, time.Now(), time.Now(), nil)
}

func expenseRows(id string, amount string, goalID interface{}, typ models.ExpenseType) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "date", "type", "amount", "goal_id", "created_at", "updated_at", "deleted_at"}).
		AddRow(id, "存钱", time.Now(), string(typ), amount, goalID, time.Now(), time.Now(), nil)
}

func TestAddExpense(t *testing.T) {
	s, mock, rec, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	e := models.NewExpense("午餐", time.Now(), models.TypeFood, dec("35.50"), nil)
	require.NoError(t, s.AddExpense(e))

	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, rec.events, 1)
	assert.Equal(t, store.Event{Entity: store.EntityExpense, Action: store.ActionCreated, ID: e.ID}, rec.events[0])
}

func TestAddExpense_WithGoal(t *testing.T) {
	s, mock, rec, cleanup := setupMockStore(t)
	defer cleanup()

	goalID := "goal-1"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `saving_goals`").
		WillReturnRows(goalRows(goalID, "100", "5000"))
	mock.ExpectExec("UPDATE `saving_goals`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	e := models.NewExpense("存钱", time.Now(), models.TypeSavings, dec("300"), &goalID)
	require.NoError(t, s.AddExpense(e))

	require.NoError(t, mock.ExpectationsWereMet())
	// 目标调整事件先于消费记录事件
	require.Len(t, rec.events, 2)
	assert.Equal(t, store.Event{Entity: store.EntityGoal, Action: store.ActionAdjusted, ID: goalID}, rec.events[0])
	assert.Equal(t, store.Event{Entity: store.EntityExpense, Action: store.ActionCreated, ID: e.ID}, rec.events[1])
}

func TestAddExpense_GoalMissing(t *testing.T) {
	s, mock, rec, cleanup := setupMockStore(t)
	defer cleanup()

	goalID := "missing-goal"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `saving_goals`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	e := models.NewExpense("存钱", time.Now(), models.TypeSavings, dec("100"), &goalID)
	err := s.AddExpense(e)
	assert.ErrorIs(t, err, store.ErrGoalNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, rec.events, "失败的操作不应发事件")
}

func TestDeleteExpense_Linked(t *testing.T) {
	s, mock, rec, cleanup := setupMockStore(t)
	defer cleanup()

	goalID := "goal-1"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(expenseRows("exp-1", "300", goalID, models.TypeSavings))
	mock.ExpectQuery("SELECT .* FROM `saving_goals`").
		WillReturnRows(goalRows(goalID, "300", "5000"))
	mock.ExpectExec("UPDATE `saving_goals`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// 软删除
	mock.ExpectExec("UPDATE `expenses`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteExpense("exp-1"))

	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, rec.events, 2)
	assert.Equal(t, store.Event{Entity: store.EntityGoal, Action: store.ActionAdjusted, ID: goalID}, rec.events[0])
	assert.Equal(t, store.Event{Entity: store.EntityExpense, Action: store.ActionDeleted, ID: "exp-1"}, rec.events[1])
}

func TestDeleteExpense_NotFound(t *testing.T) {
	s, mock, _, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := s.DeleteExpense("no-such-id")
	assert.ErrorIs(t, err, store.ErrExpenseNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateExpense_Relink(t *testing.T) {
	s, mock, _, cleanup := setupMockStore(t)
	defer cleanup()

	oldGoal := "goal-old"
	newGoal := "goal-new"

	mock.ExpectBegin()
	// 查存量记录
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(expenseRows("exp-1", "300", oldGoal, models.TypeSavings))
	// 回退旧目标
	mock.ExpectQuery("SELECT .* FROM `saving_goals`").
		WillReturnRows(goalRows(oldGoal, "300", "5000"))
	mock.ExpectExec("UPDATE `saving_goals`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// 应用新目标
	mock.ExpectQuery("SELECT .* FROM `saving_goals`").
		WillReturnRows(goalRows(newGoal, "0", "80000"))
	mock.ExpectExec("UPDATE `saving_goals`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// 更新记录本身
	mock.ExpectExec("UPDATE `expenses`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	e := models.Expense{
		ID:     "exp-1",
		Name:   "存钱",
		Date:   time.Now(),
		Type:   models.TypeSavings,
		Amount: dec("450"),
		GoalID: &newGoal,
	}
	require.NoError(t, s.UpdateExpense(e))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalAddAndSubtract(t *testing.T) {
	s, mock, _, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `saving_goals`").
		WillReturnRows(goalRows("goal-1", "100", "5000"))
	mock.ExpectExec("UPDATE `saving_goals`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.AddAmount("goal-1", dec("500")))

	// 负数金额直接拒绝，不触发任何 SQL
	assert.ErrorIs(t, s.SubtractAmount("goal-1", dec("-1")), store.ErrNegativeAmount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGoal_NotFound(t *testing.T) {
	s, mock, _, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `saving_goals`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	g := models.SavingGoal{ID: "missing", Name: "x", TargetAmount: dec("100")}
	err := s.UpdateGoal(g)
	assert.ErrorIs(t, err, store.ErrGoalNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadBudget_NotSet(t *testing.T) {
	s, mock, _, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	b, err := s.LoadBudget()
	require.NoError(t, err)
	assert.Nil(t, b)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveBudget(t *testing.T) {
	s, mock, rec, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `budgets`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	b := models.Budget{Income: dec("10000"), SavingGoal: dec("2000")}
	require.NoError(t, s.SaveBudget(b))

	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, rec.events, 1)
	assert.Equal(t, store.EntityBudget, rec.events[0].Entity)
}

func TestSaveBudget_Invalid(t *testing.T) {
	s, mock, _, cleanup := setupMockStore(t)
	defer cleanup()

	b := models.Budget{Income: dec("1000"), SavingGoal: dec("2000")}
	assert.ErrorIs(t, s.SaveBudget(b), models.ErrInvalidBudget)
	require.NoError(t, mock.ExpectationsWereMet())
}
