package store

// Entity 变更事件涉及的实体类型
type Entity string

// Action 变更事件的动作类型
type Action string

// 实体类型常量
const (
	EntityExpense Entity = "expense"
	EntityGoal    Entity = "goal"
	EntityBudget  Entity = "budget"
)

// 动作类型常量
const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionAdjusted Action = "adjusted" // 储蓄目标已存金额被联动或直接调整
	ActionCleared  Action = "cleared"  // 整个集合被清空
)

// Event 带类型的变更事件，替代无负载的全量刷新广播
// 订阅方可按实体和动作精确刷新，ID 在清空类事件中为空
type Event struct {
	Entity Entity `json:"entity"`
	Action Action `json:"action"`
	ID     string `json:"id,omitempty"`
}

// Notifier 变更事件订阅接口，存储层在每次成功的变更操作后调用
type Notifier interface {
	Notify(ev Event)
}

// NotifierFunc 函数适配器
type NotifierFunc func(ev Event)

// Notify 实现 Notifier
func (f NotifierFunc) Notify(ev Event) {
	f(ev)
}

// MultiNotifier 将事件分发给多个订阅方
type MultiNotifier []Notifier

// Notify 实现 Notifier
func (m MultiNotifier) Notify(ev Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ev)
		}
	}
}

// NopNotifier 空实现，未配置订阅方时使用
type NopNotifier struct{}

// Notify 实现 Notifier
func (NopNotifier) Notify(Event) {}
