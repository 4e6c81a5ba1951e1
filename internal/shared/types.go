package shared

// Background task types
const (
	TypeRestoreBookStock = "order:restore_stock"
)

// Event types published on the order topic
const (
	EventOrderCompleted = "order.completed"
)
