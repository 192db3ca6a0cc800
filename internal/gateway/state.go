package gateway

// RequestState tracks one request through the orchestration steps.
type RequestState string

const (
	StateStarted           RequestState = "STARTED"
	StateOrderPending      RequestState = "ORDER_PENDING"
	StateOrderFailed       RequestState = "ORDER_FAILED"
	StateOrderCreated      RequestState = "ORDER_CREATED"
	StateInventoryPending  RequestState = "INVENTORY_PENDING"
	StateInventoryFailed   RequestState = "INVENTORY_FAILED"
	StateInventoryReserved RequestState = "INVENTORY_RESERVED"
	StateCompleted         RequestState = "COMPLETED"
)

// ORDER_FAILED, INVENTORY_FAILED and COMPLETED are terminal.
// INVENTORY_FAILED still means the order exists.
var validNext = map[RequestState]map[RequestState]bool{
	StateStarted:           {StateOrderPending: true},
	StateOrderPending:      {StateOrderFailed: true, StateOrderCreated: true},
	StateOrderCreated:      {StateInventoryPending: true, StateCompleted: true},
	StateInventoryPending:  {StateInventoryFailed: true, StateInventoryReserved: true},
	StateInventoryReserved: {StateCompleted: true},
	StateOrderFailed:       {},
	StateInventoryFailed:   {},
	StateCompleted:         {},
}

func CanTransition(from, to RequestState) bool {
	return validNext[from][to]
}
