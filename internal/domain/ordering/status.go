package ordering

// RequestStatus is the lifecycle status of an order request envelope.
// PENDING resolves to APPROVED or REJECTED; both are terminal.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// IsValid checks if the status is a valid RequestStatus
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of RequestStatus
func (s RequestStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the request has been resolved
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// CanTransitionTo checks if the status can transition to the target status
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	if s != RequestStatusPending {
		return false
	}
	return target == RequestStatusApproved || target == RequestStatusRejected
}

// OrderStatus is the lifecycle status of an order derived from an approved
// request. PENDING → PROCESSING → COMPLETED is the happy path; CANCELLED and
// REFUNDED are reachable from any non-terminal state.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted,
		OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states that admit no further transitions
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch target {
	case OrderStatusCancelled, OrderStatusRefunded:
		return true
	case OrderStatusProcessing:
		return s == OrderStatusPending
	case OrderStatusCompleted:
		return s == OrderStatusProcessing
	}
	return false
}
