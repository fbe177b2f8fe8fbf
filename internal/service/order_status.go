package service

import "crm-commerce/internal/models"

// adminTransitions lists the moves an admin may make from each non-terminal status.
var adminTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:     {models.OrderShipped, models.OrderBackordered, models.OrderCancelled},
	models.OrderBackordered: {models.OrderPending, models.OrderCancelled},
}

// CanTransition reports whether an admin may move an order from one status to another.
func CanTransition(from, to models.OrderStatus) bool {
	for _, allowed := range adminTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CustomerCanCancel reports whether the customer may still cancel an order in status s.
func CustomerCanCancel(s models.OrderStatus) bool {
	switch s {
	case models.OrderShipped, models.OrderCancelled, models.OrderCompleted:
		return false
	}
	return true
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s models.OrderStatus) bool {
	return len(adminTransitions[s]) == 0
}

func validStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderPending, models.OrderShipped, models.OrderBackordered,
		models.OrderCancelled, models.OrderCompleted:
		return true
	}
	return false
}
