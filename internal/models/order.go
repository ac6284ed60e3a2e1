package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of a course purchase. Orders are
// written by the billing subsystem; this service only reads them to decide
// entitlement.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
)

// RefundStatus is the state of a refund request against an order.
type RefundStatus string

const (
	RefundStatusRequested RefundStatus = "requested"
	RefundStatusApproved  RefundStatus = "approved"
	RefundStatusRejected  RefundStatus = "rejected"
)

// Order records a user's purchase of a course.
type Order struct {
	ID          int64       `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	CourseID    int64       `json:"course_id"`
	AmountCents int         `json:"amount_cents"`
	Status      OrderStatus `json:"status"`
	PaidAt      *time.Time  `json:"paid_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Refund records a refund decision against an order. An approved refund
// dated after the order's completion revokes the entitlement.
type Refund struct {
	ID        int64        `json:"id"`
	OrderID   int64        `json:"order_id"`
	Status    RefundStatus `json:"status"`
	DecidedAt *time.Time   `json:"decided_at,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
