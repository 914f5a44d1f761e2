package model

import "time"

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// Reservation is a user's claim on one slot. It is never deleted;
// cancellation is the Cancelled status, applied only while Pending.
type Reservation struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	Slot          TimeSlot          `json:"slot"`
	Status        ReservationStatus `json:"status" validate:"required,reservation_status"`
	PaymentStatus string            `json:"payment_status" validate:"omitempty,oneof=pending completed"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Cancellable reports whether the user may still cancel: only before an
// admin has moved the reservation out of Pending.
func (r *Reservation) Cancellable() bool {
	return r.Status == StatusPending
}
