package errors

import "errors"

var (
	ErrDraftNotFound = errors.New("wizard draft not found")
	ErrWrongState    = errors.New("operation not allowed in current state")
	ErrSlotNotFound  = errors.New("slot not found in draft")
	ErrNotCustom     = errors.New("only custom slots can be removed")
	ErrNoActiveSlots = errors.New("draft has no active slots")
	ErrWindowOrder   = errors.New("window end must be after start")
	ErrWindowShort   = errors.New("window shorter than one slot")
	ErrCapacity      = errors.New("capacity out of range")
	ErrTimeFormat    = errors.New("time must be HH:MM")
	ErrDateRange     = errors.New("date range start must not be after end")
	ErrDatesMissing  = errors.New("date selection incomplete")
)
