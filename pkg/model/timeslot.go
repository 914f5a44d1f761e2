package model

import "time"

// TimeSlot is one bookable 30-minute washing-machine window as the
// wizard and the backend exchange it. Start and end are "HH:MM"
// time-of-day strings; the owning date comes from the batch.
type TimeSlot struct {
	ID           string `json:"id" validate:"required"`
	StartTime    string `json:"start_time" validate:"required,hhmm"`
	EndTime      string `json:"end_time" validate:"required,hhmm"`
	Capacity     int    `json:"capacity" validate:"required,min=1,max=5"`
	CapacityLeft int    `json:"capacity_left,omitempty" validate:"omitempty,min=0"`
	Active       bool   `json:"active"`
	Custom       bool   `json:"is_custom"`
}

const (
	DateModeWeekly = "weekly"
	DateModeSingle = "single"
)

// DateSelection drives which calendar dates receive a generated slot
// set: either a recurring weekday set bounded by from/to, or a single
// specific date. All dates are Jalali "YYYY/MM/DD" strings.
type DateSelection struct {
	Mode     string   `json:"mode" validate:"required,oneof=weekly single"`
	Weekdays []string `json:"weekdays,omitempty" validate:"omitempty,max=7,dive,oneof=Saturday Sunday Monday Tuesday Wednesday Thursday Friday"`
	From     string   `json:"from,omitempty" validate:"omitempty,jalali_date"`
	To       string   `json:"to,omitempty" validate:"omitempty,jalali_date"`
	Date     string   `json:"date,omitempty" validate:"omitempty,jalali_date"`
}

// SlotBatch is the wizard's single submission to the backend: the date
// selection plus every slot still active at confirmation time.
type SlotBatch struct {
	Dates     DateSelection `json:"dates" validate:"required"`
	Slots     []TimeSlot    `json:"slots" validate:"required,min=1,dive"`
	CreatedAt time.Time     `json:"created_at"`
}
