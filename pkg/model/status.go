package model

// ReservationStatus is the closed set of lifecycle states the backend
// reports. Admins move reservations pending → washing → ready →
// finished; users may cancel while still pending.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusWashing   ReservationStatus = "washing"
	StatusReady     ReservationStatus = "ready"
	StatusFinished  ReservationStatus = "finished"
	StatusCancelled ReservationStatus = "cancelled"
)

// AllStatuses lists every member of the enumeration, in lifecycle order.
func AllStatuses() []ReservationStatus {
	return []ReservationStatus{
		StatusPending,
		StatusWashing,
		StatusReady,
		StatusFinished,
		StatusCancelled,
	}
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusWashing, StatusReady, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

// StatusStyle is the presentation triple every listing and detail view
// renders a status with. Color is a CSS class list, Icon a frontend
// icon name, Label the Persian display string.
type StatusStyle struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

// Style returns the presentation for a status. The switch is exhaustive
// over the enumeration; an unknown value (a status added on the backend
// before the gateway learned it) gets a neutral fallback instead of a
// silent zero struct.
func (s ReservationStatus) Style() StatusStyle {
	switch s {
	case StatusPending:
		return StatusStyle{
			Color: "bg-orange-100 text-orange-800 dark:bg-orange-800 dark:text-orange-100",
			Icon:  "clock",
			Label: "در انتظار",
		}
	case StatusWashing:
		return StatusStyle{
			Color: "bg-yellow-100 text-yellow-800 dark:bg-yellow-800 dark:text-yellow-100",
			Icon:  "washing-machine",
			Label: "در حال شستشو",
		}
	case StatusReady:
		return StatusStyle{
			Color: "bg-green-100 text-green-800 dark:bg-green-800 dark:text-green-100",
			Icon:  "alarm-clock-check",
			Label: "آماده تحویل",
		}
	case StatusFinished:
		return StatusStyle{
			Color: "bg-blue-100 text-blue-800 dark:bg-blue-800 dark:text-blue-100",
			Icon:  "bookmark-check",
			Label: "تحویل داده شده",
		}
	case StatusCancelled:
		return StatusStyle{
			Color: "bg-gray-100 text-gray-800 dark:bg-gray-800 dark:text-gray-200",
			Icon:  "bookmark-x",
			Label: "لغو شده",
		}
	default:
		return StatusStyle{
			Color: "bg-gray-100 text-gray-500",
			Icon:  "help-circle",
			Label: "نامشخص",
		}
	}
}
