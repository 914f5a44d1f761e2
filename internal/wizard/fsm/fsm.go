// Package fsm holds the slot-wizard state machine. Every transition is
// an explicit named step with typed guards; an invalid request leaves
// the draft exactly as it was.
package fsm

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	wizarderrors "laundromat/internal/wizard/errors"
	"laundromat/pkg/jalali"
	"laundromat/pkg/model"
)

type State string

const (
	StateDateSelection State = "date_selection"
	StateTimeWindow    State = "time_window"
	StateSlotReview    State = "slot_review"
	StateSummary       State = "summary"
	StateSuccess       State = "success"
)

// Limits are the product bounds the guards enforce.
type Limits struct {
	SlotDuration      int
	MaxCapacity       int
	MaxCustomCapacity int
}

// Window is the admin's overall working window for one schedule.
type Window struct {
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	Capacity  int    `json:"capacity" validate:"required,min=1,max=5"`
}

// Draft is one in-progress wizard run. It is the unit the store
// persists between requests.
type Draft struct {
	ID        string              `json:"id"`
	State     State               `json:"state"`
	Dates     model.DateSelection `json:"dates"`
	Window    Window              `json:"window"`
	Slots     []model.TimeSlot    `json:"slots"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func NewDraft() *Draft {
	now := time.Now().UTC()
	return &Draft{
		ID:        uuid.NewString(),
		State:     StateDateSelection,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SelectDates records which calendar dates the schedule targets and
// advances to the time-window step.
func (d *Draft) SelectDates(sel model.DateSelection) error {
	if d.State != StateDateSelection {
		return d.wrongState("select dates")
	}

	switch sel.Mode {
	case model.DateModeWeekly:
		if len(sel.Weekdays) == 0 || sel.From == "" || sel.To == "" {
			return wizarderrors.ErrDatesMissing
		}
		from, err := jalali.ToTime(sel.From)
		if err != nil {
			return err
		}
		to, err := jalali.ToTime(sel.To)
		if err != nil {
			return err
		}
		if from.After(to) {
			return fmt.Errorf("%w: %s > %s", wizarderrors.ErrDateRange, sel.From, sel.To)
		}
	case model.DateModeSingle:
		if sel.Date == "" {
			return wizarderrors.ErrDatesMissing
		}
		if _, err := jalali.ToTime(sel.Date); err != nil {
			return err
		}
	default:
		return wizarderrors.ErrDatesMissing
	}

	d.Dates = sel
	d.advance(StateTimeWindow)
	return nil
}

// SetWindow validates the working window, regenerates the slot set and
// advances to review. Custom slots added on an earlier pass survive
// regeneration.
func (d *Draft) SetWindow(w Window, limits Limits) error {
	if d.State != StateTimeWindow {
		return d.wrongState("set window")
	}

	start, err := ParseHHMM(w.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseHHMM(w.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return fmt.Errorf("%w: %s >= %s", wizarderrors.ErrWindowOrder, w.StartTime, w.EndTime)
	}
	if end-start < limits.SlotDuration {
		return fmt.Errorf("%w: %d minutes", wizarderrors.ErrWindowShort, end-start)
	}
	if w.Capacity < 1 || w.Capacity > limits.MaxCapacity {
		return fmt.Errorf("%w: %d", wizarderrors.ErrCapacity, w.Capacity)
	}

	custom := d.customSlots()
	d.Window = w
	d.Slots = append(GenerateSlots(start, end, w.Capacity, limits.SlotDuration), custom...)
	d.advance(StateSlotReview)
	return nil
}

// ToggleSlot flips one slot between active and deactivated. Generated
// slots are never removed from the set, only deactivated.
func (d *Draft) ToggleSlot(id string) error {
	if d.State != StateSlotReview {
		return d.wrongState("toggle slot")
	}
	slot := d.findSlot(id)
	if slot == nil {
		return fmt.Errorf("%w: %s", wizarderrors.ErrSlotNotFound, id)
	}
	slot.Active = !slot.Active
	d.touch()
	return nil
}

// SetSlotCapacity adjusts one slot's capacity. Custom slots carry a
// tighter upper bound than generated ones.
func (d *Draft) SetSlotCapacity(id string, capacity int, limits Limits) error {
	if d.State != StateSlotReview {
		return d.wrongState("set slot capacity")
	}
	slot := d.findSlot(id)
	if slot == nil {
		return fmt.Errorf("%w: %s", wizarderrors.ErrSlotNotFound, id)
	}

	limit := limits.MaxCapacity
	if slot.Custom {
		limit = limits.MaxCustomCapacity
	}
	if capacity < 1 || capacity > limit {
		return fmt.Errorf("%w: %d", wizarderrors.ErrCapacity, capacity)
	}

	slot.Capacity = capacity
	slot.CapacityLeft = capacity
	d.touch()
	return nil
}

// AddCustomSlot appends an admin-defined slot outside the generated
// grid.
func (d *Draft) AddCustomSlot(startTime, endTime string, capacity int, limits Limits) error {
	if d.State != StateSlotReview {
		return d.wrongState("add custom slot")
	}

	start, err := ParseHHMM(startTime)
	if err != nil {
		return err
	}
	end, err := ParseHHMM(endTime)
	if err != nil {
		return err
	}
	if end <= start {
		return fmt.Errorf("%w: %s >= %s", wizarderrors.ErrWindowOrder, startTime, endTime)
	}
	if end-start < limits.SlotDuration {
		return fmt.Errorf("%w: %d minutes", wizarderrors.ErrWindowShort, end-start)
	}
	if capacity < 1 || capacity > limits.MaxCustomCapacity {
		return fmt.Errorf("%w: %d", wizarderrors.ErrCapacity, capacity)
	}

	d.Slots = append(d.Slots, model.TimeSlot{
		ID:           "custom-" + uuid.NewString(),
		StartTime:    FormatHHMM(start),
		EndTime:      FormatHHMM(end),
		Capacity:     capacity,
		CapacityLeft: capacity,
		Active:       true,
		Custom:       true,
	})
	d.touch()
	return nil
}

// RemoveCustomSlot deletes a custom slot from the draft. Generated
// slots cannot be removed, only deactivated via ToggleSlot.
func (d *Draft) RemoveCustomSlot(id string) error {
	if d.State != StateSlotReview {
		return d.wrongState("remove custom slot")
	}
	slot := d.findSlot(id)
	if slot == nil {
		return fmt.Errorf("%w: %s", wizarderrors.ErrSlotNotFound, id)
	}
	if !slot.Custom {
		return fmt.Errorf("%w: %s", wizarderrors.ErrNotCustom, id)
	}

	kept := d.Slots[:0]
	for _, s := range d.Slots {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	d.Slots = kept
	d.touch()
	return nil
}

// Confirm freezes the slot set and advances to the summary step.
func (d *Draft) Confirm() error {
	if d.State != StateSlotReview {
		return d.wrongState("confirm")
	}
	if d.activeCount() == 0 {
		return wizarderrors.ErrNoActiveSlots
	}
	d.advance(StateSummary)
	return nil
}

// Batch assembles the submission payload from the summary state. Only
// active slots are included.
func (d *Draft) Batch() (*model.SlotBatch, error) {
	if d.State != StateSummary {
		return nil, d.wrongState("build batch")
	}

	slots := make([]model.TimeSlot, 0, len(d.Slots))
	for _, s := range d.Slots {
		if s.Active {
			slots = append(slots, s)
		}
	}

	return &model.SlotBatch{
		Dates:     d.Dates,
		Slots:     slots,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// MarkSubmitted records a successful backend submission. A failed
// submission never calls this, so the draft stays on summary and the
// admin can retry.
func (d *Draft) MarkSubmitted() error {
	if d.State != StateSummary {
		return d.wrongState("mark submitted")
	}
	d.advance(StateSuccess)
	return nil
}

// Back steps to the previous wizard page. Collected data is kept, so
// re-running a step starts from what was already entered.
func (d *Draft) Back() error {
	switch d.State {
	case StateTimeWindow:
		d.advance(StateDateSelection)
	case StateSlotReview:
		d.advance(StateTimeWindow)
	case StateSummary:
		d.advance(StateSlotReview)
	default:
		return d.wrongState("back")
	}
	return nil
}

// Reset discards all collected data and returns the draft to the first
// step. The draft id survives so the client keeps its handle.
func (d *Draft) Reset() {
	d.State = StateDateSelection
	d.Dates = model.DateSelection{}
	d.Window = Window{}
	d.Slots = nil
	d.touch()
}

func (d *Draft) activeCount() int {
	n := 0
	for _, s := range d.Slots {
		if s.Active {
			n++
		}
	}
	return n
}

func (d *Draft) customSlots() []model.TimeSlot {
	var out []model.TimeSlot
	for _, s := range d.Slots {
		if s.Custom {
			out = append(out, s)
		}
	}
	return out
}

func (d *Draft) findSlot(id string) *model.TimeSlot {
	for i := range d.Slots {
		if d.Slots[i].ID == id {
			return &d.Slots[i]
		}
	}
	return nil
}

func (d *Draft) advance(next State) {
	d.State = next
	d.touch()
}

func (d *Draft) touch() {
	d.UpdatedAt = time.Now().UTC()
}

func (d *Draft) wrongState(op string) error {
	return fmt.Errorf("%w: cannot %s in %s", wizarderrors.ErrWrongState, op, d.State)
}
