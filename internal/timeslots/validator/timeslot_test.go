package validator

import (
	"testing"
	"time"

	"laundromat/pkg/logger"
	"laundromat/pkg/model"
)

func newTestValidator() *TimeSlotValidator {
	log := logger.New(logger.Config{Level: "error"})
	return NewTimeSlotValidator(log, 30)
}

func TestValidateTimes(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{name: "exactly one slot", start: "14:00", end: "14:30", wantErr: false},
		{name: "longer span", start: "08:00", end: "12:00", wantErr: false},
		{name: "one minute short", start: "14:00", end: "14:29", wantErr: true},
		{name: "end equals start", start: "14:00", end: "14:00", wantErr: true},
		{name: "end before start", start: "18:00", end: "14:00", wantErr: true},
		{name: "bad start format", start: "2pm", end: "14:30", wantErr: true},
		{name: "bad end format", start: "14:00", end: "1430", wantErr: true},
		{name: "unpadded hour", start: "8:00", end: "9:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateTimes(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimes(%q, %q) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}

func TestValidateBatch(t *testing.T) {
	v := newTestValidator()

	valid := &model.SlotBatch{
		Dates: model.DateSelection{
			Mode:     model.DateModeWeekly,
			Weekdays: []string{"Saturday"},
			From:     "1404/08/01",
			To:       "1404/08/30",
		},
		Slots: []model.TimeSlot{
			{ID: "slot-1", StartTime: "14:00", EndTime: "14:30", Capacity: 2, Active: true},
		},
		CreatedAt: time.Now(),
	}

	if err := v.ValidateBatch(valid); err != nil {
		t.Errorf("ValidateBatch(valid) returned error: %v", err)
	}
}

func TestValidateBatch_Invalid(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name  string
		batch *model.SlotBatch
	}{
		{
			name: "no slots",
			batch: &model.SlotBatch{
				Dates: model.DateSelection{Mode: model.DateModeSingle, Date: "1404/08/08"},
			},
		},
		{
			name: "capacity above max",
			batch: &model.SlotBatch{
				Dates: model.DateSelection{Mode: model.DateModeSingle, Date: "1404/08/08"},
				Slots: []model.TimeSlot{
					{ID: "slot-1", StartTime: "14:00", EndTime: "14:30", Capacity: 6},
				},
			},
		},
		{
			name: "bad jalali date",
			batch: &model.SlotBatch{
				Dates: model.DateSelection{Mode: model.DateModeSingle, Date: "1404/13/01"},
				Slots: []model.TimeSlot{
					{ID: "slot-1", StartTime: "14:00", EndTime: "14:30", Capacity: 2},
				},
			},
		},
		{
			name: "slot shorter than duration",
			batch: &model.SlotBatch{
				Dates: model.DateSelection{Mode: model.DateModeSingle, Date: "1404/08/08"},
				Slots: []model.TimeSlot{
					{ID: "slot-1", StartTime: "14:00", EndTime: "14:15", Capacity: 2},
				},
			},
		},
		{
			name: "slot times reversed",
			batch: &model.SlotBatch{
				Dates: model.DateSelection{Mode: model.DateModeSingle, Date: "1404/08/08"},
				Slots: []model.TimeSlot{
					{ID: "slot-1", StartTime: "15:00", EndTime: "14:00", Capacity: 2},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.ValidateBatch(tt.batch); err == nil {
				t.Errorf("ValidateBatch(%s) expected error, got nil", tt.name)
			}
		})
	}
}
