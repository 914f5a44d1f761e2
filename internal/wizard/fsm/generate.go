package fsm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	wizarderrors "laundromat/internal/wizard/errors"
	"laundromat/pkg/model"
)

var hhmmRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ParseHHMM converts a zero-padded "HH:MM" string to minutes since
// midnight.
func ParseHHMM(s string) (int, error) {
	if !hhmmRegex.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", wizarderrors.ErrTimeFormat, s)
	}
	parts := strings.SplitN(s, ":", 2)
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return hours*60 + minutes, nil
}

// FormatHHMM renders minutes since midnight as zero-padded "HH:MM".
func FormatHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// GenerateSlots partitions the window into consecutive slots of the
// fixed duration. A trailing remainder shorter than one slot is
// dropped: 08:00-09:10 with 30-minute slots yields exactly two.
func GenerateSlots(startMin, endMin, capacity, duration int) []model.TimeSlot {
	count := (endMin - startMin) / duration
	slots := make([]model.TimeSlot, 0, count)
	for i := 0; i < count; i++ {
		from := startMin + i*duration
		slots = append(slots, model.TimeSlot{
			ID:           fmt.Sprintf("slot-%d", i+1),
			StartTime:    FormatHHMM(from),
			EndTime:      FormatHHMM(from + duration),
			Capacity:     capacity,
			CapacityLeft: capacity,
			Active:       true,
		})
	}
	return slots
}
