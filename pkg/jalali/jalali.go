// Package jalali converts between Gregorian dates and their Jalali
// (Persian solar hijri) representation. The UI speaks Jalali
// "YYYY/MM/DD" strings; the backend keys everything by Gregorian dates.
//
// Failures are real errors, not nil/zero sentinels, so callers cannot
// forget the "cannot resolve" case.
package jalali

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

var (
	ErrFormat = errors.New("jalali date must be YYYY/MM/DD")
	ErrDate   = errors.New("no such jalali date")
)

// FromTime formats the Gregorian date as a zero-padded Jalali
// "YYYY/MM/DD" string, e.g. 2025-10-30 -> "1404/08/08".
func FromTime(t time.Time) string {
	return ptime.New(t).Format("yyyy/MM/dd")
}

// ToTime parses a Jalali "YYYY/MM/DD" string and returns the same
// calendar date as a Gregorian time at noon, Iran time. Noon keeps the
// date stable across timezone conversions either side of midnight.
func ToTime(s string) (time.Time, error) {
	year, month, day, err := split(s)
	if err != nil {
		return time.Time{}, err
	}

	pt := ptime.Date(year, ptime.Month(month), day, 12, 0, 0, 0, ptime.Iran())

	// ptime.Date normalizes out-of-range components (1402/12/31 rolls
	// into the next year) instead of failing; a round-trip mismatch
	// means the input named a day that does not exist.
	if pt.Year() != year || int(pt.Month()) != month || pt.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %s", ErrDate, s)
	}

	return pt.Time(), nil
}

// DayOfYear returns the 1-based ordinal of the date within its Jalali
// year, used to highlight active days in the calendar widget.
func DayOfYear(s string) (int, error) {
	t, err := ToTime(s)
	if err != nil {
		return 0, err
	}
	return ptime.New(t).YearDay(), nil
}

func split(s string) (year, month, day int, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, convErr := strconv.Atoi(p)
		if convErr != nil || n <= 0 {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrFormat, s)
		}
		nums[i] = n
	}

	if nums[1] < 1 || nums[1] > 12 || nums[2] < 1 || nums[2] > 31 {
		return 0, 0, 0, fmt.Errorf("%w: %s", ErrDate, s)
	}

	return nums[0], nums[1], nums[2], nil
}
