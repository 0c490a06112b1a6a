package utils

import (
	"strconv"
	"strings"
)

// Slot dates travel on the wire as DD_MM_YYYY (e.g. "20_01_2026") and are
// shown as "20 Jan 2026".

const invalidDateDisplay = "Invalid Date"

var monthAbbrevs = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// ValidSlotDate reports whether s is a well-formed DD_MM_YYYY date key.
func ValidSlotDate(s string) bool {
	day, month, year, ok := splitSlotDate(s)
	if !ok {
		return false
	}
	return day >= 1 && day <= 31 && month >= 1 && month <= 12 && year >= 1
}

// FormatSlotDate renders a date key for display. Malformed input yields
// the literal "Invalid Date" rather than an error, matching what clients
// show for corrupt data.
func FormatSlotDate(s string) string {
	day, month, year, ok := splitSlotDate(s)
	if !ok || month < 1 || month > 12 {
		return invalidDateDisplay
	}
	return strconv.Itoa(day) + " " + monthAbbrevs[month-1] + " " + strconv.Itoa(year)
}

func splitSlotDate(s string) (day, month, year int, ok bool) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var err error
	if day, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, false
	}
	if year, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, false
	}
	return day, month, year, true
}
