package utils

import (
	"strings"
)

// NormalizeTicketNumber trims the value and drops a trailing ".0" left behind
// when a spreadsheet coerced the ticket number into a float.
func NormalizeTicketNumber(raw string) string {
	t := strings.TrimSpace(raw)
	if strings.HasSuffix(t, ".0") {
		t = t[:len(t)-2]
	}
	return t
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SafeFilename reports whether name is a plain file name with no path parts.
func SafeFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsRune(name, 0)
}
