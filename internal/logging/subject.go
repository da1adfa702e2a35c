package logging

import (
	"strconv"
	"strings"
)

// FormatSubject builds the session/page/phase subject string used in console output.
func FormatSubject(sessionID string, page int, phase string) string {
	sessionID = strings.TrimSpace(sessionID)
	phase = strings.TrimSpace(phase)
	parts := make([]string, 0, 2)
	if sessionID != "" {
		if len(sessionID) > 8 {
			sessionID = sessionID[:8]
		}
		parts = append(parts, "Session "+sessionID)
	}
	switch {
	case page > 0 && phase != "":
		parts = append(parts, "Page "+strconv.Itoa(page)+" ("+phase+")")
	case page > 0:
		parts = append(parts, "Page "+strconv.Itoa(page))
	case phase != "":
		parts = append(parts, capitalizeASCII(phase))
	}
	return strings.Join(parts, " · ")
}
