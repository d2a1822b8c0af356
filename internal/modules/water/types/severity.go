package types

import "strings"

// Severity is the display tier of a status string. Devices classify their own
// readings; the tier only decides how the status is styled.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeveritySafe
	SeverityWarning
	SeverityFailed
)

var severityClasses = [...]string{
	SeverityNeutral: "neutral",
	SeveritySafe:    "safe",
	SeverityWarning: "warning",
	SeverityFailed:  "failed",
}

var severityByStatus = map[string]Severity{
	"safe":    SeveritySafe,
	"neutral": SeverityNeutral,
	"warning": SeverityWarning,
	"failed":  SeverityFailed,
}

// SeverityOf maps a status to its tier. Matching ignores case and surrounding
// space; anything outside the closed set, "Unknown" included, is neutral.
func SeverityOf(status string) Severity {
	if s, ok := severityByStatus[strings.ToLower(strings.TrimSpace(status))]; ok {
		return s
	}
	return SeverityNeutral
}

// Class is the tier's CSS suffix, e.g. "safe" for status-safe.
func (s Severity) Class() string {
	if s < 0 || int(s) >= len(severityClasses) {
		return severityClasses[SeverityNeutral]
	}
	return severityClasses[s]
}

func (s Severity) String() string { return s.Class() }
