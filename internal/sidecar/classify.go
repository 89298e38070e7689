package sidecar

import "strings"

// Severity of a single worker stderr line.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "info"
}

// Classifier decides the severity of a worker stderr line. It is a heuristic
// policy, swappable for testing; stderr is not a structured error channel.
type Classifier func(line string) Severity

// Substrings that mark a stderr line as a worker-reported error condition.
var errorVocabulary = []string{"error", "failed", "exception"}

// DefaultClassifier matches a fixed vocabulary case-insensitively.
// Non-matching lines are routine diagnostics.
func DefaultClassifier(line string) Severity {
	lower := strings.ToLower(line)
	for _, word := range errorVocabulary {
		if strings.Contains(lower, word) {
			return SeverityError
		}
	}
	return SeverityInfo
}
