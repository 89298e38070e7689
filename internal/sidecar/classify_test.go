package sidecar

import "testing"

func TestDefaultClassifierErrorVocabulary(t *testing.T) {
	errLines := []string{
		"download FAILED after 3 attempts",
		"Error: no such file",
		"unhandled EXCEPTION in worker",
		"task failed successfully",
	}
	for _, line := range errLines {
		if got := DefaultClassifier(line); got != SeverityError {
			t.Fatalf("%q: got %v want error severity", line, got)
		}
	}
}

func TestDefaultClassifierRoutineLines(t *testing.T) {
	infoLines := []string{
		"connected to upstream",
		"Python Sidecar starting up...",
		"INFO: request completed in 12ms",
		"",
	}
	for _, line := range infoLines {
		if got := DefaultClassifier(line); got != SeverityInfo {
			t.Fatalf("%q: got %v want info severity", line, got)
		}
	}
}

func TestSeverityString(t *testing.T) {
	if SeverityInfo.String() != "info" || SeverityError.String() != "error" {
		t.Fatalf("unexpected severity strings: %q %q", SeverityInfo, SeverityError)
	}
}
