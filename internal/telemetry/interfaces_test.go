package telemetry

import (
	"fmt"
	"testing"
)

func TestPrefixedStampsSubsystemTag(t *testing.T) {
	var lines []string
	base := LoggerFunc(func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	})

	Prefixed(base, "ws").Printf("read failed for %s", "client-1")

	if len(lines) != 1 || lines[0] != "ws: read failed for client-1" {
		t.Fatalf("logged %v, want prefixed line", lines)
	}
}

func TestPrefixedNilLoggerIsSilent(t *testing.T) {
	Prefixed(nil, "ws").Printf("dropped")
}

func TestNilLoggerFuncIsSilent(t *testing.T) {
	var f LoggerFunc
	f.Printf("dropped %d", 1)
}
