package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLoggerTimePhase(t *testing.T) {
	l := NewLogger(VerbosityDefault)

	done := l.TimePhase(PhaseSinkDetect)
	time.Sleep(5 * time.Millisecond)
	done()

	timing := l.GetTiming(string(PhaseSinkDetect))
	if timing < 5*time.Millisecond {
		t.Errorf("timing too short: %v", timing)
	}
}

func TestLoggerPhaseDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityDebug, &buf)

	l.PhaseDebug(PhaseDataFlowTrace, "%d issue(s) found", 3)

	out := buf.String()
	if !strings.Contains(out, string(PhaseDataFlowTrace)) {
		t.Errorf("expected phase name in output, got %q", out)
	}
	if !strings.Contains(out, "3 issue(s) found") {
		t.Errorf("expected formatted message in output, got %q", out)
	}
}

func TestLoggerPhaseDebugHiddenBelowDebugVerbosity(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityVerbose, &buf)

	l.PhaseDebug(PhaseParse, "should not appear")

	if buf.Len() != 0 {
		t.Errorf("expected no output below debug verbosity, got %q", buf.String())
	}
}
