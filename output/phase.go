package output

// Phase names one stage of the taint-analysis pipeline (spec.md §4's C1-C9
// components). Keying timing and debug output by Phase rather than an
// ad-hoc string keeps -v/-vv output in lockstep with the engine's own
// pipeline stages instead of drifting into free-text labels.
type Phase string

const (
	PhaseParse             Phase = "parse"
	PhaseSourceDetect      Phase = "source-detect"
	PhaseSinkDetect        Phase = "sink-detect"
	PhaseConstraintExtract Phase = "constraint-extract"
	PhaseDataFlowTrace     Phase = "data-flow-trace"
	PhasePatternMatch      Phase = "pattern-match"
	PhaseSolve             Phase = "solve"
	PhaseAnnotationInfer   Phase = "annotation-infer"
)

// TimePhase starts timing a pipeline phase and returns the stop func, same
// as StartTiming but keyed by the typed Phase so GetTiming/PrintTimingSummary
// report the engine's own stage names.
func (l *Logger) TimePhase(phase Phase) func() {
	return l.StartTiming(string(phase))
}

// PhaseDebug logs a debug line attributed to a pipeline phase.
func (l *Logger) PhaseDebug(phase Phase, format string, args ...interface{}) {
	l.Debug("[%s] "+format, append([]interface{}{phase}, args...)...)
}
