package taintmodel

// SuggestionKind distinguishes a brand new annotation from one that
// contradicts what the source already declares.
type SuggestionKind string

const (
	SuggestionAdd    SuggestionKind = "add"
	SuggestionModify SuggestionKind = "modify"
)

// PriorityBucket buckets a suggestion by confidence for presentation.
type PriorityBucket string

const (
	PriorityHigh   PriorityBucket = "high"
	PriorityMedium PriorityBucket = "medium"
	PriorityLow    PriorityBucket = "low"
)

// InferredTypeAnnotation is the Annotation Inferrer's output for one
// variable with a definite (non-unknown) solved value.
type InferredTypeAnnotation struct {
	Variable       string         `json:"variable"`
	Location       Location       `json:"location"`
	Value          Taint          `json:"value"`
	Confidence     float64        `json:"confidence"`
	JSDocForm      string         `json:"jsdoc_form"`
	StructuralForm string         `json:"structural_form"`
	Reasoning      []string       `json:"reasoning"`
	Suggestion     SuggestionKind `json:"suggestion"`
	AutoApplicable bool           `json:"auto_applicable"`
	Priority       PriorityBucket `json:"priority"`
}

// AnnotationMetrics summarizes an inference run's quality.
type AnnotationMetrics struct {
	AverageConfidence  float64 `json:"average_confidence"`
	Coverage           float64 `json:"coverage"`
	AcceptanceEstimate float64 `json:"acceptance_estimate"`
}
