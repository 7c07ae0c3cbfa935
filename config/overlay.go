// Package config loads a YAML recognition-table overlay that extends the
// Source Detector (C2), Sink Detector (C3), and the shared sanitizer table
// (internal/dataflow) with project-specific entries at runtime, mirroring
// the structure (not the remote manifest/bundle distribution machinery) of
// the teacher's ruleset.Manifest: a small declarative document parsed with
// gopkg.in/yaml.v3, exactly the way graph/parser_yaml.go parses
// docker-compose documents into Go structs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tainthound/jsflow/internal/dataflow"
	"github.com/tainthound/jsflow/internal/sink"
	"github.com/tainthound/jsflow/internal/source"
	"github.com/tainthound/jsflow/taintmodel"
)

// Overlay is the parsed shape of a jsflow config document. All fields are
// additive: an overlay never removes a built-in recognition entry, it only
// extends the tables the detectors already consult.
type Overlay struct {
	Sources    []SourceEntry `yaml:"sources"`
	Sinks      []SinkEntry   `yaml:"sinks"`
	Sanitizers []string      `yaml:"sanitizers"`
}

// SourceEntry describes one additional taint source recognized either by
// object.property access (Objects+Properties set) or by bare/dotted call
// name (Functions set). Exactly one of the two forms should be populated.
type SourceEntry struct {
	Objects     []string `yaml:"objects"`
	Properties  []string `yaml:"properties"`
	Functions   []string `yaml:"functions"`
	Category    string   `yaml:"category"`
	SubCategory string   `yaml:"sub_category"`
	Confidence  float64  `yaml:"confidence"`
}

// SinkEntry describes one additional dangerous call recognized by bare or
// receiver-qualified name.
type SinkEntry struct {
	Functions    []string `yaml:"functions"`
	Receivers    []string `yaml:"receivers"`
	DangerousArg int      `yaml:"dangerous_arg"`
	Kind         string   `yaml:"kind"`
	Category     string   `yaml:"category"`
	RiskLevel    string   `yaml:"risk_level"`
	Confidence   float64  `yaml:"confidence"`
}

// Load reads and parses an overlay document from path.
func Load(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config overlay: %w", err)
	}
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse config overlay: %w", err)
	}
	return &o, nil
}

// Apply registers every entry in the overlay against the source, sink, and
// sanitizer recognition tables. It is meant to run once, before the first
// AnalyzeFile/AnalyzeProject call — the tables it mutates are the package
// level vars internal/source, internal/sink and internal/dataflow treat as
// immutable-after-startup shared state (spec.md §5's "recognition tables
// are immutable and freely shared").
func (o *Overlay) Apply() error {
	for _, s := range o.Sources {
		cat := taintmodel.SourceCategory(s.Category)
		if len(s.Objects) > 0 {
			source.RegisterPropertyRule(source.OverlayPropertyRule{
				Objects:     s.Objects,
				Properties:  s.Properties,
				Category:    cat,
				SubCategory: s.SubCategory,
				Confidence:  s.Confidence,
			})
		}
		if len(s.Functions) > 0 {
			source.RegisterFunctionRule(source.OverlayFunctionRule{
				Names:       s.Functions,
				Category:    cat,
				SubCategory: s.SubCategory,
				Confidence:  s.Confidence,
			})
		}
	}

	for _, s := range o.Sinks {
		kind, err := parseSinkKind(s.Kind)
		if err != nil {
			return err
		}
		risk, err := parseRiskLevel(s.RiskLevel)
		if err != nil {
			return err
		}
		sink.RegisterRule(sink.OverlayRule{
			Names:        s.Functions,
			Receivers:    s.Receivers,
			DangerousArg: s.DangerousArg,
			Kind:         kind,
			Category:     s.Category,
			RiskLevel:    risk,
			Confidence:   s.Confidence,
		})
	}

	for _, name := range o.Sanitizers {
		dataflow.RegisterSanitizerName(name)
	}
	return nil
}

func parseSinkKind(v string) (taintmodel.SinkKind, error) {
	switch taintmodel.SinkKind(v) {
	case taintmodel.SinkSQLInjection, taintmodel.SinkPathTraversal, taintmodel.SinkCommandInjection,
		taintmodel.SinkXSS, taintmodel.SinkCodeInjection, taintmodel.SinkFileWrite:
		return taintmodel.SinkKind(v), nil
	default:
		return "", fmt.Errorf("config overlay: unknown sink kind %q", v)
	}
}

func parseRiskLevel(v string) (taintmodel.RiskLevel, error) {
	switch taintmodel.RiskLevel(v) {
	case taintmodel.RiskCritical, taintmodel.RiskHigh, taintmodel.RiskMedium, taintmodel.RiskLow:
		return taintmodel.RiskLevel(v), nil
	default:
		return "", fmt.Errorf("config overlay: unknown risk level %q", v)
	}
}
