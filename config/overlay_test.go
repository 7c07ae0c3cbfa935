package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesOverlayDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jsflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - objects: ["ctx"]
    properties: ["params"]
    category: user-input
    sub_category: custom-framework
    confidence: 0.8
sinks:
  - functions: ["rawQuery"]
    receivers: ["orm"]
    dangerous_arg: 0
    kind: sql-injection
    category: sql-injection
    risk_level: CRITICAL
    confidence: 0.9
sanitizers:
  - sanitizeForDisplay
`), 0o644))

	o, err := Load(path)
	require.NoError(t, err)
	require.Len(t, o.Sources, 1)
	require.Len(t, o.Sinks, 1)
	assert.Equal(t, "ctx", o.Sources[0].Objects[0])
	assert.Equal(t, "sanitizeForDisplay", o.Sanitizers[0])
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyRegistersOverlayEntries(t *testing.T) {
	o := &Overlay{
		Sources: []SourceEntry{
			{Functions: []string{"customFetch"}, Category: "network-input", SubCategory: "custom", Confidence: 0.8},
		},
		Sinks: []SinkEntry{
			{Functions: []string{"rawQuery"}, Receivers: []string{"orm"}, Kind: "sql-injection", Category: "sql-injection", RiskLevel: "CRITICAL", Confidence: 0.9},
		},
		Sanitizers: []string{"sanitizeForDisplay"},
	}
	require.NoError(t, o.Apply())
}

func TestApplyRejectsUnknownSinkKind(t *testing.T) {
	o := &Overlay{Sinks: []SinkEntry{{Functions: []string{"x"}, Kind: "not-a-kind", RiskLevel: "CRITICAL"}}}
	assert.Error(t, o.Apply())
}
