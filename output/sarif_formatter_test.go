package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tainthound/jsflow/taintmodel"
)

func TestNewSARIFFormatter(t *testing.T) {
	sf := NewSARIFFormatter(nil)
	assert.NotNil(t, sf)
	assert.NotNil(t, sf.writer)
	assert.NotNil(t, sf.options)
}

func TestSARIFFormatterVersion(t *testing.T) {
	var buf bytes.Buffer
	sf := NewSARIFFormatterWithWriter(&buf, nil)

	issues := []taintmodel.Issue{
		{
			Type:     taintmodel.IssueSQLInjection,
			Severity: taintmodel.SeverityError,
			Message:  "tainted value reaches a SQL query",
			Location: taintmodel.Location{File: "test.js", Line: 1, Column: 1},
		},
	}

	err := sf.Format(issues)
	require.NoError(t, err)

	var report map[string]interface{}
	err = json.Unmarshal(buf.Bytes(), &report)
	require.NoError(t, err)

	assert.Equal(t, "2.1.0", report["version"])
}

func TestSARIFFormatterBuildsRuleAndResult(t *testing.T) {
	var buf bytes.Buffer
	sf := NewSARIFFormatterWithWriter(&buf, nil)

	issues := []taintmodel.Issue{
		{
			Type:             taintmodel.IssueCommandInjection,
			Severity:         taintmodel.SeverityError,
			Message:          "tainted value reaches exec",
			Location:         taintmodel.Location{File: "handler.js", Line: 5, Column: 2},
			SinkFunctionName: "exec",
		},
	}

	require.NoError(t, sf.Format(issues))

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))

	runs := report["runs"].([]interface{})
	require.Len(t, runs, 1)
	run := runs[0].(map[string]interface{})

	tool := run["tool"].(map[string]interface{})
	driver := tool["driver"].(map[string]interface{})
	rules := driver["rules"].([]interface{})
	require.Len(t, rules, 1)
	rule := rules[0].(map[string]interface{})
	assert.Equal(t, string(taintmodel.IssueCommandInjection), rule["id"])

	results := run["results"].([]interface{})
	require.Len(t, results, 1)
}

func TestSARIFFormatterEmptyIssues(t *testing.T) {
	var buf bytes.Buffer
	sf := NewSARIFFormatterWithWriter(&buf, nil)

	require.NoError(t, sf.Format(nil))

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "2.1.0", report["version"])
}
