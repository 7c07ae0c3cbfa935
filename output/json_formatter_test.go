package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/tainthound/jsflow/taintmodel"
)

func TestNewJSONFormatter(t *testing.T) {
	jf := NewJSONFormatter(nil)
	if jf == nil {
		t.Fatal("expected non-nil formatter")
	}
	if jf.options == nil {
		t.Error("expected default options")
	}
}

func TestJSONFormatterStructure(t *testing.T) {
	var buf bytes.Buffer
	jf := NewJSONFormatterWithWriter(&buf, nil)

	issues := []taintmodel.Issue{
		{
			Type:     taintmodel.IssueCommandInjection,
			Severity: taintmodel.SeverityError,
			Message:  `tainted value "user_input" reaches exec via 2 step(s)`,
			Location: taintmodel.Location{File: "auth/login.js", Line: 20, Column: 3},
			SinkFunctionName: "exec",
		},
	}

	scanInfo := ScanInfo{
		Target:        "/project/path",
		Version:       "1.2.3-test",
		FilesAnalyzed: 10,
		Duration:      5 * time.Second,
	}

	if err := jf.Format(issues, 2, scanInfo); err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if out.Tool.Name != "jsflow" {
		t.Errorf("expected tool name jsflow, got %s", out.Tool.Name)
	}
	if out.Scan.Target != "/project/path" {
		t.Errorf("expected target /project/path, got %s", out.Scan.Target)
	}
	if out.Scan.FilesAnalyzed != 10 {
		t.Errorf("expected files_analyzed 10, got %d", out.Scan.FilesAnalyzed)
	}
	if len(out.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(out.Results))
	}
	res := out.Results[0]
	if res.Type != string(taintmodel.IssueCommandInjection) {
		t.Errorf("expected type %s, got %s", taintmodel.IssueCommandInjection, res.Type)
	}
	if res.Location.File != "auth/login.js" || res.Location.Line != 20 {
		t.Errorf("unexpected location: %+v", res.Location)
	}
	if out.Summary.Total != 1 {
		t.Errorf("expected total 1, got %d", out.Summary.Total)
	}
	if out.Summary.AnnotationsInferred != 2 {
		t.Errorf("expected annotations_inferred 2, got %d", out.Summary.AnnotationsInferred)
	}
	if out.Summary.BySeverity["error"] != 1 {
		t.Errorf("expected 1 error severity, got %d", out.Summary.BySeverity["error"])
	}
}

func TestJSONFormatterEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	jf := NewJSONFormatterWithWriter(&buf, nil)

	if err := jf.Format(nil, 0, ScanInfo{Target: "."}); err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if out.Summary.Total != 0 {
		t.Errorf("expected total 0, got %d", out.Summary.Total)
	}
	if len(out.Results) != 0 {
		t.Errorf("expected no results, got %d", len(out.Results))
	}
}

func TestJSONFormatterDefaultVersion(t *testing.T) {
	var buf bytes.Buffer
	jf := NewJSONFormatterWithWriter(&buf, nil)

	if err := jf.Format(nil, 0, ScanInfo{}); err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if out.Tool.Version != "unknown" {
		t.Errorf("expected default version unknown, got %s", out.Tool.Version)
	}
}
