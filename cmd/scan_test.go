package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunScanRequiresFileOrProject(t *testing.T) {
	resetScanFlags(t)
	err := runScan(scanCmd, nil)
	assert.Error(t, err)
}

func TestRunScanRejectsInvalidFailOnSeverity(t *testing.T) {
	resetScanFlags(t)
	require.NoError(t, scanCmd.Flags().Set("file", "whatever.js"))
	require.NoError(t, scanCmd.Flags().Set("fail-on", "not-a-severity"))
	err := runScan(scanCmd, nil)
	assert.Error(t, err)
}

func TestRunScanFileReportsFindingsToStdout(t *testing.T) {
	resetScanFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "vuln.js")
	require.NoError(t, os.WriteFile(path, []byte(`function h(req, db) {
  const id = req.query.id;
  db.query(id);
}`), 0o644))

	require.NoError(t, scanCmd.Flags().Set("file", path))
	require.NoError(t, scanCmd.Flags().Set("format", "json"))

	var exitCode int
	oldExit := osExitFunc
	osExitFunc = func(code int) { exitCode = code }
	defer func() { osExitFunc = oldExit }()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	err := runScan(scanCmd, nil)
	w.Close()
	os.Stdout = oldStdout
	var buf bytes.Buffer
	buf.ReadFrom(r)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "sql-injection")
	assert.Equal(t, 0, exitCode) // no --fail-on set
}

func resetScanFlags(t *testing.T) {
	t.Helper()
	require.NoError(t, scanCmd.Flags().Set("file", ""))
	require.NoError(t, scanCmd.Flags().Set("project", ""))
	require.NoError(t, scanCmd.Flags().Set("format", "text"))
	require.NoError(t, scanCmd.Flags().Set("fail-on", ""))
	require.NoError(t, scanCmd.Flags().Set("config", ""))
}
