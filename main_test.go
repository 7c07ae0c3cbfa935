package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

func TestMainVersionCommandSucceeds(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"jsflow", "version", "--no-banner"}
	defer func() { os.Args = oldArgs }()

	oldOsExit := osExit
	var exitCode int
	calledExit := false
	osExit = func(code int) {
		exitCode = code
		calledExit = true
	}
	defer func() { osExit = oldOsExit }()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	main()

	w.Close()
	os.Stdout = oldStdout
	var buf bytes.Buffer
	buf.ReadFrom(r)

	assert.False(t, calledExit)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, buf.String(), "Version:")
}

func TestMainUnknownCommandExitsNonZero(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"jsflow", "not-a-real-command"}
	defer func() { os.Args = oldArgs }()

	oldOsExit := osExit
	var exitCode int
	osExit = func(code int) { exitCode = code }
	defer func() { osExit = oldOsExit }()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	main()

	w.Close()
	os.Stdout = oldStdout
	var buf bytes.Buffer
	buf.ReadFrom(r)

	assert.Equal(t, 1, exitCode)
}
