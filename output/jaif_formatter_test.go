package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tainthound/jsflow/taintmodel"
)

func TestJAIFFormatterWritesSortedQualifiers(t *testing.T) {
	var buf bytes.Buffer
	f := NewJAIFFormatterWithWriter(&buf, nil)

	err := f.Format("handler.js", map[string]taintmodel.Taint{
		"userId": taintmodel.Tainted,
		"query":  taintmodel.Untainted,
	})

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "package handler.js\n")
	assert.Contains(t, out, "field query: @Untainted\n")
	assert.Contains(t, out, "field userId: @Tainted\n")
}

func TestJAIFFormatterHandlesEmptyAnnotations(t *testing.T) {
	var buf bytes.Buffer
	f := NewJAIFFormatterWithWriter(&buf, nil)

	err := f.Format("clean.js", map[string]taintmodel.Taint{})

	assert.NoError(t, err)
	assert.Equal(t, "package clean.js\n", buf.String())
}
