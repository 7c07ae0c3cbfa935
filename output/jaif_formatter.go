package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/tainthound/jsflow/taintmodel"
)

// JAIFFormatter emits a Checker-Framework-style JAIF document: a plain text
// `variable -> qualifier` map, the optional export spec.md §6 documents.
// There is no teacher precedent for the JAIF text format itself (it has no
// analogue anywhere in the example pack), so the writer shape below follows
// the other formatters' Format(writer, ...) convention rather than any
// JAIF-specific library.
type JAIFFormatter struct {
	writer  io.Writer
	options *OutputOptions
}

// NewJAIFFormatter creates a JAIF formatter.
func NewJAIFFormatter(opts *OutputOptions) *JAIFFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &JAIFFormatter{writer: os.Stdout, options: opts}
}

// NewJAIFFormatterWithWriter creates a formatter with a custom writer (for testing).
func NewJAIFFormatterWithWriter(w io.Writer, opts *OutputOptions) *JAIFFormatter {
	jf := NewJAIFFormatter(opts)
	jf.writer = w
	return jf
}

// taintQualifier maps a lattice value to its JAIF/Checker-Framework-style
// qualifier name.
func taintQualifier(t taintmodel.Taint) string {
	switch t {
	case taintmodel.Tainted:
		return "Tainted"
	case taintmodel.Sanitized:
		return "Sanitized"
	case taintmodel.Untainted:
		return "Untainted"
	default:
		return "Unknown"
	}
}

// Format writes annotations (variable name -> lattice value, as produced by
// AnalysisResult.Annotations) as a single JAIF document.
func (f *JAIFFormatter) Format(file string, annotations map[string]taintmodel.Taint) error {
	fmt.Fprintf(f.writer, "package %s\n", file)

	names := make([]string, 0, len(annotations))
	for name := range annotations {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(f.writer, "field %s: @%s\n", name, taintQualifier(annotations[name]))
	}
	return nil
}
