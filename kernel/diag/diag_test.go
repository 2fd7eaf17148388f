package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestDumpRendersStructFields(t *testing.T) {
	var out bytes.Buffer

	type sample struct {
		Name  string
		Value uint32
	}

	Dump(&out, sample{Name: "eax", Value: 42})

	rendered := out.String()
	if !strings.Contains(rendered, "Name") || !strings.Contains(rendered, "eax") {
		t.Fatalf("expected dump to mention the Name field and its value; got %q", rendered)
	}
	if !strings.Contains(rendered, "Value") || !strings.Contains(rendered, "42") {
		t.Fatalf("expected dump to mention the Value field and its value; got %q", rendered)
	}
}
