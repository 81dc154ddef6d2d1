package live

import (
	"strconv"
	"strings"
	"testing"

	"github.com/dalemusser/pagepulse/internal/app/system/limits"
	"github.com/dalemusser/pagepulse/internal/app/system/overlay"
)

func findInput(nodes []*overlay.Node, name string) *overlay.Node {
	for _, n := range nodes {
		if n.Tag == "input" && n.Attrs["name"] == name {
			return n
		}
		if found := findInput(n.Children, name); found != nil {
			return found
		}
	}
	return nil
}

func TestProjectForm_FieldLimits(t *testing.T) {
	nodes := projectForm("tok")

	tests := []struct {
		name string
		max  int
	}{
		{"name", limits.MaxProjectNameLen},
		{"domain", limits.MaxDomainLen},
	}
	for _, tt := range tests {
		in := findInput(nodes, tt.name)
		if in == nil {
			t.Fatalf("no %s input", tt.name)
		}
		if got := in.Attrs["maxlength"]; got != strconv.Itoa(tt.max) {
			t.Errorf("%s maxlength: got %s, want %d", tt.name, got, tt.max)
		}
	}

	if findInput(nodes, "domain").Attrs["required"] != "" {
		t.Error("domain should be optional")
	}
}

func TestProjectForm_CarriesCSRFToken(t *testing.T) {
	var b strings.Builder
	for _, n := range projectForm("tok-123") {
		b.WriteString(n.HTML())
	}
	out := b.String()
	if !strings.Contains(out, `value="tok-123"`) {
		t.Errorf("csrf token missing from form: %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("hint not sanitized: %s", out)
	}
}
