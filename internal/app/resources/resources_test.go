package resources_test

import (
	"html/template"
	"strings"
	"testing"

	"github.com/dalemusser/pagepulse/internal/app/resources"
)

func TestFoot_OverlayRootIsBodyChild(t *testing.T) {
	tmpl, err := template.ParseFS(resources.FS, "templates/*.gohtml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, "foot", struct{ SiteName string }{"PagePulse"}); err != nil {
		t.Fatalf("execute foot: %v", err)
	}
	out := b.String()

	mainEnd := strings.Index(out, "</main>")
	root := strings.Index(out, `<div id="overlay-root"></div>`)
	bodyEnd := strings.Index(out, "</body>")
	if mainEnd < 0 || root < 0 || bodyEnd < 0 {
		t.Fatalf("foot missing markers:\n%s", out)
	}
	if !(mainEnd < root && root < bodyEnd) {
		t.Errorf("overlay-root must sit between </main> and </body>:\n%s", out)
	}
}
