// internal/app/features/live/form.go
package live

import (
	"strconv"

	"github.com/dalemusser/pagepulse/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pagepulse/internal/app/system/limits"
	"github.com/dalemusser/pagepulse/internal/app/system/overlay"
	"github.com/dalemusser/pagepulse/internal/app/system/viewdata"
)

const formHint = `After creating the project, paste its <code>&lt;script&gt;</code> snippet into every page you want counted.`

// projectForm is the dialog body: the create-project form. csrfToken is
// embedded because the form posts through the CSRF middleware.
func projectForm(csrfToken string) []*overlay.Node {
	title := overlay.ElText("h2", "text-lg font-semibold mb-4", "New project")

	hint := overlay.El("p", "text-sm text-gray-500 mb-4")
	hint.RawHTML = htmlsanitize.Sanitize(formHint)

	hidden := overlay.El("input", "").
		SetAttr("type", "hidden").
		SetAttr("name", viewdata.CSRFFieldName).
		SetAttr("value", csrfToken)

	form := overlay.El("form", "space-y-4",
		hidden,
		field("Name", "name", "My site", limits.MaxProjectNameLen, true),
		field("Domain", "domain", "example.com", limits.MaxDomainLen, false),
		actions(),
	).SetAttr("method", "post").SetAttr("action", "/projects")

	return []*overlay.Node{title, hint, form}
}

// field is a labelled text input capped at maxLen characters.
func field(label, name, placeholder string, maxLen int, required bool) *overlay.Node {
	in := overlay.El("input", "w-full border rounded px-3 py-2").
		SetAttr("type", "text").
		SetAttr("name", name).
		SetAttr("placeholder", placeholder).
		SetAttr("maxlength", strconv.Itoa(maxLen))
	if required {
		in.SetAttr("required", "required")
	}
	return overlay.El("label", "block",
		overlay.ElText("span", "block text-sm mb-1", label),
		in,
	)
}

func actions() *overlay.Node {
	cancel := overlay.ElText("button", "px-4 py-2 rounded border", "Cancel").
		SetAttr("type", "button").
		SetAttr("data-action", "close")

	submit := overlay.ElText("button", "px-4 py-2 rounded bg-indigo-600 text-white", "Create project").
		SetAttr("type", "submit")

	return overlay.El("div", "flex justify-end gap-2", cancel, submit)
}
