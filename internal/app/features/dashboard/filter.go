// internal/app/features/dashboard/filter.go
package dashboard

import (
	"strings"

	"github.com/dalemusser/pagepulse/internal/app/store/queries/dashboardqueries"
	"github.com/sahilm/fuzzy"
)

// projectSource adapts a project list to fuzzy.Source, matching on
// name and domain together.
type projectSource []dashboardqueries.ProjectWithViews

func (s projectSource) String(i int) string { return s[i].Name + " " + s[i].Domain }
func (s projectSource) Len() int            { return len(s) }

// filterProjects keeps the projects that fuzzy-match q, in their original
// order. An empty q keeps everything.
func filterProjects(projects []dashboardqueries.ProjectWithViews, q string) []dashboardqueries.ProjectWithViews {
	q = strings.TrimSpace(q)
	if q == "" {
		return projects
	}

	matched := make(map[int]bool)
	for _, m := range fuzzy.FindFrom(q, projectSource(projects)) {
		matched[m.Index] = true
	}

	out := make([]dashboardqueries.ProjectWithViews, 0, len(matched))
	for i, p := range projects {
		if matched[i] {
			out = append(out, p)
		}
	}
	return out
}
