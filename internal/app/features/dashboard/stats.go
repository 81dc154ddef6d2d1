// internal/app/features/dashboard/stats.go
package dashboard

import "github.com/dalemusser/pagepulse/internal/app/store/queries/dashboardqueries"

// Stats are the dashboard's headline totals.
type Stats struct {
	TotalProjects  int
	TotalPageViews int64
	// ActiveProjects counts projects with at least one page view.
	ActiveProjects int
}

// ComputeStats reduces the project list to its totals.
func ComputeStats(projects []dashboardqueries.ProjectWithViews) Stats {
	s := Stats{TotalProjects: len(projects)}
	for _, p := range projects {
		s.TotalPageViews += p.PageViews
		if p.PageViews > 0 {
			s.ActiveProjects++
		}
	}
	return s
}
