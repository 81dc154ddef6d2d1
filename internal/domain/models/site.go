// internal/domain/models/site.go
package models

// DefaultSiteName is shown in page titles, the nav brand and the footer.
const DefaultSiteName = "PagePulse"
