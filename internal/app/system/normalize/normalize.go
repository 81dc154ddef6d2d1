// internal/app/system/normalize/normalize.go
package normalize

import (
	"net/url"
	"strings"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding space and collapses inner runs of whitespace.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Domain reduces user input such as "https://Example.com/path" to a bare
// lowercase host ("example.com"). It returns "" when no host can be found.
func Domain(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" || strings.ContainsAny(host, " /\\") {
		return ""
	}
	return host
}

// Path keeps the path of a tracked URL, defaulting to "/".
func Path(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "/"
	}
	if u, err := url.Parse(s); err == nil && u.Path != "" {
		s = u.Path
	}
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return s
}
