// internal/domain/models/authmethods.go
package models

// Auth methods stored on User.AuthMethod.
const (
	AuthPassword = "password"
	AuthGoogle   = "google"
)

// User statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// IsValidAuthMethod checks if a value is a supported auth method.
func IsValidAuthMethod(value string) bool {
	switch value {
	case AuthPassword, AuthGoogle:
		return true
	}
	return false
}
