// internal/app/system/limits/limits.go
package limits

// Request body size limits.
const (
	// MaxCollectBodySize caps a single page-view beacon.
	MaxCollectBodySize = 4 << 10 // 4 KB

	// MaxFormSize caps login, signup and project forms.
	MaxFormSize = 64 << 10 // 64 KB

	// MaxLiveMessageSize caps one inbound live-channel frame.
	MaxLiveMessageSize = 1 << 10 // 1 KB
)

// Field length caps applied after normalization.
const (
	MaxProjectNameLen = 80
	MaxDomainLen      = 253 // longest DNS name
	MaxPathLen        = 2048
	MaxReferrerLen    = 2048
	MaxUserAgentLen   = 512
)
