package domain

import "time"

// ErrorReport is a client-side failure reported by the public site.
type ErrorReport struct {
	ID             string         `json:"id"`
	Message        string         `json:"message"`
	Stack          string         `json:"stack,omitempty"`
	ComponentStack string         `json:"componentStack,omitempty"`
	Timestamp      string         `json:"timestamp,omitempty"`
	URL            string         `json:"url,omitempty"`
	UserAgent      string         `json:"userAgent,omitempty"`
	Type           string         `json:"type,omitempty"`
	AdditionalInfo map[string]any `json:"additionalInfo,omitempty"`
	ClientIP       string         `json:"clientIp,omitempty"`
	SavedAt        time.Time      `json:"savedAt"`
}
