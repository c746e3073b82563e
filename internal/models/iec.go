package models

import (
	"time"
)

// IECRequest represents an IEC lookup request
type IECRequest struct {
	IECCode    string `json:"iec_code" binding:"required" example:"0123456789"`
	EntityName string `json:"name" binding:"required" example:"ACME EXPORTS"`
}

// IECDetails holds the data scraped for one IEC. Both fields are
// newline-separated blocks of semicolon-delimited lines: the detail
// panel as "label;value" pairs, the branch table as a header line
// followed by one line per row.
type IECDetails struct {
	IECDetails    string `json:"iec_details"`
	BranchDetails string `json:"branch_details"`
}

// IECResponse represents the response from an IEC lookup
type IECResponse struct {
	Success       bool        `json:"success" example:"true"`
	IECCode       string      `json:"iec_code" example:"0123456789"`
	Details       *IECDetails `json:"details,omitempty"`
	Cache         bool        `json:"cache" example:"false"`
	CaptchaSolved bool        `json:"captcha_solved" example:"true"`
	RetrievedAt   time.Time   `json:"retrieved_at" example:"2024-01-15T10:30:00Z"`
	ElapsedMs     int64       `json:"elapsed_ms" example:"21500"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error" example:"Missing required parameters: iec_code and name"`
	Message   string    `json:"message,omitempty" example:"iec_code must contain exactly 10 characters"`
	Code      string    `json:"code,omitempty" example:"INVALID_INPUT"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-15T10:30:00Z"`
	Path      string    `json:"path" example:"/api/v1/iec/lookup"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp time.Time              `json:"timestamp" example:"2024-01-15T10:30:00Z"`
	Version   string                 `json:"version" example:"1.0.0"`
	Services  map[string]ServiceInfo `json:"services"`
	Uptime    string                 `json:"uptime" example:"2h30m45s"`
}

// ServiceInfo represents individual service health
type ServiceInfo struct {
	Status         string    `json:"status" example:"healthy"`
	LastCheck      time.Time `json:"last_check" example:"2024-01-15T10:30:00Z"`
	ResponseTimeMs int64     `json:"response_time_ms" example:"150"`
	Error          string    `json:"error,omitempty"`
}

// BrowserStatsResponse represents browser pool status
type BrowserStatsResponse struct {
	ActiveBrowsers int       `json:"active_browsers" example:"2"`
	TotalBrowsers  int       `json:"total_browsers" example:"4"`
	MaxBrowsers    int       `json:"max_browsers" example:"8"`
	Timestamp      time.Time `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}

// CacheStatsResponse represents cache statistics
type CacheStatsResponse struct {
	Backend   string    `json:"backend" example:"redis"`
	Hits      int64     `json:"hits" example:"1240"`
	Misses    int64     `json:"misses" example:"210"`
	HitRate   float64   `json:"hit_rate" example:"85.5"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}
