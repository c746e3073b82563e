package services

import (
	"context"
	"time"

	"github.com/nexconsult/iec-api/internal/models"
)

// IECServiceInterface defines the interface for the IEC lookup service
type IECServiceInterface interface {
	// GetIEC retrieves IEC registration details for a code/name pair
	GetIEC(ctx context.Context, iecCode, name string) (*models.IECResponse, error)

	// Health returns service health status
	Health() map[string]interface{}

	// Close closes the service and releases resources
	Close() error
}

// CacheServiceInterface defines the interface for cache service
type CacheServiceInterface interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value string) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear clears all cache entries
	Clear(ctx context.Context) error

	// GetStats returns cache statistics
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Health returns cache service health status
	Health() map[string]interface{}

	// Close stops background work
	Close() error
}

// BrowserServiceInterface defines the interface for the browser pool
type BrowserServiceInterface interface {
	// GetBrowser gets an available browser context
	GetBrowser(ctx context.Context) (BrowserContext, error)

	// ReleaseBrowser releases a browser context back to the pool
	ReleaseBrowser(browserCtx BrowserContext) error

	// GetStats returns browser pool statistics
	GetStats() map[string]interface{}

	// Health returns browser service health status
	Health() map[string]interface{}

	// Restart restarts the browser pool
	Restart() error

	// Close closes all browsers and releases resources
	Close() error
}

// BrowserContext is one live page session. It satisfies the Page
// interfaces of the captcha and extractor packages.
type BrowserContext interface {
	// Navigate navigates to a URL
	Navigate(ctx context.Context, url string) error

	// WaitVisible waits for an element to become visible
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// Click clicks an element; selectors starting with "/" are XPath
	Click(ctx context.Context, selector string) error

	// SetValue sets the value of a form control
	SetValue(ctx context.Context, selector, value string) error

	// Evaluate runs a JavaScript expression and unmarshals the result
	Evaluate(ctx context.Context, expression string, result interface{}) error

	// HTML returns the full page HTML
	HTML(ctx context.Context) (string, error)

	// Screenshot captures the visible viewport as PNG
	Screenshot(ctx context.Context) ([]byte, error)

	// Close closes the browser context
	Close() error

	// IsHealthy checks if the browser context is healthy
	IsHealthy() bool

	// GetID returns the browser context ID
	GetID() string
}
