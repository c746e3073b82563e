package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexconsult/iec-api/internal/config"
	"github.com/nexconsult/iec-api/internal/models"
	"github.com/nexconsult/iec-api/internal/utils"
)

func testIECConfig() config.IECConfig {
	return config.IECConfig{
		PortalURL:          "https://dgft.gov.in/CP/?opt=view-any-ice",
		Timeout:            time.Second,
		MaxCaptchaAttempts: 5,
		CacheTTL:           time.Minute,
	}
}

func testSolverConfig() config.SolverConfig {
	return config.SolverConfig{
		APIKey:  "test-key",
		Model:   "gpt-4-turbo",
		Timeout: time.Second,
	}
}

// failingBrowserService simulates an exhausted pool.
type failingBrowserService struct{}

func (f *failingBrowserService) GetBrowser(ctx context.Context) (BrowserContext, error) {
	return nil, fmt.Errorf("no browser available and pool is at maximum capacity")
}
func (f *failingBrowserService) ReleaseBrowser(BrowserContext) error { return nil }
func (f *failingBrowserService) GetStats() map[string]interface{}   { return nil }
func (f *failingBrowserService) Health() map[string]interface{}     { return nil }
func (f *failingBrowserService) Restart() error                     { return nil }
func (f *failingBrowserService) Close() error                       { return nil }

func TestGetIECServesFromCache(t *testing.T) {
	cache := NewCacheService(nil, time.Minute, testLogger())
	details := models.IECDetails{
		IECDetails:    "IEC;0123456789\nFirm Name;ACME EXPORTS",
		BranchDetails: "Sr No;Address\n1;MG Road, Bengaluru",
	}
	payload, err := json.Marshal(details)
	require.NoError(t, err)
	require.NoError(t, cache.Set(context.Background(), utils.CacheKey("0123456789", "Acme Exports"), string(payload)))

	svc, err := NewIECService(testIECConfig(), testSolverConfig(), cache, &failingBrowserService{}, testLogger())
	require.NoError(t, err)

	// a cache hit must not touch the (failing) browser pool
	resp, err := svc.GetIEC(context.Background(), " 0123-456789", "acme  exports")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.Cache)
	assert.Equal(t, "0123456789", resp.IECCode)
	require.NotNil(t, resp.Details)
	assert.Equal(t, details, *resp.Details)
}

func TestGetIECBrowserUnavailable(t *testing.T) {
	cache := NewCacheService(nil, time.Minute, testLogger())
	svc, err := NewIECService(testIECConfig(), testSolverConfig(), cache, &failingBrowserService{}, testLogger())
	require.NoError(t, err)

	_, err = svc.GetIEC(context.Background(), "0123456789", "ACME EXPORTS")
	require.Error(t, err)

	var scrapeErr *models.ScrapeError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Equal(t, models.ErrCodeInternal, scrapeErr.Code)
}

func TestGetIECDropsCorruptCacheEntry(t *testing.T) {
	cache := NewCacheService(nil, time.Minute, testLogger())
	key := utils.CacheKey("0123456789", "ACME EXPORTS")
	require.NoError(t, cache.Set(context.Background(), key, "{not json"))

	svc, err := NewIECService(testIECConfig(), testSolverConfig(), cache, &failingBrowserService{}, testLogger())
	require.NoError(t, err)

	// corrupt entry is evicted and the lookup falls through to the pool
	_, err = svc.GetIEC(context.Background(), "0123456789", "ACME EXPORTS")
	require.Error(t, err)
	_, err = cache.Get(context.Background(), key)
	assert.Error(t, err)
}
