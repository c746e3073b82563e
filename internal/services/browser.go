package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/iec-api/internal/config"
)

// BrowserService manages a pool of browser contexts
type BrowserService struct {
	config   config.BrowserConfig
	logger   *logrus.Logger
	pool     chan *ChromeBrowserContext
	contexts []*ChromeBrowserContext
	mu       sync.RWMutex
	closed   bool
}

// ChromeBrowserContext implements BrowserContext on top of chromedp.
// Every lookup runs on its own context so a wedged portal session
// never poisons a neighbour.
type ChromeBrowserContext struct {
	id          string
	cancel      context.CancelFunc
	chromedp    context.Context
	pageTimeout time.Duration
	healthy     bool
	mu          sync.RWMutex
}

// defaultPageTimeout bounds a single CDP action when no timeout is
// configured.
const defaultPageTimeout = 30 * time.Second

// NewBrowserService creates a new browser service
func NewBrowserService(config config.BrowserConfig, logger *logrus.Logger) (BrowserServiceInterface, error) {
	service := &BrowserService{
		config:   config,
		logger:   logger,
		pool:     make(chan *ChromeBrowserContext, config.MaxBrowsers),
		contexts: make([]*ChromeBrowserContext, 0, config.MaxBrowsers),
	}

	for i := 0; i < config.MinBrowsers; i++ {
		browserCtx, err := service.createBrowser()
		if err != nil {
			logger.WithError(err).Error("Failed to create initial browser")
			continue
		}
		service.contexts = append(service.contexts, browserCtx)
		service.pool <- browserCtx
	}

	logger.WithField("browsers", len(service.contexts)).Info("Browser service initialized")
	return service, nil
}

// GetBrowser gets an available browser context
func (s *BrowserService) GetBrowser(ctx context.Context) (BrowserContext, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, fmt.Errorf("browser service is closed")
	}
	s.mu.RUnlock()

	select {
	case browserCtx := <-s.pool:
		if browserCtx.IsHealthy() {
			return browserCtx, nil
		}
		s.logger.WithField("browser_id", browserCtx.GetID()).Warn("Unhealthy browser detected, creating new one")
		browserCtx.Close()

		newBrowser, err := s.createBrowser()
		if err != nil {
			return nil, fmt.Errorf("failed to create new browser: %w", err)
		}
		s.replaceContext(browserCtx, newBrowser)
		return newBrowser, nil

	case <-time.After(s.checkoutWait()):
		s.mu.Lock()
		if len(s.contexts) < s.config.MaxBrowsers {
			browserCtx, err := s.createBrowser()
			if err != nil {
				s.mu.Unlock()
				return nil, fmt.Errorf("failed to create browser: %w", err)
			}
			s.contexts = append(s.contexts, browserCtx)
			s.mu.Unlock()
			return browserCtx, nil
		}
		s.mu.Unlock()
		return nil, fmt.Errorf("no browser available and pool is at maximum capacity")

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// checkoutWait is how long GetBrowser waits for a pooled browser
// before trying to grow the pool.
func (s *BrowserService) checkoutWait() time.Duration {
	if s.config.BrowserTimeout > 0 {
		return s.config.BrowserTimeout
	}
	return 10 * time.Second
}

// ReleaseBrowser releases a browser context back to the pool
func (s *BrowserService) ReleaseBrowser(browserCtx BrowserContext) error {
	chromeBrowser, ok := browserCtx.(*ChromeBrowserContext)
	if !ok {
		return fmt.Errorf("invalid browser context type")
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		chromeBrowser.Close()
		return nil
	}
	s.mu.RUnlock()

	if !chromeBrowser.IsHealthy() {
		chromeBrowser.Close()
		return nil
	}

	select {
	case s.pool <- chromeBrowser:
		return nil
	default:
		// Pool is full, close the browser
		chromeBrowser.Close()
		return nil
	}
}

func (s *BrowserService) replaceContext(old, fresh *ChromeBrowserContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ctx := range s.contexts {
		if ctx == old {
			s.contexts[i] = fresh
			return
		}
	}
	s.contexts = append(s.contexts, fresh)
}

// createBrowser creates a new browser context
func (s *BrowserService) createBrowser() (*ChromeBrowserContext, error) {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-backgrounding-occluded-windows", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-ipc-flooding-protection", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"),
	}

	if s.config.Headless {
		opts = append(opts, chromedp.Headless)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)

	browserCtx := &ChromeBrowserContext{
		id:          "browser-" + uuid.New().String(),
		cancel:      func() { ctxCancel(); cancel() },
		chromedp:    ctx,
		pageTimeout: s.config.PageTimeout,
		healthy:     true,
	}

	// Prove the browser actually starts before handing it out
	testCtx, testCancel := context.WithTimeout(ctx, 15*time.Second)
	defer testCancel()

	if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCtx.Close()
		return nil, fmt.Errorf("browser health check failed: %w", err)
	}

	s.logger.WithField("browser_id", browserCtx.id).Debug("Browser created successfully")
	return browserCtx, nil
}

// GetStats returns browser pool statistics
func (s *BrowserService) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	healthy := 0
	for _, ctx := range s.contexts {
		if ctx.IsHealthy() {
			healthy++
		}
	}

	return map[string]interface{}{
		"total_browsers":   len(s.contexts),
		"healthy_browsers": healthy,
		"available":        len(s.pool),
		"max_browsers":     s.config.MaxBrowsers,
		"min_browsers":     s.config.MinBrowsers,
	}
}

// Health returns browser service health status
func (s *BrowserService) Health() map[string]interface{} {
	stats := s.GetStats()

	status := "healthy"
	if stats["healthy_browsers"].(int) == 0 {
		status = "unhealthy"
	} else if stats["healthy_browsers"].(int) < s.config.MinBrowsers {
		status = "degraded"
	}

	return map[string]interface{}{
		"status": status,
		"stats":  stats,
	}
}

// Restart restarts the browser pool
func (s *BrowserService) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ctx := range s.contexts {
		ctx.Close()
	}
	for len(s.pool) > 0 {
		<-s.pool
	}
	s.contexts = s.contexts[:0]

	for i := 0; i < s.config.MinBrowsers; i++ {
		browserCtx, err := s.createBrowser()
		if err != nil {
			s.logger.WithError(err).Error("Failed to create browser during restart")
			continue
		}
		s.contexts = append(s.contexts, browserCtx)
		s.pool <- browserCtx
	}

	s.logger.Info("Browser pool restarted")
	return nil
}

// Close closes all browsers and releases resources
func (s *BrowserService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	for _, ctx := range s.contexts {
		ctx.Close()
	}
	// Drain but keep the channel open: a ReleaseBrowser racing this
	// shutdown may still send, and every context is already cancelled.
	for len(s.pool) > 0 {
		<-s.pool
	}

	s.logger.Info("Browser service closed")
	return nil
}

// ChromeBrowserContext methods

// run executes CDP actions on the session context, bounded by the
// caller's context and the action timeout. The session itself is
// rooted in the pool, so the caller's deadline and cancellation must
// be grafted on here or a hung portal blocks forever.
func (c *ChromeBrowserContext) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	c.mu.RLock()
	if !c.healthy {
		c.mu.RUnlock()
		return fmt.Errorf("browser context is not healthy")
	}
	session := c.chromedp
	c.mu.RUnlock()

	runCtx, cancel, detach := boundedContext(ctx, session, timeout, c.pageTimeout)
	defer detach()
	defer cancel()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// boundedContext derives the context a CDP action runs on: the session
// context capped by the smaller of the caller's remaining deadline and
// the action timeout, and cancelled as soon as the caller's context is.
func boundedContext(caller, session context.Context, timeout, fallback time.Duration) (context.Context, context.CancelFunc, func() bool) {
	if timeout <= 0 {
		timeout = fallback
	}
	if timeout <= 0 {
		timeout = defaultPageTimeout
	}
	if deadline, ok := caller.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	runCtx, cancel := context.WithTimeout(session, timeout)
	detach := context.AfterFunc(caller, cancel)
	return runCtx, cancel, detach
}

// Navigate navigates to a URL
func (c *ChromeBrowserContext) Navigate(ctx context.Context, url string) error {
	return c.run(ctx, 0, chromedp.Navigate(url))
}

// WaitVisible waits for an element to become visible
func (c *ChromeBrowserContext) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return c.run(ctx, timeout, chromedp.WaitVisible(selector, queryOption(selector)))
}

// Click clicks an element; selectors starting with "/" are XPath
func (c *ChromeBrowserContext) Click(ctx context.Context, selector string) error {
	return c.run(ctx, 0, chromedp.Click(selector, queryOption(selector)))
}

// SetValue sets the value of a form control
func (c *ChromeBrowserContext) SetValue(ctx context.Context, selector, value string) error {
	return c.run(ctx, 0, chromedp.SetValue(selector, value, queryOption(selector)))
}

// Evaluate runs a JavaScript expression and unmarshals the result
func (c *ChromeBrowserContext) Evaluate(ctx context.Context, expression string, result interface{}) error {
	return c.run(ctx, 0, chromedp.Evaluate(expression, result))
}

// HTML returns the full page HTML
func (c *ChromeBrowserContext) HTML(ctx context.Context) (string, error) {
	var html string
	err := c.run(ctx, 0, chromedp.OuterHTML("html", &html))
	return html, err
}

// Screenshot captures the visible viewport as PNG
func (c *ChromeBrowserContext) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := c.run(ctx, 0, chromedp.CaptureScreenshot(&buf))
	return buf, err
}

// Close closes the browser context
func (c *ChromeBrowserContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.healthy = false
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

// IsHealthy checks if the browser context is healthy
func (c *ChromeBrowserContext) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.healthy
}

// GetID returns the browser context ID
func (c *ChromeBrowserContext) GetID() string {
	return c.id
}

// queryOption picks the chromedp query mode: XPath expressions start
// with a slash, everything else is a CSS selector.
func queryOption(selector string) chromedp.QueryOption {
	if strings.HasPrefix(selector, "/") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}
