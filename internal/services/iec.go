package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nexconsult/iec-api/internal/captcha"
	"github.com/nexconsult/iec-api/internal/config"
	"github.com/nexconsult/iec-api/internal/extractor"
	"github.com/nexconsult/iec-api/internal/models"
	"github.com/nexconsult/iec-api/internal/utils"
)

const (
	entryLinkXPath      = `/html/body/div[2]/div[9]/div[3]/div/div[2]/div[1]/div/a`
	iecInputSelector    = "#iecNo"
	entityInputSelector = "#entity"
	detailPanelSelector = ".form-group"
	branchTableID       = "branchTable"
	fieldDelimiter      = ";"

	entryLinkWait   = 5 * time.Second
	formWait        = 5 * time.Second
	detailPanelWait = 10 * time.Second
)

// IECService orchestrates a full registry lookup: cache, browser
// session, captcha loop, extraction.
type IECService struct {
	config   config.IECConfig
	cache    CacheServiceInterface
	browser  BrowserServiceInterface
	resolver *captcha.Resolver
	walker   *extractor.Walker
	logger   *logrus.Logger
}

// NewIECService creates a new IEC lookup service
func NewIECService(cfg config.IECConfig, solverCfg config.SolverConfig, cache CacheServiceInterface, browser BrowserServiceInterface, logger *logrus.Logger) (*IECService, error) {
	solver := captcha.NewVisionSolver(solverCfg, logger)
	resolver := captcha.NewResolver(captcha.NewRegionCapturer(), solver, cfg.MaxCaptchaAttempts, logger)
	walker := extractor.NewWalker(branchTableID, fieldDelimiter, logger)

	return &IECService{
		config:   cfg,
		cache:    cache,
		browser:  browser,
		resolver: resolver,
		walker:   walker,
		logger:   logger,
	}, nil
}

// GetIEC retrieves IEC registration details for a code/name pair.
func (s *IECService) GetIEC(ctx context.Context, iecCode, name string) (*models.IECResponse, error) {
	start := time.Now()
	iecCode = utils.CleanIEC(iecCode)
	name = utils.NormalizeEntityName(name)

	key := utils.CacheKey(iecCode, name)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var details models.IECDetails
		if err := json.Unmarshal([]byte(cached), &details); err == nil {
			s.logger.WithField("iec", iecCode).Info("IEC served from cache")
			return &models.IECResponse{
				Success:     true,
				IECCode:     iecCode,
				Details:     &details,
				Cache:       true,
				RetrievedAt: time.Now(),
				ElapsedMs:   time.Since(start).Milliseconds(),
			}, nil
		}
		s.cache.Delete(ctx, key)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	browserCtx, err := s.browser.GetBrowser(ctx)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "no browser session available", err)
	}
	// The session goes back to the pool on every exit path
	defer s.browser.ReleaseBrowser(browserCtx)

	details, err := s.scrape(ctx, browserCtx, iecCode, name)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"iec":   iecCode,
			"error": err.Error(),
		}).Error("IEC scrape failed")
		return nil, err
	}

	if payload, err := json.Marshal(details); err == nil {
		if err := s.cache.Set(ctx, key, string(payload)); err != nil {
			s.logger.WithError(err).Warn("Failed to cache IEC result")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"iec":        iecCode,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Info("IEC lookup completed")

	return &models.IECResponse{
		Success:       true,
		IECCode:       iecCode,
		Details:       details,
		Cache:         false,
		CaptchaSolved: true,
		RetrievedAt:   time.Now(),
		ElapsedMs:     time.Since(start).Milliseconds(),
	}, nil
}

// scrape drives one portal session from the landing page to the
// extracted result.
func (s *IECService) scrape(ctx context.Context, page BrowserContext, iecCode, name string) (*models.IECDetails, error) {
	if err := page.Navigate(ctx, s.config.PortalURL); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeScrapingFailed, "failed to open portal", err)
	}

	if err := page.WaitVisible(ctx, entryLinkXPath, entryLinkWait); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeScrapingFailed, "portal entry link not found", err)
	}
	if err := page.Click(ctx, entryLinkXPath); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeScrapingFailed, "failed to open lookup form", err)
	}

	if err := page.WaitVisible(ctx, iecInputSelector, formWait); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeScrapingFailed, "lookup form never rendered", err)
	}
	if err := page.SetValue(ctx, iecInputSelector, iecCode); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeScrapingFailed, "failed to fill IEC code", err)
	}
	if err := page.SetValue(ctx, entityInputSelector, name); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeScrapingFailed, "failed to fill entity name", err)
	}

	if !s.resolver.Resolve(ctx, page) {
		return nil, models.NewCaptchaExhaustedError(s.config.MaxCaptchaAttempts)
	}

	// Post-captcha page: the detail panel is mandatory, the branch
	// table is not.
	if err := page.WaitVisible(ctx, detailPanelSelector, detailPanelWait); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeScrapingFailed, "result page never loaded", err)
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeScrapingFailed, "failed to read result page", err)
	}
	detailLines, err := extractor.ParseDetails(html, fieldDelimiter)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeScrapingFailed, "failed to parse detail panel", err)
	}

	branchBlock := s.walker.Walk(ctx, page)

	return &models.IECDetails{
		IECDetails:    strings.Join(detailLines, "\n"),
		BranchDetails: branchBlock,
	}, nil
}

// Health returns service health status
func (s *IECService) Health() map[string]interface{} {
	return map[string]interface{}{
		"status":               "healthy",
		"portal_url":           s.config.PortalURL,
		"max_captcha_attempts": s.config.MaxCaptchaAttempts,
		"cache_ttl":            s.config.CacheTTL.String(),
	}
}

// Close closes the service and releases resources
func (s *IECService) Close() error {
	return nil
}
