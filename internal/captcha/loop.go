package captcha

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	captchaInputSelector = "#txt_Captcha"
	submitButtonXPath    = `//button[text()='View IEC']`
	successHeadingXPath  = `/html/body/div[2]/div[9]/div/div/div[1]/div/div/div[1]/div[1]/h6`
	successHeadingText   = "IEC Details"

	verifyTimeout = 3 * time.Second
	verifyPoll    = 250 * time.Millisecond
)

// AttemptOutcome classifies one pass through the captcha loop.
type AttemptOutcome int

const (
	OutcomeSolved AttemptOutcome = iota
	OutcomeBlank
	OutcomeSubmitFailed
	OutcomeVerifyTimeout
)

func (o AttemptOutcome) String() string {
	switch o {
	case OutcomeSolved:
		return "solved"
	case OutcomeBlank:
		return "blank"
	case OutcomeSubmitFailed:
		return "submit_failed"
	case OutcomeVerifyTimeout:
		return "verify_timeout"
	}
	return "unknown"
}

// Resolver drives the capture/solve/submit/verify cycle until the
// result page loads or the attempt budget runs out.
type Resolver struct {
	capturer    *RegionCapturer
	solver      Solver
	maxAttempts int
	logger      *logrus.Logger
}

// NewResolver creates a Resolver with the given attempt budget.
func NewResolver(capturer *RegionCapturer, solver Solver, maxAttempts int, logger *logrus.Logger) *Resolver {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Resolver{
		capturer:    capturer,
		solver:      solver,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Resolve runs up to maxAttempts captcha attempts against the page.
// Every failure mode consumes an attempt and is logged, never
// propagated: a false return is the single signal that the captcha
// could not be passed. The solver is called at most once per attempt.
func (r *Resolver) Resolve(ctx context.Context, page Page) bool {
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		outcome := r.attempt(ctx, page)
		if outcome == OutcomeSolved {
			r.logger.WithFields(logrus.Fields{
				"attempt": attempt,
			}).Info("Captcha solved")
			return true
		}
		r.logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"outcome": outcome.String(),
		}).Warn("Captcha attempt failed")
	}
	return false
}

func (r *Resolver) attempt(ctx context.Context, page Page) AttemptOutcome {
	region, err := r.capturer.Capture(ctx, page)
	if err != nil {
		r.logger.WithError(err).Warn("Captcha capture failed")
		return OutcomeBlank
	}

	text, err := r.solver.Solve(ctx, region)
	if err != nil {
		r.logger.WithError(err).Warn("Captcha solve failed")
		return OutcomeBlank
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return OutcomeBlank
	}

	if err := page.SetValue(ctx, captchaInputSelector, text); err != nil {
		r.logger.WithError(err).Warn("Captcha input fill failed")
		return OutcomeSubmitFailed
	}
	if err := page.Click(ctx, submitButtonXPath); err != nil {
		r.logger.WithError(err).Warn("Captcha submit failed")
		return OutcomeSubmitFailed
	}

	if !r.verifyResultPage(ctx, page) {
		return OutcomeVerifyTimeout
	}
	return OutcomeSolved
}

// verifyResultPage polls the result heading until it reports IEC
// details or the verification window closes.
func (r *Resolver) verifyResultPage(ctx context.Context, page Page) bool {
	expr := fmt.Sprintf(
		`(function(){var n=document.evaluate(%q,document,null,XPathResult.FIRST_ORDERED_NODE_TYPE,null).singleNodeValue;return n?n.textContent:"";})()`,
		successHeadingXPath,
	)

	deadline := time.Now().Add(verifyTimeout)
	for {
		var heading string
		if err := page.Evaluate(ctx, expr, &heading); err == nil &&
			strings.Contains(heading, successHeadingText) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(verifyPoll):
		}
	}
}
