package captcha

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	return logger
}

func testScreenshot(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fakePage simulates the portal page. The captcha flow drives it
// through the same Page interface the browser session implements.
type fakePage struct {
	captchaMissing bool
	screenshot     []byte
	heading        string
	solvedBy       string

	setValues    []string
	clicks       []string
	failSetValue bool
	failClick    bool
}

func (p *fakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.captchaMissing {
		return fmt.Errorf("selector %q not visible", selector)
	}
	return nil
}

func (p *fakePage) Evaluate(ctx context.Context, expression string, result interface{}) error {
	switch {
	case strings.Contains(expression, "scrollIntoView"):
		return nil
	case strings.Contains(expression, "devicePixelRatio"):
		*result.(*float64) = 1
	case strings.Contains(expression, "getBoundingClientRect"):
		*result.(*clientRect) = clientRect{X: 10, Y: 10, Width: 120, Height: 40}
	case strings.Contains(expression, "document.evaluate"):
		*result.(*string) = p.heading
	default:
		return fmt.Errorf("unexpected expression: %s", expression)
	}
	return nil
}

func (p *fakePage) Screenshot(ctx context.Context) ([]byte, error) {
	return p.screenshot, nil
}

func (p *fakePage) SetValue(ctx context.Context, selector, value string) error {
	if p.failSetValue {
		return fmt.Errorf("set value failed")
	}
	p.setValues = append(p.setValues, value)
	return nil
}

func (p *fakePage) Click(ctx context.Context, selector string) error {
	if p.failClick {
		return fmt.Errorf("click failed")
	}
	p.clicks = append(p.clicks, selector)
	if p.solvedBy != "" && len(p.setValues) > 0 && p.setValues[len(p.setValues)-1] == p.solvedBy {
		p.heading = "View Any IEC Details"
	}
	return nil
}

type fakeSolver struct {
	texts []string
	errs  []error
	calls int
}

func (s *fakeSolver) Solve(ctx context.Context, region *Region) (string, error) {
	i := s.calls
	s.calls++
	var text string
	if i < len(s.texts) {
		text = s.texts[i]
	}
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return text, err
}

func TestResolveSucceedsAfterFailedAttempts(t *testing.T) {
	page := &fakePage{
		screenshot: testScreenshot(t, 300, 200),
		solvedBy:   "AB12CD",
	}
	solver := &fakeSolver{
		texts: []string{"", "", "AB12CD"},
		errs:  []error{nil, fmt.Errorf("model overloaded"), nil},
	}

	resolver := NewResolver(NewRegionCapturer(), solver, 5, testLogger())
	assert.True(t, resolver.Resolve(context.Background(), page))

	// blank and errored solves consumed attempts without submitting
	assert.Equal(t, 3, solver.calls)
	assert.Equal(t, []string{"AB12CD"}, page.setValues)
	assert.Equal(t, []string{submitButtonXPath}, page.clicks)
}

func TestResolveExhaustsOnBlankSolves(t *testing.T) {
	page := &fakePage{screenshot: testScreenshot(t, 300, 200)}
	solver := &fakeSolver{}

	resolver := NewResolver(NewRegionCapturer(), solver, 5, testLogger())
	assert.False(t, resolver.Resolve(context.Background(), page))

	// the solver budget is hard: exactly maxAttempts calls, no submits
	assert.Equal(t, 5, solver.calls)
	assert.Empty(t, page.setValues)
	assert.Empty(t, page.clicks)
}

func TestResolveExhaustsOnSubmitFailure(t *testing.T) {
	page := &fakePage{
		screenshot:   testScreenshot(t, 300, 200),
		failSetValue: true,
	}
	solver := &fakeSolver{texts: []string{"A1B2", "A1B2", "A1B2"}}

	resolver := NewResolver(NewRegionCapturer(), solver, 3, testLogger())
	assert.False(t, resolver.Resolve(context.Background(), page))
	assert.Equal(t, 3, solver.calls)
}

func TestResolveMissingCaptchaCountsAsBlank(t *testing.T) {
	page := &fakePage{captchaMissing: true}
	solver := &fakeSolver{}

	resolver := NewResolver(NewRegionCapturer(), solver, 2, testLogger())
	assert.False(t, resolver.Resolve(context.Background(), page))

	// absent captcha yields a nil region; the solver short-circuits
	assert.Equal(t, 2, solver.calls)
}

func TestAttemptOutcomes(t *testing.T) {
	page := &fakePage{
		screenshot: testScreenshot(t, 300, 200),
		solvedBy:   "XY99",
	}
	resolver := NewResolver(NewRegionCapturer(), &fakeSolver{texts: []string{"XY99"}}, 1, testLogger())
	assert.Equal(t, OutcomeSolved, resolver.attempt(context.Background(), page))

	blank := NewResolver(NewRegionCapturer(), &fakeSolver{}, 1, testLogger())
	assert.Equal(t, OutcomeBlank, blank.attempt(context.Background(), page))

	page.failClick = true
	submit := NewResolver(NewRegionCapturer(), &fakeSolver{texts: []string{"XY99"}}, 1, testLogger())
	assert.Equal(t, OutcomeSubmitFailed, submit.attempt(context.Background(), page))
}

func TestVerifyResultPageTimesOutWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := &fakePage{heading: ""}
	resolver := NewResolver(NewRegionCapturer(), &fakeSolver{}, 1, testLogger())
	assert.False(t, resolver.verifyResultPage(ctx, page))
}

func TestAttemptOutcomeString(t *testing.T) {
	assert.Equal(t, "solved", OutcomeSolved.String())
	assert.Equal(t, "blank", OutcomeBlank.String())
	assert.Equal(t, "submit_failed", OutcomeSubmitFailed.String())
	assert.Equal(t, "verify_timeout", OutcomeVerifyTimeout.String())
}
