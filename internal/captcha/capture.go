package captcha

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"time"

	"golang.org/x/image/draw"
)

const (
	captchaSelector = "#captcha"
	captchaWait     = 5 * time.Second

	// Device pixels of padding added around the bounding rect.
	cropPadding = 5
	// Crops narrower than this are upscaled before being sent to the
	// solver; small captchas OCR poorly at native resolution.
	minLegibleWidth = 100
	upscaledWidth   = 200
)

// Page is the subset of a browser session the captcha flow needs.
type Page interface {
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	Evaluate(ctx context.Context, expression string, result interface{}) error
	Screenshot(ctx context.Context) ([]byte, error)
	SetValue(ctx context.Context, selector, value string) error
	Click(ctx context.Context, selector string) error
}

// Region is a cropped captcha image ready for the solver.
type Region struct {
	PNG  []byte
	Rect image.Rectangle
}

type clientRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RegionCapturer screenshots the page and crops out the captcha image.
type RegionCapturer struct{}

// NewRegionCapturer creates a new RegionCapturer
func NewRegionCapturer() *RegionCapturer {
	return &RegionCapturer{}
}

// Capture locates the captcha element and returns its cropped PNG.
// A page without a captcha element is not an error: it returns
// (nil, nil) so callers can treat the lookup as already unblocked.
func (c *RegionCapturer) Capture(ctx context.Context, page Page) (*Region, error) {
	if err := page.WaitVisible(ctx, captchaSelector, captchaWait); err != nil {
		return nil, nil
	}

	scroll := fmt.Sprintf(`document.querySelector(%q).scrollIntoView({block: "center"})`, captchaSelector)
	var ignored interface{}
	if err := page.Evaluate(ctx, scroll, &ignored); err != nil {
		return nil, fmt.Errorf("scroll captcha into view: %w", err)
	}

	var ratio float64
	if err := page.Evaluate(ctx, `window.devicePixelRatio`, &ratio); err != nil {
		return nil, fmt.Errorf("read device pixel ratio: %w", err)
	}
	if ratio <= 0 {
		ratio = 1
	}

	var rect clientRect
	rectExpr := fmt.Sprintf(`(function(){var r=document.querySelector(%q).getBoundingClientRect();return {x:r.x,y:r.y,width:r.width,height:r.height};})()`, captchaSelector)
	if err := page.Evaluate(ctx, rectExpr, &rect); err != nil {
		return nil, fmt.Errorf("read captcha bounding rect: %w", err)
	}

	shot, err := page.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("viewport screenshot: %w", err)
	}

	return cropRegion(shot, rect, ratio)
}

// cropRegion cuts the captcha rect out of a viewport screenshot. The
// rect is in CSS pixels; the screenshot is in device pixels, so the
// rect is scaled by the device pixel ratio before cropping.
func cropRegion(shot []byte, rect clientRect, ratio float64) (*Region, error) {
	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	crop := image.Rect(
		int(rect.X*ratio)-cropPadding,
		int(rect.Y*ratio)-cropPadding,
		int((rect.X+rect.Width)*ratio)+cropPadding,
		int((rect.Y+rect.Height)*ratio)+cropPadding,
	).Intersect(img.Bounds())
	if crop.Empty() {
		return nil, fmt.Errorf("captcha rect outside screenshot bounds")
	}

	sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return nil, fmt.Errorf("screenshot image does not support cropping")
	}
	cropped := sub.SubImage(crop)

	if crop.Dx() < minLegibleWidth {
		cropped = upscale(cropped, upscaledWidth)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("encode captcha crop: %w", err)
	}

	return &Region{PNG: buf.Bytes(), Rect: crop}, nil
}

// upscale resizes the image to the given width, preserving aspect ratio.
func upscale(src image.Image, width int) image.Image {
	b := src.Bounds()
	height := b.Dy() * width / b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
