package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Page is the subset of a browser session the walker needs.
type Page interface {
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	HTML(ctx context.Context) (string, error)
	Evaluate(ctx context.Context, expression string, result interface{}) error
	Click(ctx context.Context, selector string) error
}

// Walker collects every page of a paginated table into one block of
// delimiter-joined lines: the header exactly once, then rows in page
// order. It never fails a lookup; on any error it logs and returns
// what it has.
type Walker struct {
	tableID   string
	delimiter string
	logger    *logrus.Logger

	tableWait    time.Duration
	renderWait   time.Duration
	pollInterval time.Duration
	maxPages     int
}

// NewWalker creates a Walker for the table with the given element id.
func NewWalker(tableID, delimiter string, logger *logrus.Logger) *Walker {
	return &Walker{
		tableID:      tableID,
		delimiter:    delimiter,
		logger:       logger,
		tableWait:    10 * time.Second,
		renderWait:   5 * time.Second,
		pollInterval: 200 * time.Millisecond,
		maxPages:     500,
	}
}

// Walk pages through the table and returns its accumulated lines.
func (w *Walker) Walk(ctx context.Context, page Page) string {
	var lines []string
	headerEmitted := false
	prevRows := ""

	for pageNum := 1; pageNum <= w.maxPages; pageNum++ {
		if err := w.waitForRows(ctx, page); err != nil {
			w.logger.WithError(err).WithField("page", pageNum).Warn("Table rows never rendered")
			break
		}

		snapshot, err := w.readTable(ctx, page)
		if err != nil {
			w.logger.WithError(err).WithField("page", pageNum).Warn("Failed to read table")
			break
		}
		headerEmitted = w.appendSnapshot(&lines, snapshot, headerEmitted)
		prevRows = rowsKey(snapshot)

		done, err := w.onLastPage(ctx, page)
		if err != nil {
			w.logger.WithError(err).WithField("page", pageNum).Warn("Failed to inspect pagination control")
			break
		}
		if done {
			break
		}

		marker, _ := w.pageMarker(ctx, page)
		if err := page.Click(ctx, fmt.Sprintf("#%s_next", w.tableID)); err != nil {
			w.logger.WithError(err).WithField("page", pageNum).Warn("Failed to advance to next page")
			break
		}
		if !w.waitForRender(ctx, page, marker) {
			// The marker can stay put across a real advance when pages
			// repeat content. Read the table one last time and keep it
			// unless it is the page already captured.
			if final, err := w.readTable(ctx, page); err == nil && rowsKey(final) != prevRows {
				w.appendSnapshot(&lines, final, headerEmitted)
			} else {
				w.logger.WithField("page", pageNum).Warn("Next page never re-rendered")
			}
			break
		}
	}

	return strings.Join(lines, "\n")
}

// readTable parses the table out of the current page HTML.
func (w *Walker) readTable(ctx context.Context, page Page) (Snapshot, error) {
	html, err := page.HTML(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return ParseTable(html, w.tableID)
}

func (w *Walker) appendSnapshot(lines *[]string, snapshot Snapshot, headerEmitted bool) bool {
	if !headerEmitted && len(snapshot.Header) > 0 {
		*lines = append(*lines, strings.Join(snapshot.Header, w.delimiter))
		headerEmitted = true
	}
	for _, row := range snapshot.Rows {
		*lines = append(*lines, strings.Join(row, w.delimiter))
	}
	return headerEmitted
}

// rowsKey identifies a page's row content.
func rowsKey(s Snapshot) string {
	parts := make([]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		parts = append(parts, strings.Join(row, "\x1f"))
	}
	return strings.Join(parts, "\x1e")
}

// waitForRows waits for the table element and then for its body to
// hold at least one row. The portal populates the body asynchronously
// after the element appears, so visibility alone is not enough.
func (w *Walker) waitForRows(ctx context.Context, page Page) error {
	if err := page.WaitVisible(ctx, "#"+w.tableID, w.tableWait); err != nil {
		return err
	}

	expr := fmt.Sprintf(`document.querySelectorAll('#%s tbody tr').length`, w.tableID)
	deadline := time.Now().Add(w.renderWait)
	for {
		var count float64
		if err := page.Evaluate(ctx, expr, &count); err == nil && count > 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("no rows in #%s after %s", w.tableID, w.renderWait)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.pollInterval):
		}
	}
}

// onLastPage reports whether pagination has run out: the next control
// is absent or carries the disabled class.
func (w *Walker) onLastPage(ctx context.Context, page Page) (bool, error) {
	expr := fmt.Sprintf(
		`(function(){var n=document.getElementById(%q);if(!n)return true;return (n.className||'').split(/\s+/).indexOf('disabled')!==-1;})()`,
		w.tableID+"_next",
	)
	var done bool
	if err := page.Evaluate(ctx, expr, &done); err != nil {
		return false, err
	}
	return done, nil
}

// pageMarker fingerprints the current rendering: the DataTables info
// line, the row count and the first row. The info line moves on every
// page advance even when row content repeats, so it is the primary
// staleness signal; the rest covers tables rendered without one.
func (w *Walker) pageMarker(ctx context.Context, page Page) (string, error) {
	expr := fmt.Sprintf(
		`(function(){var i=document.getElementById(%q);var rs=document.querySelectorAll('#%s tbody tr');var f=rs.length?rs[0].textContent:'';return (i?i.textContent:'')+'|'+rs.length+'|'+f;})()`,
		w.tableID+"_info", w.tableID,
	)
	var text string
	err := page.Evaluate(ctx, expr, &text)
	return text, err
}

// waitForRender polls until the page marker differs from its pre-click
// value. A false return means no confirmed advance; the caller decides
// what to do with the current rendering.
func (w *Walker) waitForRender(ctx context.Context, page Page, marker string) bool {
	deadline := time.Now().Add(w.renderWait)
	for {
		if text, err := w.pageMarker(ctx, page); err == nil && text != marker {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(w.pollInterval):
		}
	}
}
