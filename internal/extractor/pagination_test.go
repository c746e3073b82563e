package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	return logger
}

func testWalker() *Walker {
	w := NewWalker("branchTable", ";", testLogger())
	w.tableWait = 50 * time.Millisecond
	w.renderWait = 50 * time.Millisecond
	w.pollInterval = time.Millisecond
	return w
}

func branchTablePage(first int, rows ...string) string {
	var b strings.Builder
	b.WriteString(`<table id="branchTable"><thead><tr><th>Sr No</th><th>Address</th></tr></thead><tbody>`)
	for i, addr := range rows {
		fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td></tr>`, first+i, addr)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

// walkerPage serves a sequence of table renderings, one per
// pagination click. Its marker answer is derived from the rendered
// HTML the way the real page marker is.
type walkerPage struct {
	pages   []string
	current int

	noInfo    bool
	stuck     bool
	failHTML  bool
	failClick bool
	clicks    int
}

func (p *walkerPage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if len(p.pages) == 0 {
		return fmt.Errorf("selector %q not visible", selector)
	}
	return nil
}

func (p *walkerPage) HTML(ctx context.Context) (string, error) {
	if p.failHTML {
		return "", fmt.Errorf("page gone")
	}
	return p.pages[p.current], nil
}

// marker mirrors what the walker's fingerprint expression would see in
// the DOM: info line, row count, first-row text.
func (p *walkerPage) marker() string {
	snap, _ := ParseTable(p.pages[p.current], "branchTable")
	first := ""
	if len(snap.Rows) > 0 {
		first = strings.Join(snap.Rows[0], " ")
	}
	info := ""
	if !p.noInfo {
		info = fmt.Sprintf("Showing page %d", p.current+1)
	}
	return fmt.Sprintf("%s|%d|%s", info, len(snap.Rows), first)
}

func (p *walkerPage) Evaluate(ctx context.Context, expression string, result interface{}) error {
	switch {
	case strings.Contains(expression, "_next"):
		*result.(*bool) = p.current == len(p.pages)-1
	case strings.Contains(expression, "_info"):
		*result.(*string) = p.marker()
	case strings.Contains(expression, ".length"):
		*result.(*float64) = 1
	default:
		return fmt.Errorf("unexpected expression: %s", expression)
	}
	return nil
}

func (p *walkerPage) Click(ctx context.Context, selector string) error {
	if p.failClick {
		return fmt.Errorf("click failed")
	}
	p.clicks++
	if !p.stuck && p.current < len(p.pages)-1 {
		p.current++
	}
	return nil
}

func branchTableRows(rows ...[]string) string {
	var b strings.Builder
	b.WriteString(`<table id="branchTable"><thead><tr><th>Branch</th><th>City</th></tr></thead><tbody>`)
	for _, r := range rows {
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td></tr>`, r[0], r[1])
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

func TestWalkTwoPagesEmitsHeaderOnce(t *testing.T) {
	page := &walkerPage{pages: []string{
		branchTablePage(1, "MG Road, Bengaluru", "Park Street, Kolkata"),
		branchTablePage(3, "Plot 7, Mumbai", "Anna Salai, Chennai"),
	}}

	out := testWalker().Walk(context.Background(), page)

	assert.Equal(t, strings.Join([]string{
		"Sr No;Address",
		"1;MG Road, Bengaluru",
		"2;Park Street, Kolkata",
		"3;Plot 7, Mumbai",
		"4;Anna Salai, Chennai",
	}, "\n"), out)
	assert.Equal(t, 1, page.clicks)
}

func TestWalkSinglePageNeverClicks(t *testing.T) {
	page := &walkerPage{pages: []string{branchTablePage(1, "MG Road, Bengaluru")}}

	out := testWalker().Walk(context.Background(), page)

	assert.Equal(t, "Sr No;Address\n1;MG Road, Bengaluru", out)
	assert.Zero(t, page.clicks)
}

func TestWalkReturnsPartialOnClickFailure(t *testing.T) {
	page := &walkerPage{
		pages: []string{
			branchTablePage(1, "MG Road, Bengaluru"),
			branchTablePage(2, "Plot 7, Mumbai"),
		},
		failClick: true,
	}

	out := testWalker().Walk(context.Background(), page)

	// first page survives, failure is swallowed
	assert.Equal(t, "Sr No;Address\n1;MG Road, Bengaluru", out)
}

func TestWalkAdvancesWhenFirstRowRepeats(t *testing.T) {
	// both pages open with the same row; only the info line moves
	page := &walkerPage{pages: []string{
		branchTableRows([]string{"DELHI BRANCH", "New Delhi"}, []string{"MUMBAI BRANCH", "Mumbai"}),
		branchTableRows([]string{"DELHI BRANCH", "New Delhi"}, []string{"CHENNAI BRANCH", "Chennai"}),
	}}

	out := testWalker().Walk(context.Background(), page)

	assert.Equal(t, strings.Join([]string{
		"Branch;City",
		"DELHI BRANCH;New Delhi",
		"MUMBAI BRANCH;Mumbai",
		"DELHI BRANCH;New Delhi",
		"CHENNAI BRANCH;Chennai",
	}, "\n"), out)
	assert.Equal(t, 1, page.clicks)
}

func TestWalkCapturesFinalPageWhenMarkerStalls(t *testing.T) {
	// no info line, equal row counts, equal first rows: the fingerprint
	// cannot see the advance, but the new content must still come back
	page := &walkerPage{
		pages: []string{
			branchTableRows([]string{"DELHI BRANCH", "New Delhi"}, []string{"MUMBAI BRANCH", "Mumbai"}),
			branchTableRows([]string{"DELHI BRANCH", "New Delhi"}, []string{"CHENNAI BRANCH", "Chennai"}),
		},
		noInfo: true,
	}

	out := testWalker().Walk(context.Background(), page)

	assert.Equal(t, strings.Join([]string{
		"Branch;City",
		"DELHI BRANCH;New Delhi",
		"MUMBAI BRANCH;Mumbai",
		"DELHI BRANCH;New Delhi",
		"CHENNAI BRANCH;Chennai",
	}, "\n"), out)
	assert.Equal(t, 1, strings.Count(out, "Branch;City"))
}

func TestWalkDoesNotDuplicateWhenPageNeverAdvances(t *testing.T) {
	page := &walkerPage{
		pages: []string{
			branchTableRows([]string{"DELHI BRANCH", "New Delhi"}),
			branchTableRows([]string{"CHENNAI BRANCH", "Chennai"}),
		},
		stuck: true,
	}

	out := testWalker().Walk(context.Background(), page)

	assert.Equal(t, "Branch;City\nDELHI BRANCH;New Delhi", out)
	assert.Equal(t, 1, page.clicks)
}

func TestWalkMissingTableReturnsEmpty(t *testing.T) {
	page := &walkerPage{}
	assert.Empty(t, testWalker().Walk(context.Background(), page))
}

func TestWalkReturnsEmptyOnHTMLFailure(t *testing.T) {
	page := &walkerPage{
		pages:    []string{branchTablePage(1, "MG Road, Bengaluru")},
		failHTML: true,
	}
	assert.Empty(t, testWalker().Walk(context.Background(), page))
}
