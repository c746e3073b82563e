package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailPanel = `
<div class="card-body">
  <div class="form-group"><label>IEC</label><p>0123456789</p></div>
  <div class="form-group"><label> Firm  Name </label><p>ACME
      EXPORTS</p></div>
  <div class="form-group"><label>Date of Issue</label><p></p></div>
  <div class="form-group"><p>orphan value</p></div>
  <div class="form-group"><label>IEC Status</label><p>Valid</p></div>
</div>`

func TestParseDetails(t *testing.T) {
	lines, err := ParseDetails(detailPanel, ";")
	require.NoError(t, err)

	// blank values and label-less groups are dropped, DOM order kept
	assert.Equal(t, []string{
		"IEC;0123456789",
		"Firm Name;ACME EXPORTS",
		"IEC Status;Valid",
	}, lines)
}

func TestParseDetailsNoGroups(t *testing.T) {
	lines, err := ParseDetails(`<div class="card-body"><p>empty</p></div>`, ";")
	require.NoError(t, err)
	assert.Empty(t, lines)
}
