package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexconsult/iec-api/internal/config"
	"github.com/nexconsult/iec-api/internal/models"
)

func solverConfig(baseURL string) config.SolverConfig {
	return config.SolverConfig{
		APIKey:  "test-key",
		Model:   "gpt-4-turbo",
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}
}

func TestSolveNilRegionSkipsNetwork(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	solver := NewVisionSolver(solverConfig(ts.URL+"/v1"), testLogger())
	text, err := solver.Solve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.False(t, called)
}

func TestSolveReturnsTrimmedText(t *testing.T) {
	var gotBody map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  AB12CD \n"}}]}`))
	}))
	defer ts.Close()

	solver := NewVisionSolver(solverConfig(ts.URL+"/v1"), testLogger())
	text, err := solver.Solve(context.Background(), &Region{PNG: []byte("fake-png")})
	require.NoError(t, err)
	assert.Equal(t, "AB12CD", text)

	assert.Equal(t, "gpt-4-turbo", gotBody["model"])
	assert.Equal(t, float64(10), gotBody["max_tokens"])
}

func TestSolveUpstreamErrorIsSolverFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer ts.Close()

	solver := NewVisionSolver(solverConfig(ts.URL+"/v1"), testLogger())
	_, err := solver.Solve(context.Background(), &Region{PNG: []byte("fake-png")})
	require.Error(t, err)

	var scrapeErr *models.ScrapeError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Equal(t, models.ErrCodeSolverFailure, scrapeErr.Code)
}

func TestSolveEmptyChoicesIsSolverFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	solver := NewVisionSolver(solverConfig(ts.URL+"/v1"), testLogger())
	_, err := solver.Solve(context.Background(), &Region{PNG: []byte("fake-png")})
	require.Error(t, err)

	var scrapeErr *models.ScrapeError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Equal(t, models.ErrCodeSolverFailure, scrapeErr.Code)
}
