package indeed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/browser"
	"jobscout-engine/internal/config"
)

func TestBuildSearchURL(t *testing.T) {
	u := buildSearchURL("python developer", "New York, NY")
	assert.Contains(t, u, "https://www.indeed.com/jobs?")
	assert.Contains(t, u, "q=python+developer")
	assert.Contains(t, u, "l=New+York%2C+NY")
	assert.Contains(t, u, "sort=date")
	assert.Contains(t, u, "fromage=14")
}

func TestBuildSearchURLEmptyLocation(t *testing.T) {
	u := buildSearchURL("backend", "")
	assert.NotContains(t, u, "l=")
}

func TestDiscoverDisabled(t *testing.T) {
	d := &Driver{cfg: config.Config{}, disabled: true}
	cands, err := d.Discover(context.Background(), []string{"python"}, []string{"Remote"})
	require.NoError(t, err)
	assert.Empty(t, cands, "disabled driver must not produce candidates")
}

func TestDiscoverSessionError(t *testing.T) {
	cfg := config.Config{}
	cfg.Search.Terms = []string{"python"}
	d := &Driver{
		cfg: cfg,
		newSession: func() (*browser.Session, error) {
			return nil, errors.New("chromium not installed")
		},
	}
	_, err := d.Discover(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "indeed session")
}
