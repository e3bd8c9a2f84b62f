package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewerThan(t *testing.T) {
	assert.True(t, newerThan("1.10.0", "1.9.3"))
	assert.True(t, newerThan("2.0.0", "1.99.99"))
	assert.False(t, newerThan("1.2.3", "1.2.3"))
	assert.False(t, newerThan("1.2.3", "1.2.3-dirty"))
	assert.False(t, newerThan("1.2.0", "1.10.0"))
	assert.True(t, newerThan("v0.3.0", "0.2.9"))
}

func TestLatestRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name": "v1.4.0"}`))
	}))
	defer srv.Close()

	v, err := latestRelease(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", v)
}

func TestLatestReleaseStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := latestRelease(context.Background(), srv.Client(), srv.URL)
	assert.Error(t, err)
}

func TestFormatVersion(t *testing.T) {
	origV, origC, origB := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = origV, origC, origB })

	Version, Commit, BuildTime = "1.2.3", "", ""
	assert.Equal(t, "1.2.3 (development)", FormatVersion())

	Commit = "abc1234"
	assert.Equal(t, "1.2.3 (commit: abc1234)", FormatVersion())

	BuildTime = "2025-10-23T10:20:30Z"
	assert.Equal(t, "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)", FormatVersion())
}
