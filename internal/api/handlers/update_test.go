package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	releaseDTO "github.com/rstltd/cg500-blueteeth-app/internal/api/dto/v1/release"
	"github.com/rstltd/cg500-blueteeth-app/internal/catalog"
	"github.com/rstltd/cg500-blueteeth-app/internal/config"
	"github.com/rstltd/cg500-blueteeth-app/internal/logging"
	"github.com/rstltd/cg500-blueteeth-app/internal/server"
	"github.com/rstltd/cg500-blueteeth-app/internal/store"
	"github.com/rstltd/cg500-blueteeth-app/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	dir, err := os.MkdirTemp("", "cg500-handlers-test")
	if err != nil {
		panic(err)
	}

	if err := logging.InitLogger(&logging.Config{
		File:       filepath.Join(dir, "test.log"),
		MaxSize:    10,
		MaxBackups: 1,
		MaxAge:     1,
	}); err != nil {
		panic(err)
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestServer(t *testing.T, entries map[string]catalog.Release) (*gin.Engine, *store.Store) {
	t.Helper()

	cat, err := catalog.New(entries)
	require.NoError(t, err)

	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	srv := server.NewServer(&config.Config{
		Environment:    "development",
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}, cat, st)
	srv.Init()

	return srv.Router(), st
}

func defaultEntries() map[string]catalog.Release {
	return map[string]catalog.Release{
		catalog.DefaultCohort: {
			Version:      version.MustParse("1.1.0"),
			ArtifactName: "cg500_ble_app_v1.1.0.apk",
			ArtifactSize: 15728640,
			Notes:        "stability fixes",
			Forced:       false,
			UpdateType:   "recommended",
			ReleasedAt:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}
}

func doVersionCheck(t *testing.T, router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCheckVersionUpdateAvailable(t *testing.T) {
	router, _ := newTestServer(t, defaultEntries())

	w := doVersionCheck(t, router, map[string]string{
		"Current-Version": "1.0.3+4",
		"Platform":        "android",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp releaseDTO.CheckVersionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "1.0.3+4", resp.CurrentVersion)
	assert.Equal(t, "1.1.0", resp.LatestVersion)
	assert.True(t, resp.HasUpdate)
	assert.Equal(t, "cg500_ble_app_v1.1.0.apk", resp.DownloadURL)
	assert.Equal(t, int64(15728640), resp.DownloadSize)
	assert.Equal(t, "stability fixes", resp.ReleaseNotes)
	assert.Equal(t, "recommended", resp.UpdateType)
	require.NotNil(t, resp.IsForced)
	assert.False(t, *resp.IsForced)
	require.NotNil(t, resp.ReleaseDate)
}

func TestCheckVersionNoUpdate(t *testing.T) {
	entries := defaultEntries()
	entries[catalog.DefaultCohort] = catalog.Release{
		Version:      version.MustParse("1.0.4+5"),
		ArtifactName: "cg500_ble_app_v1.0.4.apk",
	}
	router, _ := newTestServer(t, entries)

	w := doVersionCheck(t, router, map[string]string{"Current-Version": "1.0.4+5"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp releaseDTO.CheckVersionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.False(t, resp.HasUpdate)
	assert.Empty(t, resp.DownloadURL)
	assert.Nil(t, resp.IsForced)
	assert.Nil(t, resp.ReleaseDate)

	// The download fields must be absent from the payload, not zeroed.
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "download_url")
	assert.NotContains(t, raw, "is_forced")
}

func TestCheckVersionDefaultsToSentinel(t *testing.T) {
	router, _ := newTestServer(t, defaultEntries())

	// No Current-Version header: the server assumes 1.0.0.
	w := doVersionCheck(t, router, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp releaseDTO.CheckVersionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "1.0.0", resp.CurrentVersion)
	assert.True(t, resp.HasUpdate)
}

func TestCheckVersionMalformed(t *testing.T) {
	router, _ := newTestServer(t, defaultEntries())

	for _, bad := range []string{"1.0", "1.0.5+6extra", "abc", "1.0.0.0"} {
		w := doVersionCheck(t, router, map[string]string{"Current-Version": bad})
		assert.Equal(t, http.StatusBadRequest, w.Code, "Current-Version=%q", bad)
		assert.Contains(t, w.Body.String(), "MALFORMED_VERSION")
	}
}

func TestCheckVersionCohortKeyIsRawText(t *testing.T) {
	entries := defaultEntries()
	// A cohort pinned by its exact reported version string gets its own
	// release; every other version string falls back to default.
	entries["1.0.2"] = catalog.Release{
		Version:      version.MustParse("1.0.9"),
		ArtifactName: "cg500_ble_app_v1.0.9.apk",
		UpdateType:   "recommended",
	}
	router, _ := newTestServer(t, entries)

	w := doVersionCheck(t, router, map[string]string{"Current-Version": "1.0.2"})
	var resp releaseDTO.CheckVersionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1.0.9", resp.LatestVersion)

	// "1.0.2+1" is a distinct cohort even though it shares major.minor.patch.
	w = doVersionCheck(t, router, map[string]string{"Current-Version": "1.0.2+1"})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1.1.0", resp.LatestVersion)
}

func TestCheckVersionForcedRelease(t *testing.T) {
	entries := defaultEntries()
	entries[catalog.DefaultCohort] = catalog.Release{
		Version:      version.MustParse("1.2.0"),
		ArtifactName: "cg500_ble_app_v1.2.0.apk",
		Forced:       true,
		UpdateType:   "forced",
	}
	router, _ := newTestServer(t, entries)

	w := doVersionCheck(t, router, map[string]string{"Current-Version": "1.0.0"})
	var resp releaseDTO.CheckVersionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.HasUpdate)
	require.NotNil(t, resp.IsForced)
	assert.True(t, *resp.IsForced)
}

func TestPublishRelease(t *testing.T) {
	router, _ := newTestServer(t, defaultEntries())

	body, _ := json.Marshal(releaseDTO.PublishReleaseRequest{
		Cohort:        "1.0.5",
		LatestVersion: "1.2.0+7",
		DownloadURL:   "cg500_ble_app_v1.2.0.apk",
		DownloadSize:  1024,
		IsForced:      true,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/releases", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// The new cohort entry is visible to subsequent version checks.
	resp := doVersionCheck(t, router, map[string]string{"Current-Version": "1.0.5"})
	var check releaseDTO.CheckVersionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &check))
	assert.Equal(t, "1.2.0+7", check.LatestVersion)
	assert.True(t, check.HasUpdate)
	require.NotNil(t, check.IsForced)
	assert.True(t, *check.IsForced)
}

func TestPublishReleaseRejectsMalformedVersion(t *testing.T) {
	router, _ := newTestServer(t, defaultEntries())

	body, _ := json.Marshal(releaseDTO.PublishReleaseRequest{
		Cohort:        "1.0.5",
		LatestVersion: "1.2",
		DownloadURL:   "cg500_ble_app_v1.2.apk",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/releases", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MALFORMED_VERSION")
}

func TestPublishReleaseRejectsMissingFields(t *testing.T) {
	router, _ := newTestServer(t, defaultEntries())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/releases", bytes.NewReader([]byte(`{"cohort":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestHealth(t *testing.T) {
	router, _ := newTestServer(t, defaultEntries())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp releaseDTO.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Timestamp)
}
