package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	releaseDTO "github.com/rstltd/cg500-blueteeth-app/internal/api/dto/v1/release"
)

// Client talks to a running update server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given server URL.
func New(serverURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CheckVersion asks the server whether an update is available for the
// given client version.
func (c *Client) CheckVersion(ctx context.Context, currentVersion, platform string) (*releaseDTO.CheckVersionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/version", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Current-Version", currentVersion)
	if platform != "" {
		req.Header.Set("Platform", platform)
	}

	var resp releaseDTO.CheckVersionResponse
	if err := c.doJSON(req, &resp); err != nil {
		return nil, fmt.Errorf("failed to check version: %w", err)
	}
	return &resp, nil
}

// Stats fetches the server's artifact statistics.
func (c *Client) Stats(ctx context.Context) (*releaseDTO.StatsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/stats", nil)
	if err != nil {
		return nil, err
	}

	var resp releaseDTO.StatsResponse
	if err := c.doJSON(req, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	return &resp, nil
}

// Health probes the server's liveness endpoint.
func (c *Client) Health(ctx context.Context) (*releaseDTO.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}

	var resp releaseDTO.HealthResponse
	if err := c.doJSON(req, &resp); err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	return &resp, nil
}

// Download fetches the named artifact into destDir and returns the path of
// the written file. The download has no overall timeout; it is cancelled
// through ctx.
func (c *Client) Download(ctx context.Context, name, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/download/"+name, nil)
	if err != nil {
		return "", err
	}

	// Separate client without the short JSON timeout; artifacts are large.
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download artifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	destName := name
	if !strings.HasSuffix(destName, ".apk") {
		destName += ".apk"
	}
	destPath := filepath.Join(destDir, destName)

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	return destPath, nil
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
