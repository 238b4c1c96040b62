// Package remote syncs the shared snapshot file through a source-control
// contents API. One JSON document per configured repository; last write
// wins.
package remote

import (
	"context"
	"encoding/base64"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/manhuaapp/manhua-server/internal/domain"
	apperrors "github.com/manhuaapp/manhua-server/internal/errors"
)

const snapshotPath = "db.json"

// ErrPushFailed is the single error Push returns. Callers get no more
// detail than "it did not land"; specifics go to the log.
var ErrPushFailed = apperrors.RemoteSync("failed to push snapshot")

// Client talks to the hosting API. The base URL is configurable so tests
// can point it at a local server.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient creates a remote client against the given API base URL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/vnd.github+json")

	return &Client{
		http:   httpClient,
		logger: logger,
	}
}

// contentsResponse is the hosting API's file-object shape.
type contentsResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// contentsRequest is the write payload for the contents endpoint.
type contentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

// Fetch retrieves and decodes the shared snapshot. Every failure mode, from
// a missing file to a revoked credential to a network error, collapses into
// the single "absent" outcome: nil snapshot, nil error. Details are logged
// but never surfaced, so callers fall back to local data uniformly.
func (c *Client) Fetch(ctx context.Context, cfg *domain.RemoteConfig) *domain.Snapshot {
	if !cfg.IsConfigured() {
		return nil
	}

	file, err := c.getContents(ctx, cfg)
	if err != nil {
		c.logger.Warn("remote fetch failed, treating snapshot as absent", "repo", cfg.Repo, "error", err)
		return nil
	}

	raw, err := decodeContent(file.Content)
	if err != nil {
		c.logger.Warn("remote snapshot content is not valid base64", "repo", cfg.Repo, "error", err)
		return nil
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		c.logger.Warn("remote snapshot is not valid JSON", "repo", cfg.Repo, "error", err)
		return nil
	}

	snapshot.Normalize()
	return &snapshot
}

// Push writes the snapshot, conditioned on the revision token read
// immediately beforehand. The token is never cached across calls: a stale
// token would reject the write outright, while reading fresh narrows the
// overwrite window to the gap between these two requests. Failures are
// logged and collapsed into ErrPushFailed. No retry.
func (c *Client) Push(ctx context.Context, cfg *domain.RemoteConfig, snapshot *domain.Snapshot) error {
	if !cfg.IsConfigured() {
		return ErrPushFailed
	}

	var sha string
	if file, err := c.getContents(ctx, cfg); err == nil {
		sha = file.SHA
	}
	// A failed read means the file likely does not exist yet; push without
	// a token and let the API create it.

	raw, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Error("failed to encode snapshot", "error", err)
		return ErrPushFailed
	}

	body := contentsRequest{
		Message: "Update library data",
		Content: base64.StdEncoding.EncodeToString(raw),
		SHA:     sha,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(cfg.Token).
		SetBody(body).
		Put(c.contentsURL(cfg))
	if err != nil {
		c.logger.Warn("remote push failed", "repo", cfg.Repo, "error", err)
		return ErrPushFailed
	}
	if resp.IsError() {
		c.logger.Warn("remote push rejected", "repo", cfg.Repo, "status", resp.StatusCode())
		return ErrPushFailed
	}

	c.logger.Info("snapshot pushed", "repo", cfg.Repo)
	return nil
}

// Probe reports whether the configured remote is reachable and readable.
func (c *Client) Probe(ctx context.Context, cfg *domain.RemoteConfig) bool {
	if !cfg.IsConfigured() {
		return false
	}
	_, err := c.getContents(ctx, cfg)
	return err == nil
}

func (c *Client) contentsURL(cfg *domain.RemoteConfig) string {
	return fmt.Sprintf("/repos/%s/contents/%s", cfg.Repo, snapshotPath)
}

func (c *Client) getContents(ctx context.Context, cfg *domain.RemoteConfig) (*contentsResponse, error) {
	var file contentsResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(cfg.Token).
		SetResult(&file).
		Get(c.contentsURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("get contents: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("snapshot file not found")
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get contents: status %d", resp.StatusCode())
	}

	return &file, nil
}

// decodeContent handles the API's line-wrapped base64 encoding.
func decodeContent(content string) ([]byte, error) {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(content, "\n", ""), "\r", "")
	return base64.StdEncoding.DecodeString(cleaned)
}
