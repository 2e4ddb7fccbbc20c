package civitai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"model-notes-be/internal/pkg/logger"
	"model-notes-be/pkg/markup"
)

const (
	DefaultBaseURL    = "https://civitai.com/api/v1"
	DefaultMaxRetries = 5
	// Used when a 429 carries no usable Retry-After header.
	DefaultRetryAfter = 5 * time.Second

	chunkSize = 32 * 1024
	userAgent = "model-notes-be/1.0"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	// MaxRetries caps the retries issued for a single request after 429 responses.
	MaxRetries int
	Sleep      SleepFunc
	Logger     logger.ILogger
}

// Client looks up model descriptions and preview images on Civitai by content hash.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	sleep      SleepFunc
	logger     logger.ILogger
}

const module = "CivitaiClient"

func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		maxRetries: opts.MaxRetries,
		sleep:      opts.Sleep,
		logger:     opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	if c.sleep == nil {
		c.sleep = sleepContext
	}
	if c.logger == nil {
		c.logger = logger.NewNopLogger()
	}
	return c
}

type modelVersion struct {
	ModelID      int64    `json:"modelId"`
	Description  *string  `json:"description"`
	TrainedWords []string `json:"trainedWords"`
	Images       []struct {
		URL string `json:"url"`
	} `json:"images"`
}

type modelInfo struct {
	Description *string `json:"description"`
}

// FetchDescription returns the formatted model and version description for the
// model with the given hash, or "" when nothing could be retrieved.
func (c *Client) FetchDescription(ctx context.Context, hash string, wantMarkdown bool) string {
	version, ok := c.modelVersion(ctx, hash)
	if !ok {
		return ""
	}

	var model modelInfo
	if !c.getJSON(ctx, fmt.Sprintf("%s/models/%d", c.baseURL, version.ModelID), &model) {
		return ""
	}

	convert := func(s *string) string {
		if s == nil {
			return ""
		}
		if !wantMarkdown {
			return markup.StripTags(*s)
		}
		out, err := markup.ToMarkdown(*s)
		if err != nil {
			return markup.StripTags(*s)
		}
		return out
	}

	return fmt.Sprintf("Model Description:\n%s\n\nVersion Description:\n%s\n\nTrigger Words:\n%s",
		convert(model.Description),
		convert(version.Description),
		strings.Join(version.TrainedWords, ", "),
	)
}

// FetchPreviewImage downloads the first preview image of the model version to
// destPath. It reports false when there is no image or the download failed;
// no partial file is left behind.
func (c *Client) FetchPreviewImage(ctx context.Context, hash, destPath string) bool {
	version, ok := c.modelVersion(ctx, hash)
	if !ok || len(version.Images) == 0 || version.Images[0].URL == "" {
		return false
	}

	resp, err := c.do(ctx, version.Images[0].URL)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	return writeStream(resp.Body, destPath) == nil
}

func (c *Client) modelVersion(ctx context.Context, hash string) (*modelVersion, bool) {
	if hash == "" {
		return nil, false
	}
	var version modelVersion
	endpoint := fmt.Sprintf("%s/model-versions/by-hash/%s", c.baseURL, url.PathEscape(hash))
	if !c.getJSON(ctx, endpoint, &version) {
		return nil, false
	}
	return &version, true
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) bool {
	resp, err := c.do(ctx, endpoint)
	if err != nil {
		c.logger.Warn(module, "Request failed", map[string]interface{}{
			"url":   endpoint,
			"error": err.Error(),
		})
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug(module, "Unexpected status", map[string]interface{}{
			"url":    endpoint,
			"status": resp.StatusCode,
		})
		_, _ = io.Copy(io.Discard, resp.Body)
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn(module, "Malformed response", map[string]interface{}{
			"url":   endpoint,
			"error": err.Error(),
		})
		return false
	}
	return true
}

// do issues a GET and repeats it after every 429, waiting as long as the
// server asks, until it gets another status or runs out of retries.
func (c *Client) do(ctx context.Context, endpoint string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= c.maxRetries {
			return resp, nil
		}

		wait := retryAfter(resp.Header.Get("Retry-After"), time.Now())
		c.logger.Info(module, "Rate limited, waiting before retry", map[string]interface{}{
			"url":     endpoint,
			"wait":    wait.String(),
			"attempt": attempt + 1,
		})
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// retryAfter reads a Retry-After value in seconds or as an HTTP date.
func retryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultRetryAfter
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	return DefaultRetryAfter
}

func writeStream(r io.Reader, destPath string) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".preview-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := copyChunks(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, destPath); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func copyChunks(w io.Writer, r io.Reader) error {
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
