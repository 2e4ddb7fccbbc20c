package civitai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSleep struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = append(r.waits, d)
	return ctx.Err()
}

func newCatalogServer(t *testing.T, mux *http.ServeMux) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchDescriptionPlainText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/model-versions/by-hash/abc", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"modelId": 42, "description": "<p>Version <b>two</b></p>", "trainedWords": ["foo", "bar baz"]}`))
	})
	mux.HandleFunc("/models/42", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"description": "<h1>Great</h1><p>model</p>"}`))
	})
	srv := newCatalogServer(t, mux)

	c := NewClient(Options{BaseURL: srv.URL})
	got := c.FetchDescription(context.Background(), "abc", false)

	assert.Equal(t, "Model Description:\nGreat\nmodel\n\nVersion Description:\nVersion\ntwo\n\nTrigger Words:\nfoo, bar baz", got)
}

func TestFetchDescriptionMarkdown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/model-versions/by-hash/abc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"modelId": 7, "description": null, "trainedWords": []}`))
	})
	mux.HandleFunc("/models/7", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"description": "<p>Use <strong>low</strong> weight</p>"}`))
	})
	srv := newCatalogServer(t, mux)

	c := NewClient(Options{BaseURL: srv.URL})
	got := c.FetchDescription(context.Background(), "abc", true)

	assert.Contains(t, got, "Model Description:\nUse **low** weight")
	assert.Contains(t, got, "Version Description:\n\n")
}

func TestFetchDescriptionNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/model-versions/by-hash/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := newCatalogServer(t, mux)

	c := NewClient(Options{BaseURL: srv.URL})
	assert.Equal(t, "", c.FetchDescription(context.Background(), "missing", false))
	assert.Equal(t, "", c.FetchDescription(context.Background(), "", false))
}

func TestRateLimitWaitsThenRetriesOnce(t *testing.T) {
	var versionCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/model-versions/by-hash/abc", func(w http.ResponseWriter, r *http.Request) {
		if versionCalls.Add(1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"modelId": 1, "description": "v", "trainedWords": []}`))
	})
	mux.HandleFunc("/models/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"description": "m"}`))
	})
	srv := newCatalogServer(t, mux)

	rec := &recordingSleep{}
	c := NewClient(Options{BaseURL: srv.URL, MaxRetries: 5, Sleep: rec.sleep})
	got := c.FetchDescription(context.Background(), "abc", false)

	assert.Contains(t, got, "Model Description:\nm")
	assert.EqualValues(t, 2, versionCalls.Load(), "exactly one retry")
	require.Len(t, rec.waits, 1)
	assert.GreaterOrEqual(t, rec.waits[0], 2*time.Second)
}

func TestRateLimitRetriesAreBounded(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/model-versions/by-hash/abc", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	srv := newCatalogServer(t, mux)

	rec := &recordingSleep{}
	c := NewClient(Options{BaseURL: srv.URL, MaxRetries: 3, Sleep: rec.sleep})

	assert.Equal(t, "", c.FetchDescription(context.Background(), "abc", false))
	assert.EqualValues(t, 4, calls.Load())
	assert.Len(t, rec.waits, 3)
}

func TestRateLimitHonoursCancellation(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/model-versions/by-hash/abc", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "3600")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	srv := newCatalogServer(t, mux)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(Options{BaseURL: srv.URL, MaxRetries: 10})
	start := time.Now()
	assert.Equal(t, "", c.FetchDescription(ctx, "abc", false))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.EqualValues(t, 1, calls.Load())
}

func TestRetryAfterParsing(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 2*time.Second, retryAfter("2", now))
	assert.Equal(t, DefaultRetryAfter, retryAfter("", now))
	assert.Equal(t, DefaultRetryAfter, retryAfter("soon", now))
	assert.Equal(t, time.Duration(0), retryAfter("-4", now))
	assert.Equal(t, 30*time.Second, retryAfter(now.Add(30*time.Second).Format(http.TimeFormat), now))
}

func TestFetchPreviewImage(t *testing.T) {
	image := make([]byte, 100*1024)
	for i := range image {
		image[i] = byte(i)
	}

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/model-versions/by-hash/abc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"modelId": 1, "images": [{"url": "` + srv.URL + `/img/1.png"}, {"url": "` + srv.URL + `/img/2.png"}]}`))
	})
	mux.HandleFunc("/model-versions/by-hash/noimg", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"modelId": 1, "images": []}`))
	})
	mux.HandleFunc("/img/1.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(image)
	})
	srv = newCatalogServer(t, mux)

	dir := t.TempDir()
	c := NewClient(Options{BaseURL: srv.URL})

	dest := filepath.Join(dir, "model.preview.png")
	require.True(t, c.FetchPreviewImage(context.Background(), "abc", dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, image, data)

	missing := filepath.Join(dir, "other.preview.png")
	assert.False(t, c.FetchPreviewImage(context.Background(), "noimg", missing))
	_, err = os.Stat(missing)
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
