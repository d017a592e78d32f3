package rod

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"browser-command-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Headless)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.False(t, cfg.NoSandbox, "Should be secure by default")
	assert.False(t, cfg.DevTools)
	assert.Empty(t, cfg.ControlURL)
}

func newTestAdapter(t *testing.T) *BrowserAdapter {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	cfg := DefaultConfig()
	cfg.Headless = true
	cfg.Timeout = time.Second

	adapter, err := NewBrowserAdapter(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })
	return adapter
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	pages := map[string]string{
		"/":        BasicHTML,
		"/search":  SearchHTML,
		"/links":   LinksHTML,
		"/results": ResultsHTML,
		"/cats":    ResultsHTML,
		"/wiki":    ResultsHTML,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestBrowserAdapter_Navigate(t *testing.T) {
	adapter := newTestAdapter(t)
	server := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, adapter.Navigate(ctx, server.URL))
	assert.Equal(t, server.URL+"/", adapter.CurrentURL())
}

func TestBrowserAdapter_Navigate_InvalidURL(t *testing.T) {
	adapter := newTestAdapter(t)

	err := adapter.Navigate(context.Background(), "not-a-valid-url://")
	assert.Error(t, err)
}

func TestBrowserAdapter_SearchFlow(t *testing.T) {
	adapter := newTestAdapter(t)
	server := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, adapter.Navigate(ctx, server.URL+"/search"))

	box, err := adapter.FindByName(ctx, "q")
	require.NoError(t, err)
	require.NoError(t, box.Clear(ctx))
	require.NoError(t, box.Type(ctx, "cats"))
	require.NoError(t, box.Submit(ctx))

	assert.Eventually(t, func() bool {
		return strings.HasSuffix(adapter.CurrentURL(), "/results?q=cats")
	}, 5*time.Second, 50*time.Millisecond, "stale text must be cleared before typing")
}

func TestBrowserAdapter_FindByName_NotFound(t *testing.T) {
	adapter := newTestAdapter(t)
	server := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, adapter.Navigate(ctx, server.URL))

	_, err := adapter.FindByName(ctx, "q")
	assert.ErrorIs(t, err, entity.ErrElementNotFound)
}

func TestBrowserAdapter_FindLinkByText_FirstMatch(t *testing.T) {
	adapter := newTestAdapter(t)
	server := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, adapter.Navigate(ctx, server.URL+"/links"))

	link, err := adapter.FindLinkByText(ctx, "Wikipedia")
	require.NoError(t, err)
	require.NoError(t, link.Click(ctx))

	assert.Eventually(t, func() bool {
		return adapter.CurrentURL() == server.URL+"/cats"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestBrowserAdapter_FindLinkByText_CaseSensitive(t *testing.T) {
	adapter := newTestAdapter(t)
	server := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, adapter.Navigate(ctx, server.URL+"/links"))

	_, err := adapter.FindLinkByText(ctx, "wikipedia")
	assert.ErrorIs(t, err, entity.ErrElementNotFound)
}

func TestLinkPattern(t *testing.T) {
	assert.Equal(t, "/Wikipedia/", linkPattern("Wikipedia"))
	assert.Equal(t, `//a/i/`, linkPattern("/a/i"))
	assert.Equal(t, `/C\+\+ \(lang\)/`, linkPattern("C++ (lang)"))
}

func TestBrowserAdapter_FindLinkByText_SlashesAreLiteral(t *testing.T) {
	adapter := newTestAdapter(t)
	server := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, adapter.Navigate(ctx, server.URL+"/links"))

	_, err := adapter.FindLinkByText(ctx, "/wikipedia/i")
	assert.ErrorIs(t, err, entity.ErrElementNotFound)
}

func TestBrowserAdapter_CloseIsIdempotent(t *testing.T) {
	adapter := newTestAdapter(t)

	assert.NoError(t, adapter.Close())
	assert.NoError(t, adapter.Close())
}
