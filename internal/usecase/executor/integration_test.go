package executor_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"browser-command-agent/internal/application/port/output"
	"browser-command-agent/internal/domain/entity"
	"browser-command-agent/internal/infrastructure/browser/chromedp"
	"browser-command-agent/internal/infrastructure/browser/rod"
	"browser-command-agent/internal/infrastructure/logger"
	"browser-command-agent/internal/infrastructure/userinteraction"
	"browser-command-agent/internal/usecase/executor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pages = map[string]string{
	"/": `<!DOCTYPE html><html><head><title>Home</title></head><body>
		<a href="/about">About us</a>
		<a href="/wiki">Wikipedia</a>
	</body></html>`,
	"/search": `<!DOCTYPE html><html><body>
		<form action="/results" method="get"><input type="text" name="q" /></form>
	</body></html>`,
	"/results": `<!DOCTYPE html><html><body><h1>Results</h1></body></html>`,
	"/wiki":    `<!DOCTYPE html><html><body><h1>Wiki</h1></body></html>`,
}

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
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

var drivers = map[string]output.BrowserOpener{
	"rod":      rod.Open,
	"chromedp": chromedp.Open,
}

func TestExecutor_AgainstRealBrowser(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	for name, open := range drivers {
		t.Run(name, func(t *testing.T) {
			site := newSite(t)
			ctx := context.Background()

			browser, err := open(ctx, output.BrowserConfig{Driver: name, Headless: true, ImplicitWait: time.Second})
			require.NoError(t, err)
			t.Cleanup(func() { _ = browser.Close() })

			var out bytes.Buffer
			ui := userinteraction.NewConsoleUserInteraction("[Agent]", "", userinteraction.WithIO(strings.NewReader(""), &out))
			uc := executor.New(browser, ui, logger.NewNop(), executor.Config{
				SearchURL:   site.URL + "/search",
				SearchField: "q",
				SettleDelay: 100 * time.Millisecond,
			})

			outcome := uc.Execute(ctx, entity.NewCommand("open", site.URL))
			require.True(t, outcome.OK(), outcome.Message)
			assert.Equal(t, site.URL+"/", browser.CurrentURL())

			outcome = uc.Execute(ctx, entity.NewCommand("click", "Wiki"))
			require.True(t, outcome.OK(), outcome.Message)
			assert.Eventually(t, func() bool {
				return browser.CurrentURL() == site.URL+"/wiki"
			}, 5*time.Second, 50*time.Millisecond)

			outcome = uc.Execute(ctx, entity.NewCommand("click", "Nonexistent"))
			assert.Equal(t, entity.OutcomeNotFound, outcome.Status)

			outcome = uc.Execute(ctx, entity.NewCommand("search", "cats and dogs"))
			require.True(t, outcome.OK(), outcome.Message)
			assert.Eventually(t, func() bool {
				return strings.HasSuffix(browser.CurrentURL(), "/results?q=cats+and+dogs")
			}, 5*time.Second, 50*time.Millisecond)

			assert.Contains(t, out.String(), "[Agent] Searching for 'cats and dogs'…")
		})
	}
}
