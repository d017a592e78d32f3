package chromedp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"browser-command-agent/internal/application/port/output"
	"browser-command-agent/internal/domain/entity"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

const defaultTimeout = 5 * time.Second

type BrowserConfig struct {
	Headless  bool
	Timeout   time.Duration
	NoSandbox bool
	ExecPath  string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless: false,
		Timeout:  defaultTimeout,
	}
}

type BrowserAdapter struct {
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	timeout     time.Duration

	closeOnce sync.Once
	closeErr  error
}

func Open(ctx context.Context, cfg output.BrowserConfig) (output.BrowserPort, error) {
	browserCfg := DefaultConfig()
	browserCfg.Headless = cfg.Headless
	if cfg.ImplicitWait > 0 {
		browserCfg.Timeout = cfg.ImplicitWait
	}
	return NewBrowserAdapter(ctx, browserCfg)
}

func execOptions(cfg BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	return opts
}

// NewBrowserAdapter starts a browser process and opens one tab. The browser
// outlives ctx; only Close stops it.
func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), execOptions(cfg)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// the first Run starts the browser
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &BrowserAdapter{
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		timeout:     cfg.Timeout,
	}, nil
}

// scoped derives a context that carries the tab and also stops when ctx is
// cancelled. A zero timeout means no deadline.
func (b *BrowserAdapter) scoped(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var runCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(b.tabCtx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(b.tabCtx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := b.scoped(ctx, 0)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) FindByName(ctx context.Context, name string) (output.ElementPort, error) {
	selector := "[name=" + strconv.Quote(name) + "]"
	return b.find(ctx, selector, chromedp.ByQuery)
}

// FindLinkByText returns the first anchor, in document order, whose text
// contains partialText. Matching is case-sensitive.
func (b *BrowserAdapter) FindLinkByText(ctx context.Context, partialText string) (output.ElementPort, error) {
	xpath := "//a[contains(., " + xpathLiteral(partialText) + ")]"
	return b.find(ctx, xpath, chromedp.BySearch)
}

func (b *BrowserAdapter) find(ctx context.Context, sel string, by chromedp.QueryOption) (output.ElementPort, error) {
	runCtx, cancel := b.scoped(ctx, b.timeout)
	defer cancel()

	var nodes []*cdp.Node
	if err := chromedp.Run(runCtx, chromedp.Nodes(sel, &nodes, by)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", sel, entity.ErrElementNotFound)
		}
		return nil, fmt.Errorf("lookup %s failed: %w", sel, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: %w", sel, entity.ErrElementNotFound)
	}

	return &element{browser: b, ids: []cdp.NodeID{nodes[0].NodeID}}, nil
}

func (b *BrowserAdapter) CurrentURL() string {
	runCtx, cancel := b.scoped(context.Background(), b.timeout)
	defer cancel()

	var location string
	if err := chromedp.Run(runCtx, chromedp.Location(&location)); err != nil {
		return ""
	}
	return location
}

func (b *BrowserAdapter) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = chromedp.Cancel(b.tabCtx)
		b.tabCancel()
		b.allocCancel()
		if errors.Is(b.closeErr, context.Canceled) {
			b.closeErr = nil
		}
	})
	return b.closeErr
}

type element struct {
	browser *BrowserAdapter
	ids     []cdp.NodeID
}

func (e *element) run(ctx context.Context, what string, action chromedp.Action) error {
	runCtx, cancel := e.browser.scoped(ctx, e.browser.timeout)
	defer cancel()

	if err := chromedp.Run(runCtx, action); err != nil {
		return fmt.Errorf("%s failed: %w", what, err)
	}
	return nil
}

func (e *element) Clear(ctx context.Context) error {
	return e.run(ctx, "clear", chromedp.Clear(e.ids, chromedp.ByNodeID))
}

func (e *element) Type(ctx context.Context, text string) error {
	return e.run(ctx, "input", chromedp.SendKeys(e.ids, text, chromedp.ByNodeID))
}

func (e *element) Submit(ctx context.Context) error {
	return e.run(ctx, "submit", chromedp.Submit(e.ids, chromedp.ByNodeID))
}

func (e *element) Click(ctx context.Context) error {
	return e.run(ctx, "click", chromedp.Click(e.ids, chromedp.ByNodeID))
}

// xpathLiteral quotes s for use inside an XPath expression. XPath 1.0 has no
// escape sequences, so strings holding both quote kinds are built with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}

	parts := strings.Split(s, `"`)
	args := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			args = append(args, `'"'`)
		}
		if part != "" {
			args = append(args, `"`+part+`"`)
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}
