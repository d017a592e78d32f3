package rod

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"browser-command-agent/internal/application/port/output"
	"browser-command-agent/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

const (
	defaultTimeout     = 5 * time.Second
	defaultSlowMotion  = 0
	navigateIdleWindow = 2 * time.Second
)

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration

	closeOnce sync.Once
	closeErr  error
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	// Timeout bounds every element lookup, like an implicit wait.
	Timeout   time.Duration
	NoSandbox bool
	DevTools  bool
	// ControlURL connects to an already running browser instead of
	// launching one.
	ControlURL string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   false,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
		NoSandbox:  false,
		DevTools:   false,
	}
}

func Open(ctx context.Context, cfg output.BrowserConfig) (output.BrowserPort, error) {
	browserCfg := DefaultConfig()
	browserCfg.Headless = cfg.Headless
	if cfg.ImplicitWait > 0 {
		browserCfg.Timeout = cfg.ImplicitWait
	}
	return NewBrowserAdapter(ctx, browserCfg)
}

// NewBrowserAdapter launches (or attaches to) a browser. The process outlives
// ctx; only Close stops it.
func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	var l *launcher.Launcher
	controlURL := cfg.ControlURL
	if controlURL == "" {
		l = launcher.New().
			Context(context.WithoutCancel(ctx)).
			Headless(cfg.Headless).
			Devtools(cfg.DevTools).
			NoSandbox(cfg.NoSandbox).
			Delete("use-mock-keychain")

		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		if l != nil {
			l.Kill()
			l.Cleanup()
		}
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		if l != nil {
			l.Kill()
			l.Cleanup()
		}
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
	}, nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	page := b.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.Timeout(b.timeout).WaitLoad(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("wait for load failed: %w", err)
	}
	page.WaitIdle(navigateIdleWindow)
	return nil
}

func (b *BrowserAdapter) FindByName(ctx context.Context, name string) (output.ElementPort, error) {
	selector := "[name=" + strconv.Quote(name) + "]"
	el, err := b.page.Context(ctx).Timeout(b.timeout).Element(selector)
	if err != nil {
		return nil, lookupError(selector, err)
	}
	return &element{el: el, page: b.page}, nil
}

// FindLinkByText returns the first anchor, in document order, whose text
// contains partialText. Matching is case-sensitive.
func (b *BrowserAdapter) FindLinkByText(ctx context.Context, partialText string) (output.ElementPort, error) {
	el, err := b.page.Context(ctx).Timeout(b.timeout).ElementR("a", linkPattern(partialText))
	if err != nil {
		return nil, lookupError("a~"+partialText, err)
	}
	return &element{el: el, page: b.page}, nil
}

// linkPattern builds the ElementR pattern for a literal substring. rod reads
// "/body/flags" as a JS regex literal, so the text is always wrapped with
// empty flags; otherwise input such as "/a/i" would turn on flags.
func linkPattern(text string) string {
	return "/" + regexp.QuoteMeta(text) + "/"
}

func (b *BrowserAdapter) CurrentURL() string {
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) Close() error {
	b.closeOnce.Do(func() {
		if b.browser != nil {
			b.closeErr = b.browser.Close()
		}
		if b.launcher != nil {
			b.launcher.Kill()
			b.launcher.Cleanup()
		}
	})
	return b.closeErr
}

type element struct {
	el   *rod.Element
	page *rod.Page
}

func (e *element) Clear(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(`() => {
		this.value = "";
		this.dispatchEvent(new Event("input", { bubbles: true }));
	}`)
	if err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	return nil
}

func (e *element) Type(ctx context.Context, text string) error {
	if err := e.el.Context(ctx).Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (e *element) Submit(ctx context.Context) error {
	if err := e.el.Context(ctx).Type(input.Enter); err != nil {
		return fmt.Errorf("submit failed: %w", err)
	}
	return nil
}

func (e *element) Click(ctx context.Context) error {
	if err := e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	e.page.Context(ctx).WaitIdle(navigateIdleWindow)
	return nil
}

func lookupError(what string, err error) error {
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", what, entity.ErrElementNotFound)
	}
	return fmt.Errorf("lookup %s failed: %w", what, err)
}
