package output

import (
	"context"
	"time"
)

// BrowserPort is the driver capability the executor works against. Lookups
// wait up to the driver's implicit-wait bound and report a miss as
// entity.ErrElementNotFound.
type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	FindByName(ctx context.Context, name string) (ElementPort, error)
	FindLinkByText(ctx context.Context, partialText string) (ElementPort, error)

	CurrentURL() string
	Close() error
}

type ElementPort interface {
	Clear(ctx context.Context) error
	Type(ctx context.Context, text string) error
	Submit(ctx context.Context) error
	Click(ctx context.Context) error
}

// BrowserOpener starts a browser session. Used by the container so tests can
// substitute a fake driver.
type BrowserOpener func(ctx context.Context, cfg BrowserConfig) (BrowserPort, error)

type BrowserConfig struct {
	Driver       string
	Headless     bool
	ImplicitWait time.Duration
}
