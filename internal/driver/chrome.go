package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Options configures a new browser session.
type Options struct {
	// BrowserPath is the resolved browser binary. Empty lets chromedp probe.
	BrowserPath string
	// Headless is off by default: the operator must see the page to read
	// the CAPTCHA.
	Headless bool
}

// chromeSession drives one Chrome tab through the DevTools protocol.
type chromeSession struct {
	ctx       context.Context
	closeOnce sync.Once
	closeErr  error
	cancel    func()
}

// NewSession launches the browser and opens a fresh tab. A browser that
// cannot be started fails here, before any state machine runs.
func NewSession(ctx context.Context, opts Options) (Session, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("start-maximized", true),
	)
	if opts.BrowserPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.BrowserPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	cancel := func() {
		tabCancel()
		allocCancel()
	}

	// Force the browser process up now so startup failures surface as a
	// precondition error rather than mid-flow.
	if err := chromedp.Run(tabCtx, network.Enable()); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &chromeSession{ctx: tabCtx, cancel: cancel}, nil
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.bounded(ctx)
	defer cancel()
	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

var errNotVisible = errors.New("element not visible")

// WaitVisible polls for the element to be present and visible, backing off
// exponentially until the timeout expires.
func (s *chromeSession) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	expr := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return !!el && el.offsetParent !== null; })()`,
		sel,
	)

	check := func() error {
		var visible bool
		if err := chromedp.Run(waitCtx, chromedp.Evaluate(expr, &visible)); err != nil {
			if waitCtx.Err() != nil {
				return backoff.Permanent(waitCtx.Err())
			}
			return backoff.Permanent(err)
		}
		if !visible {
			return errNotVisible
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 0 // bounded by waitCtx

	if err := backoff.Retry(check, backoff.WithContext(bo, waitCtx)); err != nil {
		return fmt.Errorf("element %s not visible within %s: %w", sel, timeout, err)
	}
	return nil
}

func (s *chromeSession) SendKeys(ctx context.Context, sel, text string) error {
	runCtx, cancel := s.bounded(ctx)
	defer cancel()
	if err := chromedp.Run(runCtx, chromedp.SendKeys(sel, text, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to type into %s: %w", sel, err)
	}
	return nil
}

func (s *chromeSession) Click(ctx context.Context, sel string) error {
	runCtx, cancel := s.bounded(ctx)
	defer cancel()
	if err := chromedp.Run(runCtx, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("failed to click %s: %w", sel, err)
	}
	return nil
}

func (s *chromeSession) Text(ctx context.Context, sel string) (string, error) {
	runCtx, cancel := s.bounded(ctx)
	defer cancel()
	var text string
	// AtLeast(0): do not wait for the element, absence yields empty text
	if err := chromedp.Run(runCtx, chromedp.Text(sel, &text, chromedp.ByQuery, chromedp.AtLeast(0))); err != nil {
		return "", fmt.Errorf("failed to read text of %s: %w", sel, err)
	}
	return text, nil
}

func (s *chromeSession) Location(ctx context.Context) (string, error) {
	runCtx, cancel := s.bounded(ctx)
	defer cancel()
	var url string
	if err := chromedp.Run(runCtx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return url, nil
}

// Close tears down the tab and the browser process. Safe to call more than
// once.
func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.ctx)
		s.cancel()
	})
	return s.closeErr
}

// bounded derives an action context from the tab context, carrying over the
// caller's deadline if it has one.
func (s *chromeSession) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(s.ctx, deadline)
	}
	return context.WithCancel(s.ctx)
}
