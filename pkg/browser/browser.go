// Package browser drives a live Chrome tab over the DevTools protocol and exposes it as a page
// the automation loop can read and act on.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	log "github.com/go-pkgz/lgr"

	"github.com/umputun/engager/pkg/config"
)

// Browser owns the chrome allocator and the automated tab
type Browser struct {
	allocCancel context.CancelFunc
	tabCancel   context.CancelFunc
	page        *Page
}

// New launches chrome, or attaches to a running one if RemoteURL is set, and opens StartURL.
// The profile dir keeps the logged-in session between runs.
func New(ctx context.Context, cfg config.BrowserConfig) (*Browser, error) {
	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if cfg.RemoteURL != "" {
		log.Printf("[INFO] connecting to chrome at %s", cfg.RemoteURL)
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, cfg.RemoteURL)
	} else {
		if err := os.MkdirAll(cfg.ProfileDir, 0o750); err != nil {
			return nil, fmt.Errorf("create profile dir: %w", err)
		}
		removeStaleLocks(cfg.ProfileDir)
		log.Printf("[INFO] launching chrome, profile %s, headless %v", cfg.ProfileDir, cfg.Headless)
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, execOptions(cfg)...)
	}

	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		log.Printf("[DEBUG] chrome: "+format, args...)
	}))

	// the first Run allocates the browser, it must get the tab context itself and not a timeout child
	errCh := make(chan error, 1)
	go func() {
		errCh <- chromedp.Run(tabCtx, chromedp.Navigate(cfg.StartURL))
	}()

	timeout := cfg.StartTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	select {
	case err := <-errCh:
		if err != nil {
			tabCancel()
			allocCancel()
			return nil, fmt.Errorf("open %s: %w", cfg.StartURL, err)
		}
	case <-time.After(timeout):
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("chrome didn't start in %v", timeout)
	case <-ctx.Done():
		tabCancel()
		allocCancel()
		return nil, ctx.Err()
	}

	log.Printf("[INFO] chrome opened %s", cfg.StartURL)
	return &Browser{allocCancel: allocCancel, tabCancel: tabCancel, page: newPage(tabCtx)}, nil
}

// Page returns the automated tab
func (b *Browser) Page() *Page { return b.page }

// Close closes the tab and the browser, or detaches from a remote one
func (b *Browser) Close() {
	b.tabCancel()
	b.allocCancel()
	log.Printf("[INFO] chrome closed")
}

func execOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.UserDataDir(cfg.ProfileDir),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,

		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-backgrounding-occluded-windows", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-session-crashed-bubble", true),
		chromedp.Flag("hide-crash-restore-bubble", true),

		chromedp.WindowSize(cfg.Width, cfg.Height),
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	return opts
}

// removeStaleLocks drops singleton locks left by a crashed chrome, they block the profile
func removeStaleLocks(dir string) {
	for _, name := range []string{"SingletonLock", "SingletonSocket", "SingletonCookie"} {
		if err := os.Remove(filepath.Join(dir, name)); err == nil {
			log.Printf("[WARN] removed stale chrome lock %s", name)
		}
	}
}
