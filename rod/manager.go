package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/ezweb"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the number of rendered pages after which the browser
// is replaced by a fresh one.
const DefaultMaxPages = 75

// BrowserManager hands out browser pages and replaces the browser once it
// has served maxPages renders. Chrome memory grows with every render and
// never returns to its baseline, so long crawls need a fresh process.
//
// The browser is only replaced when no page is open on it. A crawl that
// always keeps a page open postpones recycling until it drains.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	cfg      managerConfig
	browser  *rod.Browser
	launcher *launcher.Launcher
	served   int // renders served by the current browser
	open     int // pages currently open on the current browser
	recycled int
	closed   bool
}

type managerConfig struct {
	maxPages  int
	userAgent string
	bin       string
	noSandbox bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*managerConfig)

// WithMaxPages sets how many renders a browser serves before it is
// replaced. Defaults to DefaultMaxPages.
func WithMaxPages(n int) ManagerOption {
	return func(c *managerConfig) {
		c.maxPages = n
	}
}

// WithUserAgent overrides the User-Agent of every opened page.
func WithUserAgent(ua string) ManagerOption {
	return func(c *managerConfig) {
		c.userAgent = ua
	}
}

// WithBrowserBin launches the given Chrome binary instead of the one rod
// finds or downloads.
func WithBrowserBin(path string) ManagerOption {
	return func(c *managerConfig) {
		c.bin = path
	}
}

// WithNoSandbox disables the Chrome sandbox, which containers running as
// root require.
func WithNoSandbox() ManagerOption {
	return func(c *managerConfig) {
		c.noSandbox = true
	}
}

// NewBrowserManager launches a headless Chrome browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	cfg := managerConfig{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxPages <= 0 {
		cfg.maxPages = DefaultMaxPages
	}

	bm := &BrowserManager{cfg: cfg}
	browser, lnchr, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = browser, lnchr
	return bm, nil
}

// OpenPage opens a blank page on the current browser. The returned release
// function closes the page and must be called exactly once.
func (bm *BrowserManager) OpenPage() (*rod.Page, func(), error) {
	bm.mu.Lock()
	if bm.closed {
		bm.mu.Unlock()
		return nil, nil, ezweb.Errorf(ezweb.EINVALID, "browser manager is closed")
	}
	if bm.served >= bm.cfg.maxPages && bm.open == 0 {
		bm.recycle()
	}
	browser := bm.browser
	bm.served++
	bm.open++
	bm.mu.Unlock()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		bm.release()
		return nil, nil, err
	}
	if bm.cfg.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: bm.cfg.userAgent}); err != nil {
			_ = page.Close()
			bm.release()
			return nil, nil, err
		}
	}

	var once sync.Once
	return page, func() {
		once.Do(func() {
			_ = page.Close()
			bm.release()
		})
	}, nil
}

func (bm *BrowserManager) release() {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bm.open--
	if !bm.closed && bm.open == 0 && bm.served >= bm.cfg.maxPages {
		bm.recycle()
	}
}

// Stats reports the renders served by the current browser and how many
// times the browser was replaced.
func (bm *BrowserManager) Stats() (served, recycled int) {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.served, bm.recycled
}

// Close shuts the browser down. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.closed {
		return nil
	}
	bm.closed = true
	return shutdown(bm.browser, bm.launcher)
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.closed || bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

func (bm *BrowserManager) launch() (*rod.Browser, *launcher.Launcher, error) {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		NoSandbox(bm.cfg.noSandbox).
		Leakless(true).
		Headless(true)
	if bm.cfg.bin != "" {
		lnchr = lnchr.Bin(bm.cfg.bin)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, lnchr, nil
}

// recycle swaps in a fresh browser. When the launch fails the old browser
// keeps serving. Must be called with mu held and no page open.
func (bm *BrowserManager) recycle() {
	browser, lnchr, err := bm.launch()
	if err != nil {
		return
	}
	_ = shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = browser, lnchr
	bm.served = 0
	bm.recycled++
}

func shutdown(browser *rod.Browser, lnchr *launcher.Launcher) error {
	var err error
	if browser != nil {
		err = browser.Close()
	}
	if lnchr != nil {
		lnchr.Kill()
	}
	return err
}
