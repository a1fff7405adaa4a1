package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"sjsage522/profilescout/logger"
)

// RodSession implements Session on top of a rod-controlled Chrome.
type RodSession struct {
	browser *rod.Browser
	page    *rod.Page
}

// Options configures the launched browser.
type Options struct {
	Headless  bool
	UserAgent string
	Width     int
	Height    int
}

// NewRodSession launches a browser and opens a single stealth page. The
// caller owns the session for the whole crawl and must Close it.
func NewRodSession(opts Options) (*RodSession, error) {
	l := launcher.New().
		Headless(opts.Headless).
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("window-size", fmt.Sprintf("%d,%d", width(opts), height(opts)))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := stealth.Page(b)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to open stealth page: %w", err)
	}

	if opts.UserAgent != "" {
		if err := (proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}).Call(page); err != nil {
			logger.Warn("Failed to override user agent: %v", err)
		}
	}

	logger.Debug("Browser launched at %s", controlURL)
	return &RodSession{browser: b, page: page}, nil
}

func width(o Options) int {
	if o.Width > 0 {
		return o.Width
	}
	return 1366
}

func height(o Options) int {
	if o.Height > 0 {
		return o.Height
	}
	return 768
}

// Navigate loads url and waits for the document to load
func (s *RodSession) Navigate(url string, timeout time.Duration) error {
	p := s.page.Timeout(timeout)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

// WaitVisible blocks until selector matches a visible element
func (s *RodSession) WaitVisible(selector string, timeout time.Duration) error {
	p := s.page.Timeout(timeout)
	el, err := p.Element(selector)
	if err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("wait visible %q: %w", selector, err)
	}
	return nil
}

// CurrentURL returns the page URL after redirects
func (s *RodSession) CurrentURL() (string, error) {
	info, err := s.page.Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// HTML returns a snapshot of the rendered DOM
func (s *RodSession) HTML() (string, error) {
	return s.page.HTML()
}

// PageHeight returns document.body.scrollHeight
func (s *RodSession) PageHeight() (int, error) {
	obj, err := s.page.Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0, err
	}
	return obj.Value.Int(), nil
}

// ScrollBy scrolls the viewport down by the given number of pixels
func (s *RodSession) ScrollBy(pixels int) error {
	_, err := s.page.Eval(`(y) => window.scrollBy(0, y)`, pixels)
	return err
}

// ScrollTop jumps to the top of the document
func (s *RodSession) ScrollTop() error {
	_, err := s.page.Eval(`() => window.scrollTo(0, 0)`)
	return err
}

// ScrollBottom jumps to the bottom of the document
func (s *RodSession) ScrollBottom() error {
	_, err := s.page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return err
}

// ClickFirst clicks the first visible, enabled element matching any selector.
// The probe runs inside the page so a detached element cannot race the click.
func (s *RodSession) ClickFirst(selectors []string) (bool, error) {
	obj, err := s.page.Eval(`(sels) => {
		for (const sel of sels) {
			let el;
			try { el = document.querySelector(sel); } catch (e) { continue; }
			if (!el || el.disabled) continue;
			const rect = el.getBoundingClientRect();
			if (rect.width === 0 || rect.height === 0) continue;
			el.scrollIntoView({block: 'center'});
			el.click();
			return true;
		}
		return false;
	}`, selectors)
	if err != nil {
		return false, err
	}
	return obj.Value.Bool(), nil
}

// Cookies returns the session cookie jar
func (s *RodSession) Cookies() ([]Cookie, error) {
	raw, err := s.page.Cookies(nil)
	if err != nil {
		return nil, err
	}
	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return cookies, nil
}

// SetCookies injects cookies into the browsing context
func (s *RodSession) SetCookies(cookies []Cookie) error {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  proto.TimeSinceEpoch(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: proto.NetworkCookieSameSite(c.SameSite),
		})
	}
	return s.page.SetCookies(params)
}

// Close releases the browser
func (s *RodSession) Close() error {
	return s.browser.Close()
}
