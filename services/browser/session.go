package browser

import "time"

// Cookie is the automation-library-agnostic cookie representation that
// moves between a Session and a cookie store.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Session is the capability the crawl core drives. Implementations wrap a
// real browser; tests substitute an in-memory fake. The core never assumes
// a specific automation library.
type Session interface {
	// Navigate loads url and waits for the document, bounded by timeout.
	Navigate(url string, timeout time.Duration) error

	// WaitVisible blocks until selector matches a visible element or the
	// timeout elapses.
	WaitVisible(selector string, timeout time.Duration) error

	// CurrentURL returns the page URL after any redirects.
	CurrentURL() (string, error)

	// HTML returns a snapshot of the rendered DOM.
	HTML() (string, error)

	// PageHeight returns the current document scroll height in pixels.
	PageHeight() (int, error)

	// ScrollBy scrolls the viewport down by the given number of pixels.
	ScrollBy(pixels int) error

	// ScrollTop and ScrollBottom jump to the extremes of the document.
	ScrollTop() error
	ScrollBottom() error

	// ClickFirst clicks the first visible, enabled element matching any of
	// the given selectors, in order. It reports whether a click happened.
	ClickFirst(selectors []string) (bool, error)

	// Cookies and SetCookies expose the session cookie jar.
	Cookies() ([]Cookie, error)
	SetCookies(cookies []Cookie) error

	// Close releases the underlying browser resources.
	Close() error
}
