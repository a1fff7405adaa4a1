package session

import (
	"context"
	"strings"
	"time"

	"sjsage522/profilescout/logger"
	"sjsage522/profilescout/pkg/errors"
	"sjsage522/profilescout/services/browser"
)

// PromptFunc blocks until the operator signals that a manual step (login,
// challenge) has been completed in the visible browser window. It must
// honor ctx so an abort during the wait is observed.
type PromptFunc func(ctx context.Context, message string) error

// loginPatterns are URL fragments that mean the browsing context is not
// authenticated: a login redirect or an anti-bot challenge page.
var loginPatterns = []string{"/login", "challenge", "checkpoint"}

// Manager owns the cookie lifecycle for one crawl: restore once at start,
// overwrite only after a successful manual re-authentication.
type Manager struct {
	store      Store
	prompt     PromptFunc
	landingURL string
	navTimeout time.Duration
	log        *logger.Logger
}

// NewManager creates a session manager
func NewManager(store Store, prompt PromptFunc, landingURL string, navTimeout time.Duration) *Manager {
	return &Manager{
		store:      store,
		prompt:     prompt,
		landingURL: landingURL,
		navTimeout: navTimeout,
		log:        logger.ForComponent("session"),
	}
}

// Restore applies saved cookies to a fresh browsing context. It no-ops when
// nothing is saved.
func (m *Manager) Restore(sess browser.Session) error {
	cookies, err := m.store.Load()
	if err != nil {
		return errors.NewAuthentication("failed to load saved cookies", err)
	}
	if len(cookies) == 0 {
		m.log.Debug().Msg("No saved cookies; starting unauthenticated")
		return nil
	}

	if err := sess.SetCookies(cookies); err != nil {
		return errors.NewAuthentication("failed to apply saved cookies", err)
	}

	m.log.Info().Int("cookies", len(cookies)).Msg("Restored saved session")
	return nil
}

// EnsureAuthenticated loads a known-authenticated landing page and checks
// whether the session was redirected to a login or challenge URL. When it
// was, the manager blocks on the operator prompt, then re-reads and
// persists the fresh cookies.
func (m *Manager) EnsureAuthenticated(ctx context.Context, sess browser.Session) error {
	if err := sess.Navigate(m.landingURL, m.navTimeout); err != nil {
		return errors.NewNavigation(m.landingURL, "failed to load landing page", err)
	}

	current, err := sess.CurrentURL()
	if err != nil {
		return errors.NewAuthentication("failed to read current URL", err)
	}

	if !NeedsLogin(current) {
		m.log.Info().Msg("Session is authenticated")
		return nil
	}

	m.log.Warn().Str("url", current).Msg("Login or challenge detected; waiting for operator")
	if err := m.prompt(ctx, "Complete the login in the browser window, then press Enter"); err != nil {
		return errors.NewAuthentication("operator login wait aborted", err)
	}

	cookies, err := sess.Cookies()
	if err != nil {
		return errors.NewAuthentication("failed to read cookies after login", err)
	}
	if err := m.store.Save(cookies); err != nil {
		return errors.NewAuthentication("failed to persist cookies after login", err)
	}

	m.log.Info().Int("cookies", len(cookies)).Msg("Login session saved")
	return nil
}

// NeedsLogin reports whether a URL looks like a login or challenge redirect
func NeedsLogin(url string) bool {
	lower := strings.ToLower(url)
	for _, pattern := range loginPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
