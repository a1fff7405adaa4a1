package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/profilescout/services/browser"
)

const landing = "https://www.linkedin.com/feed/"

// fakeSession covers the small slice of browser.Session the manager uses
type fakeSession struct {
	current   string
	redirects map[string]string
	cookies   []browser.Cookie
	applied   []browser.Cookie
}

func (f *fakeSession) Navigate(url string, _ time.Duration) error {
	if to, ok := f.redirects[url]; ok {
		f.current = to
	} else {
		f.current = url
	}
	return nil
}

func (f *fakeSession) WaitVisible(string, time.Duration) error { return nil }
func (f *fakeSession) CurrentURL() (string, error)             { return f.current, nil }
func (f *fakeSession) HTML() (string, error)                   { return "", nil }
func (f *fakeSession) PageHeight() (int, error)                { return 0, nil }
func (f *fakeSession) ScrollBy(int) error                      { return nil }
func (f *fakeSession) ScrollTop() error                        { return nil }
func (f *fakeSession) ScrollBottom() error                     { return nil }
func (f *fakeSession) ClickFirst([]string) (bool, error)       { return false, nil }
func (f *fakeSession) Cookies() ([]browser.Cookie, error)      { return f.cookies, nil }
func (f *fakeSession) SetCookies(cookies []browser.Cookie) error {
	f.applied = cookies
	return nil
}
func (f *fakeSession) Close() error { return nil }

type memStore struct {
	cookies []browser.Cookie
	saved   int
}

func (s *memStore) Load() ([]browser.Cookie, error) { return s.cookies, nil }
func (s *memStore) Save(cookies []browser.Cookie) error {
	s.cookies = cookies
	s.saved++
	return nil
}

func TestNeedsLogin(t *testing.T) {
	assert.True(t, NeedsLogin("https://www.linkedin.com/login"))
	assert.True(t, NeedsLogin("https://www.linkedin.com/checkpoint/challenge/abc"))
	assert.False(t, NeedsLogin(landing))
}

func TestRestore(t *testing.T) {
	store := &memStore{cookies: []browser.Cookie{{Name: "li_at", Value: "token"}}}
	m := NewManager(store, nil, landing, time.Second)

	sess := &fakeSession{}
	require.NoError(t, m.Restore(sess))
	assert.Len(t, sess.applied, 1)

	// Empty store is a silent no-op
	sess = &fakeSession{}
	require.NoError(t, m.Restore(&fakeSession{}))
	assert.Empty(t, sess.applied)
}

func TestEnsureAuthenticatedAlreadyLoggedIn(t *testing.T) {
	store := &memStore{}
	prompts := 0
	m := NewManager(store, func(context.Context, string) error {
		prompts++
		return nil
	}, landing, time.Second)

	sess := &fakeSession{}
	require.NoError(t, m.EnsureAuthenticated(context.Background(), sess))
	assert.Zero(t, prompts)
	assert.Zero(t, store.saved)
}

func TestEnsureAuthenticatedLoginGate(t *testing.T) {
	store := &memStore{}
	sess := &fakeSession{
		redirects: map[string]string{landing: "https://www.linkedin.com/login?session_redirect=feed"},
		cookies:   []browser.Cookie{{Name: "li_at", Value: "fresh"}},
	}

	prompts := 0
	m := NewManager(store, func(_ context.Context, message string) error {
		prompts++
		// Operator completes the login during the prompt
		sess.current = landing
		return nil
	}, landing, time.Second)

	require.NoError(t, m.EnsureAuthenticated(context.Background(), sess))
	assert.Equal(t, 1, prompts)
	assert.Equal(t, 1, store.saved)
	require.Len(t, store.cookies, 1)
	assert.Equal(t, "fresh", store.cookies[0].Value)
}

func TestEnsureAuthenticatedAborted(t *testing.T) {
	sess := &fakeSession{
		redirects: map[string]string{landing: "https://www.linkedin.com/login"},
	}
	m := NewManager(&memStore{}, func(ctx context.Context, _ string) error {
		return context.Canceled
	}, landing, time.Second)

	err := m.EnsureAuthenticated(context.Background(), sess)
	assert.Error(t, err)
}
