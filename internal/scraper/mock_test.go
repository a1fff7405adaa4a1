package scraper

import (
	"time"

	"sjsage522/profilescout/services/browser"
)

// fakeSession implements browser.Session against canned HTML pages so
// the collector and extractor can run without a real browser.
type fakeSession struct {
	pages    map[string]string
	navErr   map[string]error
	current  string
	visited  []string
	heights  []int
	heightAt int
	clicks   []bool
	clickAt  int
	cookies  []browser.Cookie
	closed   bool

	// onNavigate, when set, observes every successful navigation.
	onNavigate func(url string)
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		pages:   make(map[string]string),
		navErr:  make(map[string]error),
		heights: []int{1000},
	}
}

func (f *fakeSession) Navigate(url string, _ time.Duration) error {
	if err := f.navErr[url]; err != nil {
		return err
	}
	f.current = url
	f.visited = append(f.visited, url)
	if f.onNavigate != nil {
		f.onNavigate(url)
	}
	return nil
}

func (f *fakeSession) WaitVisible(string, time.Duration) error { return nil }

func (f *fakeSession) CurrentURL() (string, error) { return f.current, nil }

func (f *fakeSession) HTML() (string, error) { return f.pages[f.current], nil }

func (f *fakeSession) PageHeight() (int, error) {
	if f.heightAt < len(f.heights) {
		h := f.heights[f.heightAt]
		f.heightAt++
		return h, nil
	}
	return f.heights[len(f.heights)-1], nil
}

func (f *fakeSession) ScrollBy(int) error { return nil }
func (f *fakeSession) ScrollTop() error   { return nil }
func (f *fakeSession) ScrollBottom() error {
	return nil
}

func (f *fakeSession) ClickFirst([]string) (bool, error) {
	if f.clickAt < len(f.clicks) {
		c := f.clicks[f.clickAt]
		f.clickAt++
		return c, nil
	}
	return false, nil
}

func (f *fakeSession) Cookies() ([]browser.Cookie, error) { return f.cookies, nil }

func (f *fakeSession) SetCookies(cookies []browser.Cookie) error {
	f.cookies = cookies
	return nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

// mockCacheService is a simple in-memory cache for testing
type mockCacheService struct {
	cache map[string][]byte
}

func newMockCacheService() *mockCacheService {
	return &mockCacheService{cache: make(map[string][]byte)}
}

func (m *mockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, &mockError{message: "cache miss"}
}

func (m *mockCacheService) Set(key string, value []byte, _ time.Duration) error {
	m.cache[key] = value
	return nil
}

func (m *mockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

type mockError struct {
	message string
}

func (e *mockError) Error() string {
	return e.message
}

// mockPublisher records published messages in memory
type mockPublisher struct {
	published map[string][][]byte
	trimmed   bool
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{published: make(map[string][][]byte)}
}

func (m *mockPublisher) Publish(key string, message []byte) error {
	m.published[key] = append(m.published[key], message)
	return nil
}

func (m *mockPublisher) TrimStreams() error {
	m.trimmed = true
	return nil
}

func (m *mockPublisher) Close() error { return nil }
