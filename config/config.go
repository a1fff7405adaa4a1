package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"sjsage522/profilescout/pkg/errors"
)

// DefaultProfileLimit is used whenever the caller supplies a non-positive
// or unparseable limit.
const DefaultProfileLimit = 5

// Config represents the application configuration
type Config struct {
	// Target configuration
	PeopleURL    string
	ProfileLimit int
	RoleKeywords []string
	HomeOrg      string

	// Browser configuration
	Headless    bool
	UserAgent   string
	NavTimeout  time.Duration
	WaitTimeout time.Duration

	// Session configuration
	CookieFile string
	LandingURL string

	// Extraction limits
	SkillLimit            int // 0 means unlimited
	ExperienceDetailLimit int

	// Output configuration
	OutputCSV       string
	OpenAfterExport bool

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int
	PublishEnabled       bool

	// Memcache configuration
	CacheEnabled bool
	MemcacheAddr string
	RecordTTL    time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	navTimeout, _ := strconv.Atoi(getEnv("NAV_TIMEOUT_SECONDS", "90"))
	waitTimeout, _ := strconv.Atoi(getEnv("WAIT_TIMEOUT_SECONDS", "15"))
	recordTTL, _ := strconv.Atoi(getEnv("RECORD_TTL_SECONDS", "3600"))
	skillLimit, _ := strconv.Atoi(getEnv("SKILL_LIMIT", "10"))
	expLimit, _ := strconv.Atoi(getEnv("EXPERIENCE_DETAIL_LIMIT", "5"))

	return &Config{
		PeopleURL:             getEnv("PEOPLE_URL", "https://www.linkedin.com/company/gameskraft/people/"),
		ProfileLimit:          ParseProfileLimit(getEnv("PROFILE_LIMIT", "")),
		RoleKeywords:          splitList(getEnv("ROLE_KEYWORDS", "developer,engineer,sde")),
		HomeOrg:               getEnv("HOME_ORG", "gameskraft"),
		Headless:              getEnv("HEADLESS", "false") == "true",
		UserAgent:             getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36"),
		NavTimeout:            time.Duration(navTimeout) * time.Second,
		WaitTimeout:           time.Duration(waitTimeout) * time.Second,
		CookieFile:            getEnv("COOKIE_FILE", "cookies.json"),
		LandingURL:            getEnv("LANDING_URL", "https://www.linkedin.com/feed/"),
		SkillLimit:            skillLimit,
		ExperienceDetailLimit: expLimit,
		OutputCSV:             getEnv("OUTPUT_CSV", "profile_results.csv"),
		OpenAfterExport:       getEnv("OPEN_AFTER_EXPORT", "true") == "true",
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:               redisDB,
		RedisStream:           getEnv("REDIS_STREAM", "profiles"),
		RedisStreamCount:      streamCount,
		RedisStreamMaxLength:  streamMaxLen,
		PublishEnabled:        getEnv("PUBLISH_ENABLED", "false") == "true",
		CacheEnabled:          getEnv("CACHE_ENABLED", "false") == "true",
		MemcacheAddr:          getEnv("MEMCACHE_ADDR", "localhost:11211"),
		RecordTTL:             time.Duration(recordTTL) * time.Second,
		Environment:           getEnv("PROFILESCOUT_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for fatal problems. Limit problems are
// never fatal; they are coerced to the documented defaults instead.
func (c *Config) Validate() error {
	if c.PeopleURL == "" {
		return errors.NewConfiguration("people URL is empty", nil)
	}
	parsed, err := url.Parse(c.PeopleURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.NewConfiguration(fmt.Sprintf("people URL is not absolute: %q", c.PeopleURL), err)
	}
	if c.ProfileLimit <= 0 {
		c.ProfileLimit = DefaultProfileLimit
	}
	if c.SkillLimit < 0 {
		c.SkillLimit = 0
	}
	if c.ExperienceDetailLimit <= 0 {
		c.ExperienceDetailLimit = 5
	}
	return nil
}

// ParseProfileLimit converts a caller-supplied limit to a positive integer,
// falling back to DefaultProfileLimit on invalid input.
func ParseProfileLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultProfileLimit
	}
	return n
}

// splitList splits a comma separated env value into trimmed lowercase tokens
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
