package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "https://www.linkedin.com/company/gameskraft/people/", config.PeopleURL)
	assert.Equal(t, DefaultProfileLimit, config.ProfileLimit)
	assert.Equal(t, []string{"developer", "engineer", "sde"}, config.RoleKeywords)
	assert.Equal(t, "gameskraft", config.HomeOrg)
	assert.False(t, config.Headless)
	assert.Equal(t, 90*time.Second, config.NavTimeout)
	assert.Equal(t, "cookies.json", config.CookieFile)
	assert.Equal(t, 10, config.SkillLimit)
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, "localhost:11211", config.MemcacheAddr)
	assert.False(t, config.PublishEnabled)
	assert.False(t, config.CacheEnabled)

	// Test with environment variables
	os.Setenv("PEOPLE_URL", "https://www.linkedin.com/company/acme/people/")
	os.Setenv("PROFILE_LIMIT", "12")
	os.Setenv("ROLE_KEYWORDS", "Backend, SRE ,")
	os.Setenv("HEADLESS", "true")
	os.Setenv("NAV_TIMEOUT_SECONDS", "30")
	os.Setenv("SKILL_LIMIT", "0")

	config = LoadConfig()
	assert.Equal(t, "https://www.linkedin.com/company/acme/people/", config.PeopleURL)
	assert.Equal(t, 12, config.ProfileLimit)
	assert.Equal(t, []string{"backend", "sre"}, config.RoleKeywords)
	assert.True(t, config.Headless)
	assert.Equal(t, 30*time.Second, config.NavTimeout)
	assert.Equal(t, 0, config.SkillLimit)

	// Clean up
	os.Unsetenv("PEOPLE_URL")
	os.Unsetenv("PROFILE_LIMIT")
	os.Unsetenv("ROLE_KEYWORDS")
	os.Unsetenv("HEADLESS")
	os.Unsetenv("NAV_TIMEOUT_SECONDS")
	os.Unsetenv("SKILL_LIMIT")
}

func TestParseProfileLimit(t *testing.T) {
	assert.Equal(t, 7, ParseProfileLimit("7"))
	assert.Equal(t, 7, ParseProfileLimit(" 7 "))

	// Invalid and non-positive inputs fall back to the default
	assert.Equal(t, DefaultProfileLimit, ParseProfileLimit(""))
	assert.Equal(t, DefaultProfileLimit, ParseProfileLimit("abc"))
	assert.Equal(t, DefaultProfileLimit, ParseProfileLimit("0"))
	assert.Equal(t, DefaultProfileLimit, ParseProfileLimit("-3"))
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	// Relative and empty URLs are fatal
	config.PeopleURL = "company/acme/people"
	assert.Error(t, config.Validate())
	config.PeopleURL = ""
	assert.Error(t, config.Validate())

	// Bad limits are coerced, never fatal
	config = LoadConfig()
	config.ProfileLimit = -1
	config.SkillLimit = -1
	assert.NoError(t, config.Validate())
	assert.Equal(t, DefaultProfileLimit, config.ProfileLimit)
	assert.Equal(t, 0, config.SkillLimit)
}
