package scraper

import (
	"encoding/json"
	"time"

	"sjsage522/profilescout/logger"
	"sjsage522/profilescout/pkg/errors"
	"sjsage522/profilescout/services/cache"
)

const recordKeyPrefix = "profile_record:"

// RecordCache memoizes finalized records across runs so already-scraped
// profiles are served from the cache instead of re-visited. A nil
// service disables it.
type RecordCache struct {
	svc cache.CacheService
	ttl time.Duration
	log *logger.Logger
}

func NewRecordCache(svc cache.CacheService, ttl time.Duration) *RecordCache {
	return &RecordCache{svc: svc, ttl: ttl, log: logger.ForComponent("record_cache")}
}

// Lookup returns the cached record for an identifier. A corrupted cache
// entry is dropped and treated as a miss.
func (c *RecordCache) Lookup(identifier string) (ProfileRecord, bool) {
	if c == nil || c.svc == nil {
		return ProfileRecord{}, false
	}
	data, err := c.svc.Get(recordKeyPrefix + identifier)
	if err != nil || len(data) == 0 {
		return ProfileRecord{}, false
	}
	var rec ProfileRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.Identifier == "" {
		c.log.WithField("profile", identifier).Warn().Msg("dropping corrupted cache entry")
		_ = c.svc.Delete(recordKeyPrefix + identifier)
		return ProfileRecord{}, false
	}
	return rec, true
}

// Store caches a finalized record. Failed placeholders are not cached so
// the next run retries them.
func (c *RecordCache) Store(rec ProfileRecord) {
	if c == nil || c.svc == nil || rec.Failed {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.svc.Set(recordKeyPrefix+rec.Identifier, data, c.ttl); err != nil {
		c.log.WithError(errors.NewCache(rec.Identifier, "record cache write failed", err)).Debug().Msg("record cache write failed")
	}
}
