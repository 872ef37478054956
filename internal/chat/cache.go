package chat

import (
	"strings"
	"sync"
	"time"
)

const defaultCacheSize = 100

// answerCache memoizes answers by normalized question text. Repeat questions
// skip the model call entirely, which matters under a shared daily quota.
type answerCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	maxSize int
}

type cacheEntry struct {
	answer  string
	expires time.Time
}

func newAnswerCache(ttl time.Duration, maxSize int) *answerCache {
	return &answerCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// normalizeQuestion folds case and whitespace so trivial rephrasings hit.
func normalizeQuestion(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

func (c *answerCache) get(question string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[normalizeQuestion(question)]
	if !ok || time.Now().After(e.expires) {
		return "", false
	}
	return e.answer, true
}

func (c *answerCache) put(question, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Drop expired entries first; if still full, evict the soonest-expiring
	// entry rather than growing without bound.
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) >= c.maxSize {
		var oldest string
		var oldestExpiry time.Time
		for k, e := range c.entries {
			if oldest == "" || e.expires.Before(oldestExpiry) {
				oldest, oldestExpiry = k, e.expires
			}
		}
		delete(c.entries, oldest)
	}

	c.entries[normalizeQuestion(question)] = cacheEntry{
		answer:  answer,
		expires: now.Add(c.ttl),
	}
}
