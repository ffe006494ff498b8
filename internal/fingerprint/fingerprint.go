package fingerprint

import "sync"

// Cache is a session-scoped memoization layer for raw analysis results.
// Entries never expire and are never invalidated by record toggling; toggle
// state lives on the correction set built from a cached result, not in the
// cache itself. The unbounded growth is a documented scaling limit: the
// analyzed corpus within one session is small.
//
// Each engine instance owns its own Cache; there is no package-level state.
type Cache struct {
	mu      sync.Mutex
	entries map[string]any
}

func New() *Cache {
	return &Cache{entries: make(map[string]any)}
}

// Get returns the stored value for key, if any.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores value under key. Put is idempotent; a second Put with the same
// key overwrites.
func (c *Cache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GrammarKey is the cache key for a grammar check: the exact input text, no
// trimming beyond what the caller already did. The operation prefix keeps
// grammar and translation entries in disjoint namespaces even when the
// input text itself contains separator bytes.
func GrammarKey(text string) string {
	return "grammar\x00" + text
}

// TranslationKey is the cache key for a translation: the input text joined
// with the target language code.
func TranslationKey(text, languageCode string) string {
	return "translate\x00" + text + "\x00" + languageCode
}
