package copybook

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// cache is a mapping from (copybook-name, search-path-digest) to expanded
// text, valid for the duration of one preprocessor invocation. The digest
// technique hashes a stable textual rendering of the inputs that can vary
// the result, so the same name under two different search configurations
// never collides in the cache.
type cache struct {
	searchDigest string
	entries map[string]string
}

func newCache(searchDirs, extensions []string) *cache {
	return &cache{
		searchDigest: searchPathDigest(searchDirs, extensions),
		entries: make(map[string]string),
	}
}

func searchPathDigest(searchDirs, extensions []string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(searchDirs, "\x1f")))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(extensions, "\x1f")))
	return hex.EncodeToString(h.Sum(nil)[:8])
}

func (c *cache) key(name string) string {
	return strings.ToUpper(name) + "#" + c.searchDigest
}

func (c *cache) get(name string) (string, bool) {
	v, ok := c.entries[c.key(name)]
	return v, ok
}

func (c *cache) put(name, expansion string) {
	c.entries[c.key(name)] = expansion
}
