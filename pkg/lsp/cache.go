package lsp

import (
	"crypto/sha256"
	"sync"
	"sync/atomic"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
)

// DefaultResultCacheSize bounds the source bytes whose lint results are kept (16 MB).
const DefaultResultCacheSize = 16 * 1024 * 1024

// bytesPerKB is the number of bytes in a kilobyte.
const bytesPerKB = 1024.0

// evictionSampleSize is the number of LRU candidates sampled per eviction.
const evictionSampleSize = 5

// resultKey identifies a lint input: the document path and its exact text.
type resultKey [sha256.Size]byte

func keyFor(path, text string) resultKey {
	hasher := sha256.New()
	hasher.Write([]byte(path))
	hasher.Write([]byte{0})
	hasher.Write([]byte(text))

	var key resultKey

	copy(key[:], hasher.Sum(nil))

	return key
}

// ResultCache is an LRU of lint results keyed by document content. Re-linting
// unchanged text on save or reopen is served from it. Memory is bounded by
// the size of the linted sources.
type ResultCache struct {
	mu          sync.Mutex
	entries     map[resultKey]*resultEntry
	head        *resultEntry // Most recently used.
	tail        *resultEntry // Least recently used.
	maxSize     int64
	currentSize int64

	hits   atomic.Int64
	misses atomic.Int64
}

type resultEntry struct {
	key         resultKey
	diagnostics []lint.Diagnostic
	size        int64
	accessCount int64
	prev        *resultEntry
	next        *resultEntry
}

// evictionCost is higher for small, frequently used entries.
func (e *resultEntry) evictionCost() float64 {
	sizeKB := max(float64(e.size)/bytesPerKB, 1)

	return float64(e.accessCount) / sizeKB
}

// NewResultCache creates a cache holding results for up to maxSize source bytes.
func NewResultCache(maxSize int64) *ResultCache {
	if maxSize <= 0 {
		maxSize = DefaultResultCacheSize
	}

	return &ResultCache{
		entries: make(map[resultKey]*resultEntry),
		maxSize: maxSize,
	}
}

// Get returns the cached diagnostics for path and text.
func (c *ResultCache) Get(path, text string) ([]lint.Diagnostic, bool) {
	key := keyFor(path, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)

		return nil, false
	}

	c.hits.Add(1)

	entry.accessCount++
	c.moveToFront(entry)

	return entry.diagnostics, true
}

// Put stores diagnostics for path and text, evicting large rarely used
// entries first when full. Texts larger than the cache are not stored.
func (c *ResultCache) Put(path, text string, diagnostics []lint.Diagnostic) {
	size := int64(len(text))
	if size > c.maxSize {
		return
	}

	key := keyFor(path, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		entry.diagnostics = diagnostics
		entry.accessCount++
		c.moveToFront(entry)

		return
	}

	for c.currentSize+size > c.maxSize && c.tail != nil {
		c.evictLowestCost()
	}

	entry := &resultEntry{
		key:         key,
		diagnostics: diagnostics,
		size:        size,
		accessCount: 1,
	}

	c.entries[key] = entry
	c.currentSize += size
	c.addToFront(entry)
}

// CacheStats holds cache performance counters.
type CacheStats struct {
	Hits        int64
	Misses      int64
	Entries     int
	CurrentSize int64
	MaxSize     int64
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}

	return float64(s.Hits) / float64(total)
}

// Stats returns cache statistics.
func (c *ResultCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Entries:     len(c.entries),
		CurrentSize: c.currentSize,
		MaxSize:     c.maxSize,
	}
}

func (c *ResultCache) moveToFront(entry *resultEntry) {
	if entry == c.head {
		return
	}

	c.removeFromList(entry)
	c.addToFront(entry)
}

func (c *ResultCache) addToFront(entry *resultEntry) {
	entry.prev = nil
	entry.next = c.head

	if c.head != nil {
		c.head.prev = entry
	}

	c.head = entry

	if c.tail == nil {
		c.tail = entry
	}
}

func (c *ResultCache) removeFromList(entry *resultEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}

	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}
}

// evictLowestCost removes the cheapest of the least recently used entries.
func (c *ResultCache) evictLowestCost() {
	var candidates [evictionSampleSize]*resultEntry

	count := 0

	for entry := c.tail; entry != nil && count < evictionSampleSize; entry = entry.prev {
		candidates[count] = entry
		count++
	}

	if count == 0 {
		return
	}

	victim := candidates[0]
	lowestCost := victim.evictionCost()

	for _, candidate := range candidates[1:count] {
		if cost := candidate.evictionCost(); cost < lowestCost {
			lowestCost = cost
			victim = candidate
		}
	}

	c.removeFromList(victim)
	delete(c.entries, victim.key)
	c.currentSize -= victim.size
}
