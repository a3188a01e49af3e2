package engine

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/richinex/typecast/config"
	"github.com/richinex/typecast/internal/dsa"
	"github.com/richinex/typecast/schema"
)

// generationCache remembers what was generated for each distinct request so
// repeated generations can be steered away from repeating themselves.
//
// Keys are structured as targetHash/instructionsHash/temperature. A radix
// tree indexes the keys so all history for one target can be found by
// prefix; a bounded LRU holds the histories themselves, each capped at the
// configured length with the most recent output first.
type generationCache struct {
	mu         sync.Mutex
	entries    *lru.Cache[string, []string]
	index      *dsa.Trie[struct{}]
	maxHistory int
}

func newGenerationCache(cfg config.CacheConfig) *generationCache {
	c := &generationCache{
		index:      dsa.NewTrie[struct{}](),
		maxHistory: cfg.MaxHistory,
	}
	// Evicted histories leave the key index too.
	c.entries, _ = lru.NewWithEvict[string, []string](cfg.MaxEntries, func(key string, _ []string) {
		c.index.Delete(key)
	})
	return c
}

// cacheKey builds the structured key for one generation request.
func cacheKey(target schema.Target, instructions string, temperature float32) string {
	targetHash := xxhash.Sum64String(schema.Identity(target))
	instructionsHash := xxhash.Sum64String(instructions)
	return fmt.Sprintf("%016x/%016x/%g", targetHash, instructionsHash, temperature)
}

// targetPrefix is the key prefix shared by all requests for one target.
func targetPrefix(target schema.Target) string {
	return fmt.Sprintf("%016x/", xxhash.Sum64String(schema.Identity(target)))
}

// recent returns prior outputs for the key, most recent first, cut off once
// the token budget is spent. count measures one output's token length.
func (c *generationCache) recent(key string, count func(string) int, budget int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	history, ok := c.entries.Get(key)
	if !ok {
		return nil
	}
	var (
		out   []string
		spent int
	)
	for _, item := range history {
		spent += count(item)
		if spent > budget {
			break
		}
		out = append(out, item)
	}
	return out
}

// remember prepends fresh outputs to the key's history, newest first, and
// trims to the per-key cap.
func (c *generationCache) remember(key string, outputs []string) {
	if len(outputs) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	history, _ := c.entries.Get(key)
	merged := make([]string, 0, len(outputs)+len(history))
	for i := len(outputs) - 1; i >= 0; i-- {
		merged = append(merged, outputs[i])
	}
	merged = append(merged, history...)
	if len(merged) > c.maxHistory {
		merged = merged[:c.maxHistory]
	}
	c.entries.Add(key, merged)
	c.index.Insert(key, struct{}{})
}

// forgetPrefix drops every history whose key starts with prefix and returns
// how many were dropped.
func (c *generationCache) forgetPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.index.StartsWith(prefix)
	for _, key := range keys {
		c.entries.Remove(key)
		c.index.Delete(key)
	}
	return len(keys)
}

// ForgetGenerated drops all remembered generation history for a target,
// across every instructions and temperature variant.
func (e *Engine) ForgetGenerated(target schema.Target) int {
	return e.cache.forgetPrefix(targetPrefix(target))
}
