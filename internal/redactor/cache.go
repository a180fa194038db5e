package redactor

// cacheKey identifies one original value within one category. Two categories
// may redact the same raw string to different replacements.
type cacheKey struct {
	category Category
	original string
}

// syntheticCache memoizes one replacement per (category, original) pair for
// the lifetime of a single run, so the same original email always maps to
// the same fake email within a document. Not safe for concurrent use; each
// run owns its own instance.
type syntheticCache struct {
	synth   Synthesizer
	entries map[cacheKey]string
}

func newSyntheticCache(synth Synthesizer) *syntheticCache {
	return &syntheticCache{synth: synth, entries: make(map[cacheKey]string)}
}

// replacement returns the stable synthetic value for (category, original),
// generating and storing it on first use. Without a generator capability it
// returns the fixed placeholder and skips caching entirely.
func (c *syntheticCache) replacement(category Category, original string) string {
	if !c.synth.Available() {
		return category.Placeholder()
	}
	key := cacheKey{category: category, original: original}
	if v, ok := c.entries[key]; ok {
		return v
	}
	v := c.synth.Generate(category, original)
	c.entries[key] = v
	return v
}
