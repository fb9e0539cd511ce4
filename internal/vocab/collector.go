package vocab

import (
	"sort"
	"sync"
)

// Entry is one collected character
type Entry struct {
	Key         string
	Pinyin      string
	Occurrences int
	Sources     []string
}

// Collector stores observed characters. It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{
		entries: make(map[string]*Entry),
	}
}

// Observe records one occurrence of key in source. The first pinyin seen
// for a key is kept.
func (c *Collector) Observe(key, pinyin, source string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &Entry{Key: key, Pinyin: pinyin}
		c.entries[key] = e
	}
	e.Occurrences++

	if source == "" {
		return
	}
	for _, s := range e.Sources {
		if s == source {
			return
		}
	}
	e.Sources = append(e.Sources, source)
}

// Len returns the number of distinct characters
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Entries returns a copy of all entries, most frequent first and by key
// within the same count
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	result := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		result = append(result, copyEntry(e))
	}
	c.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Occurrences != result[j].Occurrences {
			return result[i].Occurrences > result[j].Occurrences
		}
		return result[i].Key < result[j].Key
	})
	return result
}

func copyEntry(e *Entry) Entry {
	out := *e
	out.Sources = append([]string(nil), e.Sources...)
	return out
}
