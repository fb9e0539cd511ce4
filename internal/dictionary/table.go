package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"
)

// Table maps dictionary keys to formatted pronunciations.
//
// Keys are the traditional and simplified fields exactly as they appear in
// the source, so words longer than one character are stored too. The
// transliterator only ever looks up single characters, which leaves those
// word keys unreachable.
type Table struct {
	entries map[string]string
}

// LoadStats holds loader statistics for reporting
type LoadStats struct {
	Lines         int
	Comments      int
	Skipped       int
	Parsed        int
	Entries       int
	MultiCharKeys int
	Overrides     int
}

// Load builds a table from CC-CEDICT formatted source lines
func Load(r io.Reader, opts Options) (*Table, LoadStats, error) {
	t := &Table{entries: make(map[string]string)}
	var stats LoadStats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		stats.Lines++
		line := scanner.Text()

		if IsComment(line) {
			stats.Comments++
			continue
		}

		entry, ok := ParseLine(line)
		if !ok {
			stats.Skipped++
			continue
		}
		stats.Parsed++

		p := FormatPronunciation(entry.Pronunciation, opts)
		t.entries[entry.Traditional] = p
		t.entries[entry.Simplified] = p
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("read dictionary: %w", err)
	}

	stats.Entries = len(t.entries)
	stats.MultiCharKeys = t.countMultiCharKeys()
	return t, stats, nil
}

// LoadFile opens a dictionary file and loads it
func LoadFile(path string, opts Options) (*Table, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	t, stats, err := Load(f, opts)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", path, err)
	}
	return t, stats, nil
}

// Lookup returns the pronunciation of a single character
func (t *Table) Lookup(r rune) (string, bool) {
	p, ok := t.entries[string(r)]
	return p, ok
}

// Len returns the number of keys in the table
func (t *Table) Len() int {
	return len(t.entries)
}

// MultiCharKeys returns the sorted keys that span more than one character
func (t *Table) MultiCharKeys() []string {
	var keys []string
	for k := range t.entries {
		if utf8.RuneCountInString(k) > 1 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (t *Table) countMultiCharKeys() int {
	n := 0
	for k := range t.entries {
		if utf8.RuneCountInString(k) > 1 {
			n++
		}
	}
	return n
}

// String summarizes the table for debug output
func (t *Table) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dictionary.Table{entries: %d", len(t.entries))
	if n := t.countMultiCharKeys(); n > 0 {
		fmt.Fprintf(&b, ", word keys: %d", n)
	}
	b.WriteString("}")
	return b.String()
}
