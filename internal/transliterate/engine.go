package transliterate

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Lookup resolves a single character to its formatted pronunciation
type Lookup interface {
	Lookup(r rune) (string, bool)
}

// Observer is notified of every translated character
type Observer func(key, pinyin string)

// Transliterate scans line left to right. translated is the adjacency state
// entering the call: whether the character just before line was a hit. The
// returned bool is the state after the last character. observe, when not
// nil, receives every hit.
func Transliterate(line string, table Lookup, translated bool, observe Observer) (string, bool) {
	var b strings.Builder
	b.Grow(len(line))

	for _, r := range line {
		p, ok := table.Lookup(r)
		if !ok {
			b.WriteRune(r)
			translated = false
			continue
		}

		if translated {
			b.WriteByte(' ')
		}
		b.WriteString(p)
		translated = true

		if observe != nil {
			observe(string(r), p)
		}
	}

	return b.String(), translated
}

// Line transliterates a string in isolation, starting from the untranslated
// state. Filenames are translated this way.
func Line(line string, table Lookup, observe Observer) string {
	out, _ := Transliterate(line, table, false, observe)
	return out
}

// Scanner carries the adjacency state across successive chunks of the same
// text, so a file read line by line is translated as one character stream.
type Scanner struct {
	table      Lookup
	translated bool
	hits       int

	// Observer, when set, receives every hit
	Observer Observer
}

// NewScanner creates a scanner in the untranslated state
func NewScanner(table Lookup) *Scanner {
	return &Scanner{table: table}
}

// Scan translates the next chunk of text
func (s *Scanner) Scan(chunk string) string {
	out, state := Transliterate(chunk, s.table, s.translated, s.observe)
	s.translated = state
	return out
}

func (s *Scanner) observe(key, pinyin string) {
	s.hits++
	if s.Observer != nil {
		s.Observer(key, pinyin)
	}
}

// Text streams r through the scanner line by line, keeping line endings, and
// writes the result to w. It returns the number of characters translated.
func Text(r io.Reader, w io.Writer, s *Scanner) (int, error) {
	before := s.hits
	br := bufio.NewReader(r)

	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if _, werr := io.WriteString(w, s.Scan(line)); werr != nil {
				return s.hits - before, fmt.Errorf("write: %w", werr)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return s.hits - before, fmt.Errorf("read: %w", err)
		}
	}

	return s.hits - before, nil
}
