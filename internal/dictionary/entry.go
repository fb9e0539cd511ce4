package dictionary

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// entryPattern matches "TRAD SIMP [PIN1 YIN1] /gloss/.../" at the start of a line.
var entryPattern = regexp.MustCompile(`^(.*?) (.*?) \[(.*?)\] /(.*?)/`)

// Entry is a single parsed dictionary line
type Entry struct {
	Traditional   string
	Simplified    string
	Pronunciation string
	Gloss         string
}

// Options controls how pronunciations are formatted before they are stored
type Options struct {
	// Tones keeps the tone digits ("ni3") when true
	Tones bool
	// Capitalize upper-cases the first letter of every pronunciation
	Capitalize bool
}

// IsComment reports whether a dictionary line is a comment
func IsComment(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, "%")
}

// ParseLine parses one dictionary data line. Comment lines and lines that
// do not follow the CC-CEDICT layout return false.
func ParseLine(line string) (Entry, bool) {
	if IsComment(line) {
		return Entry{}, false
	}

	m := entryPattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}

	return Entry{
		Traditional:   m[1],
		Simplified:    m[2],
		Pronunciation: m[3],
		Gloss:         m[4],
	}, true
}

// FormatPronunciation applies the tone and casing options to a raw
// pronunciation. Capitalization covers the whole string, so "ni3 hao3"
// becomes "Ni hao" and not "Ni Hao".
func FormatPronunciation(p string, opts Options) string {
	if !opts.Tones {
		p = stripTones(p)
	}
	if opts.Capitalize {
		return capitalize(p)
	}
	return strings.ToLower(p)
}

func stripTones(p string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, p)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
