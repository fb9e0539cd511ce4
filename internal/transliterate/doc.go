// Package transliterate replaces Chinese characters with their pinyin,
// one character at a time. Adjacent translated characters are separated by
// a single space; everything else passes through unchanged.
package transliterate
