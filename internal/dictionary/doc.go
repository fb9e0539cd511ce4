// Package dictionary parses CC-CEDICT formatted dictionaries into a
// pronunciation table keyed by the traditional and simplified forms of
// each entry. The table is built once per run and is read-only afterwards.
package dictionary
