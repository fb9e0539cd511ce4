// Package anki exports the vocabulary collected during a run as Anki
// flashcards, either as a CSV file for manual import or as an .apkg
// package containing its own SQLite collection.
package anki
