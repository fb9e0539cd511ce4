// Package archive keeps previous Anki exports around instead of
// overwriting them.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Dir is the directory, next to the deck, that receives archived decks
const Dir = "archive"

// ArchiveDeck moves an existing deck file to archive/<name>-<timestamp><ext>
// next to it and returns the new path. A missing deck is not an error and
// returns an empty path.
func ArchiveDeck(deckPath string) (string, error) {
	info, err := os.Stat(deckPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to access deck: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("deck path is a directory: %s", deckPath)
	}

	archiveDir := filepath.Join(filepath.Dir(deckPath), Dir)
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	ext := filepath.Ext(deckPath)
	stem := strings.TrimSuffix(filepath.Base(deckPath), ext)

	now := time.Now()
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, now.Format("20060102-150405"), ext))

	// Two exports within the same second
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, now.Format("20060102-150405.000000"), ext))
	}

	if err := os.Rename(deckPath, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive deck: %w", err)
	}

	return archivePath, nil
}
