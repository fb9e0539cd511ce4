package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// APKGGenerator writes an .apkg package: a zip holding the SQLite
// collection and an (empty) media map
type APKGGenerator struct {
	deckName string
	deckID   int64
	modelID  int64
	cards    []Card
}

// NewAPKGGenerator creates a generator for one deck. IDs are derived from
// the current time, as Anki does.
func NewAPKGGenerator(deckName string) *APKGGenerator {
	id := time.Now().UnixMilli()
	return &APKGGenerator{
		deckName: deckName,
		deckID:   id,
		modelID:  id + 1,
	}
}

// AddCard queues a card for the package
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GenerateAPKG writes the package to outputPath
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	workDir, err := os.MkdirTemp("", "pinyinify-apkg-*")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	dbPath := filepath.Join(workDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	if err := writePackage(outputPath, dbPath); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("failed to write package: %w", err)
	}
	return nil
}

// createDatabase builds the collection database at dbPath
func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	now := time.Now()
	cols, err := g.collectionJSON(now.Unix())
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	ms := now.UnixMilli()
	if _, err := db.Exec(insertCol, now.Unix(), ms, ms, cols[0], cols[1], cols[2], cols[3]); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	return g.insertCards(db, now)
}

// insertCards adds one note and two cards (one per template) per card
func (g *APKGGenerator) insertCards(db *sql.DB, now time.Time) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	noteStmt, err := tx.Prepare(insertNote)
	if err != nil {
		return err
	}
	defer noteStmt.Close()

	cardStmt, err := tx.Prepare(insertCard)
	if err != nil {
		return err
	}
	defer cardStmt.Close()

	base := now.UnixMilli()
	mod := now.Unix()
	for i, card := range g.cards {
		// Note and card IDs share one sequence: note, card 0, card 1
		noteID := base + int64(i)*3
		fields := strings.Join([]string{card.Hanzi, card.Pinyin, card.Notes}, "\x1f")

		if _, err := noteStmt.Exec(noteID, "pyf_"+card.Hanzi, g.modelID, mod,
			fields, card.Hanzi, fieldChecksum(card.Hanzi)); err != nil {
			return fmt.Errorf("failed to insert note for %s: %w", card.Hanzi, err)
		}

		for ord := 0; ord < 2; ord++ {
			cardID := noteID + int64(ord) + 1
			if _, err := cardStmt.Exec(cardID, noteID, g.deckID, ord, mod, i*2+ord+1); err != nil {
				return fmt.Errorf("failed to insert card for %s: %w", card.Hanzi, err)
			}
		}
	}

	return tx.Commit()
}

// fieldChecksum is the first 8 hex digits of the field's SHA1 as an integer,
// which is what Anki uses for duplicate detection
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(field))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

// writePackage zips the collection and an empty media map into outputPath
func writePackage(outputPath, dbPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	db, err := os.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	w, err := zw.Create("collection.anki2")
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, db); err != nil {
		return err
	}

	w, err = zw.Create("media")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, "{}"); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return err
	}
	return out.Close()
}
