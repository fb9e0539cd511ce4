package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAPKGGenerator(t *testing.T) {
	gen := NewAPKGGenerator("Test Deck")

	if gen.deckName != "Test Deck" {
		t.Errorf("Expected deck name 'Test Deck', got '%s'", gen.deckName)
	}
	if gen.deckID == 0 || gen.modelID == 0 {
		t.Error("Expected deck and model IDs to be set")
	}
	if gen.deckID == gen.modelID {
		t.Error("Deck and model IDs should differ")
	}
}

func TestAPKGAddCard(t *testing.T) {
	gen := NewAPKGGenerator("Test Deck")
	gen.AddCard(Card{Hanzi: "你", Pinyin: "Ni"})

	if len(gen.cards) != 1 {
		t.Fatalf("Expected 1 card, got %d", len(gen.cards))
	}
	if gen.cards[0].Hanzi != "你" {
		t.Errorf("Unexpected card: %+v", gen.cards[0])
	}
}

func TestFieldChecksum(t *testing.T) {
	// sha1("abc") starts with a9993e36
	if got := fieldChecksum("abc"); got != 0xa9993e36 {
		t.Errorf("fieldChecksum(abc) = %x, want a9993e36", got)
	}
}

func TestGenerateAPKG(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "deck.apkg")

	gen := NewAPKGGenerator("Chinese Vocabulary")
	gen.AddCard(Card{Hanzi: "你", Pinyin: "Ni", Notes: "Seen 2 times"})
	gen.AddCard(Card{Hanzi: "好", Pinyin: "Hao"})

	if err := gen.GenerateAPKG(outputPath); err != nil {
		t.Fatalf("GenerateAPKG() error = %v", err)
	}

	reader, err := zip.OpenReader(outputPath)
	if err != nil {
		t.Fatalf("Failed to open apkg: %v", err)
	}
	defer reader.Close()

	found := make(map[string]bool)
	for _, f := range reader.File {
		found[f.Name] = true
	}
	for _, name := range []string{"collection.anki2", "media"} {
		if !found[name] {
			t.Errorf("Expected %s in package", name)
		}
	}
}

func TestCreateDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "collection.anki2")

	gen := NewAPKGGenerator("Chinese Vocabulary")
	gen.AddCard(Card{Hanzi: "你", Pinyin: "Ni", Notes: "Seen 1 time"})
	gen.AddCard(Card{Hanzi: "好", Pinyin: "Hao"})

	if err := gen.createDatabase(dbPath); err != nil {
		t.Fatalf("createDatabase() error = %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var notes, cards int
	if err := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&notes); err != nil {
		t.Fatalf("Failed to count notes: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&cards); err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if notes != 2 {
		t.Errorf("Expected 2 notes, got %d", notes)
	}
	if cards != 4 {
		t.Errorf("Expected 4 cards (forward and reverse), got %d", cards)
	}

	var flds string
	if err := db.QueryRow("SELECT flds FROM notes WHERE sfld = ?", "你").Scan(&flds); err != nil {
		t.Fatalf("Failed to read note: %v", err)
	}
	if got := strings.Split(flds, "\x1f"); len(got) != 3 || got[1] != "Ni" || got[2] != "Seen 1 time" {
		t.Errorf("Unexpected fields: %q", got)
	}

	var decks string
	if err := db.QueryRow("SELECT decks FROM col").Scan(&decks); err != nil {
		t.Fatalf("Failed to read decks: %v", err)
	}
	var parsed map[string]map[string]interface{}
	if err := json.Unmarshal([]byte(decks), &parsed); err != nil {
		t.Fatalf("Failed to parse decks: %v", err)
	}
	var names []string
	for _, d := range parsed {
		names = append(names, d["name"].(string))
	}
	if !strings.Contains(strings.Join(names, ","), "Chinese Vocabulary") {
		t.Errorf("Expected deck 'Chinese Vocabulary', got %v", names)
	}
}

func TestGenerateAPKGBadPath(t *testing.T) {
	gen := NewAPKGGenerator("Deck")
	gen.AddCard(Card{Hanzi: "你", Pinyin: "Ni"})

	path := filepath.Join(t.TempDir(), "missing", "deck.apkg")
	if err := gen.GenerateAPKG(path); err == nil {
		t.Error("Expected error for missing directory")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no package to be written")
	}
}
