package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/pinyinify/internal/vocab"
)

// Card represents a single Anki flashcard
type Card struct {
	Hanzi       string   // The character
	Pinyin      string   // Formatted pronunciation
	Occurrences int      // How often it was translated
	Sources     []string // Files it was found in
	Notes       string   // Optional notes
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
	MaxSources     int    // Source files listed per card, 0 lists all
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
		MaxSources:     3,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// AddVocabulary adds one card per collected character
func (g *Generator) AddVocabulary(entries []vocab.Entry) {
	for _, e := range entries {
		g.AddCard(Card{
			Hanzi:       e.Key,
			Pinyin:      e.Pinyin,
			Occurrences: e.Occurrences,
			Sources:     e.Sources,
		})
	}
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		headers := []string{"Hanzi", "Pinyin", "Notes"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Hanzi,
			card.Pinyin,
			g.notesField(card),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// GenerateAPKG creates an Anki package file
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkg := NewAPKGGenerator(deckName)
	for _, card := range g.cards {
		card.Notes = g.notesField(card)
		apkg.AddCard(card)
	}
	return apkg.GenerateAPKG(outputPath)
}

// notesField describes where a character was seen, e.g.
// "Seen 3 times in lesson1.txt, lesson2.txt"
func (g *Generator) notesField(card Card) string {
	if card.Notes != "" {
		return card.Notes
	}
	if card.Occurrences == 0 {
		return ""
	}

	times := "times"
	if card.Occurrences == 1 {
		times = "time"
	}
	note := fmt.Sprintf("Seen %d %s", card.Occurrences, times)

	sources := card.Sources
	more := 0
	if limit := g.options.MaxSources; limit > 0 && len(sources) > limit {
		more = len(sources) - limit
		sources = sources[:limit]
	}
	if len(sources) == 0 {
		return note
	}

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = filepath.Base(s)
	}
	note += " in " + strings.Join(names, ", ")
	if more > 0 {
		note += fmt.Sprintf(" and %d more", more)
	}
	return note
}

// Stats returns statistics about the cards
func (g *Generator) Stats() (totalCards, totalOccurrences int) {
	for _, card := range g.cards {
		totalOccurrences += card.Occurrences
	}
	return len(g.cards), totalOccurrences
}
