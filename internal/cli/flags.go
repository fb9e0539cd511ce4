package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"codeberg.org/snonux/pinyinify/internal"
	"codeberg.org/snonux/pinyinify/internal/dictionary"
	"codeberg.org/snonux/pinyinify/internal/processor"
)

// ErrNoInput is returned when neither a file, a directory nor a batch file
// was given
var ErrNoInput = errors.New("one of --file, --dir or --batch is required")

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	File      string
	Dir       string
	BatchFile string
	Verbose   bool

	// Dictionary flags
	Dictionary string
	Overrides  string

	// Translation flags. Tones, Capitalize and Backup are boolean-like
	// strings: only a case-insensitive "true" enables them.
	Tones       string
	Capitalize  string
	Backup      string
	Target      string
	Jobs        int
	KeepGoing   bool
	MaxFailures int

	// Anki flags
	AnkiPath string
	AnkiCSV  bool
	DeckName string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Dictionary:  "resources/cedict_ts.u8",
		Tones:       "false",
		Capitalize:  "true",
		Backup:      "true",
		Target:      "text",
		Jobs:        1,
		MaxFailures: processor.DefaultMaxFailures,
		DeckName:    "Chinese Vocabulary",
	}
}

// LoadFromViper copies the effective values (flag, environment, config file
// or default, in that order) from viper into the flags
func (f *Flags) LoadFromViper() {
	f.Dictionary = viper.GetString("dictionary.path")
	f.Overrides = viper.GetString("dictionary.overrides")
	f.Tones = viper.GetString("translate.tones")
	f.Capitalize = viper.GetString("translate.capitalize")
	f.Backup = viper.GetString("translate.backup")
	f.Target = viper.GetString("translate.target")
	f.Jobs = viper.GetInt("translate.jobs")
	f.KeepGoing = viper.GetBool("translate.keep_going")
	f.MaxFailures = viper.GetInt("translate.max_failures")
	f.DeckName = viper.GetString("output.deck_name")
	f.Verbose = viper.GetBool("output.verbose")
}

// Validate checks that there is something to translate
func (f *Flags) Validate() error {
	if f.File == "" && f.Dir == "" && f.BatchFile == "" {
		return ErrNoInput
	}
	if f.Jobs < 0 {
		return fmt.Errorf("invalid --jobs value %d", f.Jobs)
	}
	if f.MaxFailures < 0 {
		return fmt.Errorf("invalid --max-failures value %d", f.MaxFailures)
	}
	return nil
}

// DictionaryOptions returns the pronunciation formatting options
func (f *Flags) DictionaryOptions() dictionary.Options {
	return dictionary.Options{
		Tones:      internal.ParseBool(f.Tones),
		Capitalize: internal.ParseBool(f.Capitalize),
	}
}

// ProcessorConfig builds the processor configuration from the flags
func (f *Flags) ProcessorConfig() (processor.Config, error) {
	target, err := processor.ParseTarget(f.Target)
	if err != nil {
		return processor.Config{}, err
	}
	return processor.Config{
		Target:            target,
		Backup:            internal.ParseBool(f.Backup),
		Jobs:              f.Jobs,
		KeepGoing:         f.KeepGoing,
		MaxFailures:       uint32(f.MaxFailures),
		CollectVocabulary: f.AnkiPath != "",
	}, nil
}
