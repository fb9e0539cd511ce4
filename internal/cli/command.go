package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/pinyinify/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pinyinify",
		Short: "Chinese to Pinyin Transliterator",
		Long: `pinyinify replaces Chinese characters with their pinyin romanization
using a CC-CEDICT dictionary. Files are rewritten in place, after a .BAK
backup has been created next to them.

Examples:
  pinyinify -f lesson.txt                 # Translate one file
  pinyinify -d notes/ --tones true        # Translate a tree, keep tone digits
  pinyinify -d notes/ --target both       # Translate text and file names
  pinyinify --batch files.txt --anki deck.apkg
  pinyinify watch notes/                  # Translate files as they change`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// CreateWatchCommand creates the watch subcommand. It shares the
// translation flags of the root command.
func CreateWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Translate files in a directory as they are created or changed",
		Args:  cobra.ExactArgs(1),
	}
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.pinyinify.yaml)")
	pf.StringVar(&flags.Dictionary, "dictionary", flags.Dictionary, "CC-CEDICT dictionary file")
	pf.StringVar(&flags.Overrides, "overrides", "", "YAML file with pronunciation overrides (character: pinyin)")
	pf.StringVarP(&flags.Tones, "tones", "t", flags.Tones, "Keep tone numbers (true or false)")
	pf.StringVarP(&flags.Capitalize, "capitalize", "c", flags.Capitalize, "Capitalize the first letter of each pronunciation (true or false)")
	pf.StringVarP(&flags.Backup, "backup", "b", flags.Backup, "Create a .BAK file before rewriting (true or false)")
	pf.StringVar(&flags.Target, "target", flags.Target, "What to translate: text, filename or both")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")

	// Local flags
	cmd.Flags().StringVarP(&flags.File, "file", "f", "", "File to translate")
	cmd.Flags().StringVarP(&flags.Dir, "dir", "d", "", "Directory to translate recursively")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate files and directories listed in a file (one per line)")
	cmd.Flags().IntVarP(&flags.Jobs, "jobs", "j", flags.Jobs, "Number of files to translate in parallel")
	cmd.Flags().BoolVar(&flags.KeepGoing, "keep-going", false, "Continue with the next file when one fails")
	cmd.Flags().IntVar(&flags.MaxFailures, "max-failures", flags.MaxFailures, "Consecutive failures before --keep-going gives up")
	cmd.Flags().StringVar(&flags.AnkiPath, "anki", "", "Write the translated characters to an Anki deck (APKG by default)")
	cmd.Flags().BoolVar(&flags.AnkiCSV, "anki-csv", false, "Write a CSV file instead of APKG when using --anki")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

// viperKeys maps configuration keys to flag names
var viperKeys = map[string]string{
	"dictionary.path":        "dictionary",
	"dictionary.overrides":   "overrides",
	"translate.tones":        "tones",
	"translate.capitalize":   "capitalize",
	"translate.backup":       "backup",
	"translate.target":       "target",
	"translate.jobs":         "jobs",
	"translate.keep_going":   "keep-going",
	"translate.max_failures": "max-failures",
	"output.deck_name":       "deck-name",
	"output.verbose":         "verbose",
}

func bindFlagsToViper(cmd *cobra.Command) {
	for key, name := range viperKeys {
		if flag := lookupFlag(cmd, name); flag != nil {
			viper.BindPFlag(key, flag)
		}
	}
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag
	}
	return cmd.PersistentFlags().Lookup(name)
}

// InitConfig points viper at the config file and the PINYINIFY_*
// environment. An explicit --config that cannot be read is reported; a
// missing default config is not.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".pinyinify")
		viper.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
	}

	// e.g. PINYINIFY_TRANSLATE_TONES for translate.tones
	viper.SetEnvPrefix("PINYINIFY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	case cfgFile != "" || !errors.As(err, &notFound):
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
	}
}
