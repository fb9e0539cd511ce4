package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestCreateRootCommand(t *testing.T) {
	resetViper(t)

	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "pinyinify" {
		t.Errorf("Expected Use to be 'pinyinify', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Pinyin") {
		t.Errorf("Expected Short description to mention Pinyin, got %q", cmd.Short)
	}

	// Test that flags are set up
	persistent := []string{"config", "dictionary", "overrides", "tones", "capitalize", "backup", "target", "verbose"}
	local := []string{"file", "dir", "batch", "jobs", "keep-going", "max-failures", "anki", "anki-csv", "deck-name"}

	for _, name := range persistent {
		t.Run("persistent_"+name, func(t *testing.T) {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("Expected persistent flag %s to exist", name)
			}
		})
	}
	for _, name := range local {
		t.Run("flag_"+name, func(t *testing.T) {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("Expected flag %s to exist", name)
			}
		})
	}
}

func TestSetupFlags_Shorthands(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	setupFlags(cmd, NewFlags())

	shorthands := map[string]string{
		"tones":      "t",
		"capitalize": "c",
		"backup":     "b",
		"verbose":    "v",
		"file":       "f",
		"dir":        "d",
		"jobs":       "j",
	}
	for name, short := range shorthands {
		flag := lookupFlag(cmd, name)
		if flag == nil {
			t.Fatalf("%s flag not found", name)
		}
		if flag.Shorthand != short {
			t.Errorf("Expected -%s for --%s, got -%s", short, name, flag.Shorthand)
		}
	}

	defaults := map[string]string{
		"dictionary": "resources/cedict_ts.u8",
		"tones":      "false",
		"capitalize": "true",
		"backup":     "true",
		"target":     "text",
		"jobs":       "1",
		"deck-name":  "Chinese Vocabulary",
	}
	for name, want := range defaults {
		if got := lookupFlag(cmd, name).DefValue; got != want {
			t.Errorf("Expected default %s for --%s, got %s", want, name, got)
		}
	}

	if usage := lookupFlag(cmd, "capitalize").Usage; usage != "Capitalize the first letter of each pronunciation (true or false)" {
		t.Errorf("Unexpected --capitalize usage: %q", usage)
	}
}

func TestCreateWatchCommand(t *testing.T) {
	resetViper(t)

	root := CreateRootCommand(NewFlags())
	watch := CreateWatchCommand()
	root.AddCommand(watch)

	if err := watch.Args(watch, []string{}); err == nil {
		t.Error("Expected watch to require a directory argument")
	}
	if err := watch.Args(watch, []string{"notes"}); err != nil {
		t.Errorf("Unexpected error for one argument: %v", err)
	}

	// Translation flags are inherited from the root command
	for _, name := range []string{"tones", "capitalize", "backup", "target"} {
		if watch.InheritedFlags().Lookup(name) == nil {
			t.Errorf("Expected watch to inherit --%s", name)
		}
	}
}

func TestInitConfig(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantTones string
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
				content := `dictionary:
  path: /test/cedict.u8
translate:
  tones: "TRUE"
`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			wantTones: "TRUE",
		},
		{
			name: "without config file",
			setupFunc: func(t *testing.T) string {
				t.Setenv("HOME", t.TempDir())
				return ""
			},
			wantTones: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)

			InitConfig(tt.setupFunc(t))

			if got := viper.GetString("translate.tones"); got != tt.wantTones {
				t.Errorf("translate.tones = %q, want %q", got, tt.wantTones)
			}

			// Test environment variable prefix
			t.Setenv("PINYINIFY_TEST_VAR", "test-value")
			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}
		})
	}
}

func TestInitConfig_NestedEnv(t *testing.T) {
	resetViper(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PINYINIFY_TRANSLATE_TARGET", "both")

	InitConfig("")

	if got := viper.GetString("translate.target"); got != "both" {
		t.Errorf("translate.target = %q, want both", got)
	}
}

func TestBindFlagsToViper(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.PersistentFlags().Set("tones", "true")
	cmd.PersistentFlags().Set("dictionary", "/test/cedict.u8")
	cmd.Flags().Set("jobs", "4")
	cmd.Flags().Set("keep-going", "true")

	// Test that values are bound
	if got := viper.GetString("translate.tones"); got != "true" {
		t.Errorf("Expected translate.tones to be true, got %s", got)
	}
	if got := viper.GetString("dictionary.path"); got != "/test/cedict.u8" {
		t.Errorf("Expected dictionary.path to be /test/cedict.u8, got %s", got)
	}
	if got := viper.GetInt("translate.jobs"); got != 4 {
		t.Errorf("Expected translate.jobs to be 4, got %d", got)
	}
	if !viper.GetBool("translate.keep_going") {
		t.Error("Expected translate.keep_going to be true")
	}

	// Unchanged flags fall back to their defaults
	if got := viper.GetString("translate.capitalize"); got != "true" {
		t.Errorf("Expected translate.capitalize default true, got %s", got)
	}
}

func TestLookupFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("local", "", "")
	cmd.PersistentFlags().String("global", "", "")

	for _, name := range []string{"local", "global"} {
		var flag *pflag.Flag = lookupFlag(cmd, name)
		if flag == nil {
			t.Errorf("lookupFlag(%s) = nil", name)
		}
	}
	if lookupFlag(cmd, "missing") != nil {
		t.Error("Expected nil for unknown flag")
	}
}
