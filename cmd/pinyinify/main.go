package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/pinyinify/internal"
	"codeberg.org/snonux/pinyinify/internal/anki"
	"codeberg.org/snonux/pinyinify/internal/archive"
	"codeberg.org/snonux/pinyinify/internal/batch"
	"codeberg.org/snonux/pinyinify/internal/cli"
	"codeberg.org/snonux/pinyinify/internal/dictionary"
	"codeberg.org/snonux/pinyinify/internal/logging"
	"codeberg.org/snonux/pinyinify/internal/processor"
	"codeberg.org/snonux/pinyinify/internal/watch"
)

func main() {
	start := time.Now()

	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)
	watchCmd := cli.CreateWatchCommand()
	rootCmd.AddCommand(watchCmd)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run functions
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		flags.LoadFromViper()
		if err := flags.Validate(); err != nil {
			cmd.Usage()
			return err
		}
		return runCommand(cmd.Context(), flags)
	}
	watchCmd.RunE = func(cmd *cobra.Command, args []string) error {
		flags.LoadFromViper()
		return runWatch(cmd.Context(), args[0], flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}

	fmt.Printf("Done (%ss)\n", internal.Elapsed(start))
}

func runCommand(ctx context.Context, flags *cli.Flags) error {
	logger, err := logging.New(flags.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := flags.ProcessorConfig()
	if err != nil {
		return err
	}

	table, err := loadTable(flags, logger)
	if err != nil {
		return err
	}

	cfg.Out = os.Stdout
	proc := processor.NewProcessor(cfg, table, logger)

	// One input is used, in the order file, directory, batch
	var summary processor.Summary
	switch {
	case flags.File != "":
		summary, err = proc.ProcessPaths(ctx, []string{flags.File})
	case flags.Dir != "":
		summary, err = proc.ProcessDirectory(ctx, flags.Dir)
	default:
		summary, err = processBatch(ctx, proc, flags.BatchFile)
	}

	if summary.Files > 1 || summary.Failed > 0 {
		proc.PrintSummary(summary)
	}
	if err != nil {
		return err
	}

	// Generate Anki file if requested
	if flags.AnkiPath != "" {
		fmt.Printf("\nGenerating Anki import file...\n")
		if err := generateAnki(proc, flags); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to generate Anki file: %v\n", err)
		} else {
			fmt.Printf("Anki deck created: %s\n", flags.AnkiPath)
		}
	}

	// Keep-going isolates failures but the run still did not fully succeed
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Files)
	}
	return nil
}

func processBatch(ctx context.Context, proc *processor.Processor, batchFile string) (processor.Summary, error) {
	targets, err := batch.ReadBatchFile(batchFile)
	if err != nil {
		return processor.Summary{}, err
	}

	files, err := batch.ExpandTargets(targets)
	if err != nil {
		return processor.Summary{}, err
	}
	fmt.Printf("Translating %d files from %s...\n", len(files), batchFile)

	return proc.ProcessPaths(ctx, files)
}

func loadTable(flags *cli.Flags, logger *zap.Logger) (*dictionary.Table, error) {
	start := time.Now()
	opts := flags.DictionaryOptions()

	table, stats, err := dictionary.LoadFile(flags.Dictionary, opts)
	if err != nil {
		return nil, err
	}

	if flags.Overrides != "" {
		overrides, err := dictionary.LoadOverrides(flags.Overrides)
		if err != nil {
			return nil, err
		}
		table, stats.Overrides = table.WithOverrides(overrides, opts)
	}

	logger.Debug("Dictionary loaded",
		zap.String("path", flags.Dictionary),
		zap.Int("lines", stats.Lines),
		zap.Int("comments", stats.Comments),
		zap.Int("skipped", stats.Skipped),
		zap.Int("entries", stats.Entries),
		zap.Int("word_keys", stats.MultiCharKeys),
		zap.Int("overrides", stats.Overrides))

	if ce := logger.Check(zap.DebugLevel, "Word keys are never matched"); ce != nil {
		keys := table.MultiCharKeys()
		ce.Write(zap.Int("count", len(keys)), zap.Strings("sample", keys[:min(len(keys), 10)]))
	}

	fmt.Printf("Loaded %d dictionary entries (%ss)\n", table.Len(), internal.Elapsed(start))
	return table, nil
}

func generateAnki(proc *processor.Processor, flags *cli.Flags) error {
	collector := proc.Collector()
	if collector == nil || collector.Len() == 0 {
		return errors.New("no characters were translated")
	}

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     flags.AnkiPath,
		IncludeHeaders: true,
		MaxSources:     3,
	})
	gen.AddVocabulary(collector.Entries())
	cards, occurrences := gen.Stats()
	fmt.Printf("Exporting %d characters (%d occurrences)\n", cards, occurrences)

	if dir := filepath.Dir(flags.AnkiPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	archived, err := archive.ArchiveDeck(flags.AnkiPath)
	if err != nil {
		return err
	}
	if archived != "" {
		fmt.Printf("Previous deck archived to: %s\n", archived)
	}

	if flags.AnkiCSV {
		return gen.GenerateCSV()
	}
	return gen.GenerateAPKG(flags.AnkiPath, flags.DeckName)
}

func runWatch(ctx context.Context, dir string, flags *cli.Flags) error {
	logger, err := logging.New(flags.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := flags.ProcessorConfig()
	if err != nil {
		return err
	}
	cfg.SkipUnchanged = true
	cfg.CollectVocabulary = false
	cfg.Out = os.Stdout

	table, err := loadTable(flags, logger)
	if err != nil {
		return err
	}

	w, err := watch.New(dir, processor.NewProcessor(cfg, table, logger), logger)
	if err != nil {
		return err
	}

	fmt.Printf("Watching %s for changes (Ctrl+C to stop)...\n", dir)
	if err := w.Run(ctx); err != nil {
		return err
	}

	stats := w.Stats()
	fmt.Printf("\nProcessed %d files (%d changed, %d errors)\n", stats.Processed, stats.Changed, stats.Errors)
	return nil
}
