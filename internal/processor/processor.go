package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/pinyinify/internal/backup"
	"codeberg.org/snonux/pinyinify/internal/batch"
	"codeberg.org/snonux/pinyinify/internal/transliterate"
	"codeberg.org/snonux/pinyinify/internal/vocab"
)

// ErrTooManyFailures is returned when --keep-going gives up after too many
// consecutive file failures
var ErrTooManyFailures = errors.New("too many consecutive failures")

// DefaultMaxFailures is the consecutive failure limit in keep-going mode
const DefaultMaxFailures = 5

// Config controls how files are processed
type Config struct {
	Target Target
	Backup bool

	// Jobs is the number of files processed at once; 0 or 1 is sequential
	Jobs int

	// KeepGoing isolates per-file failures instead of aborting the run
	KeepGoing   bool
	MaxFailures uint32

	// SkipUnchanged leaves files without translatable characters untouched,
	// including their backups
	SkipUnchanged bool

	// CollectVocabulary records every translated character
	CollectVocabulary bool

	// Out receives progress messages; nil discards them
	Out io.Writer
}

// Result describes what happened to one file
type Result struct {
	Path          string
	NewPath       string
	BackupPath    string
	BackedUp      bool
	BackupSkipped bool
	Changed       bool
	Renamed       bool
	Hits          int
}

// Summary aggregates the results of a run
type Summary struct {
	Files          int
	Processed      int
	Changed        int
	Renamed        int
	BackedUp       int
	BackupsSkipped int
	Failed         int
	Hits           int
	Elapsed        time.Duration
}

func (s *Summary) add(r Result) {
	s.Processed++
	s.Hits += r.Hits
	if r.Changed {
		s.Changed++
	}
	if r.Renamed {
		s.Renamed++
	}
	if r.BackedUp {
		s.BackedUp++
	}
	if r.BackupSkipped {
		s.BackupsSkipped++
	}
}

// Processor transliterates files with a shared, read-only table
type Processor struct {
	cfg       Config
	table     transliterate.Lookup
	logger    *zap.Logger
	collector *vocab.Collector

	outMu sync.Mutex

	// renameMu makes the existence check and the rename one step, so two
	// files translating to the same name never clobber each other
	renameMu sync.Mutex
}

// NewProcessor creates a file processor. A nil logger discards diagnostics.
func NewProcessor(cfg Config, table transliterate.Lookup, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultMaxFailures
	}

	p := &Processor{
		cfg:    cfg,
		table:  table,
		logger: logger,
	}
	if cfg.CollectVocabulary {
		p.collector = vocab.NewCollector()
	}
	return p
}

// Collector returns the vocabulary collector, or nil when collection is off
func (p *Processor) Collector() *vocab.Collector {
	return p.collector
}

// ProcessFile translates one file according to the configured target
func (p *Processor) ProcessFile(ctx context.Context, path string) (Result, error) {
	result := Result{Path: path, NewPath: path}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	p.printf("Translating file %s...\n", path)

	if p.cfg.Target.Text() {
		if err := p.translateContent(path, &result); err != nil {
			return result, err
		}
	}

	if p.cfg.Target.Filename() {
		if err := p.translateName(path, &result); err != nil {
			return result, err
		}
	}

	p.logger.Debug("File processed",
		zap.String("path", path),
		zap.String("new_path", result.NewPath),
		zap.Int("hits", result.Hits),
		zap.Bool("changed", result.Changed),
		zap.Bool("renamed", result.Renamed))

	return result, nil
}

func (p *Processor) translateContent(path string, result *Result) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if !utf8.Valid(content) {
		return fmt.Errorf("%s is not valid UTF-8", path)
	}

	scanner := p.newScanner(path)
	var out strings.Builder
	out.Grow(len(content) * 2)

	hits, err := transliterate.Text(bytes.NewReader(content), &out, scanner)
	if err != nil {
		return fmt.Errorf("failed to translate %s: %w", path, err)
	}
	result.Hits += hits
	result.Changed = out.String() != string(content)

	if !result.Changed && p.cfg.SkipUnchanged {
		p.logger.Debug("No translatable characters", zap.String("path", path))
		return nil
	}

	if p.cfg.Backup {
		backupPath, created, err := backup.Create(path)
		if err != nil {
			return err
		}
		result.BackupPath = backupPath
		if created {
			result.BackedUp = true
			p.printf("Backing up to file %s\n", backupPath)
		} else {
			result.BackupSkipped = true
			p.printf("Skipping backup to %s (file already exists)\n", backupPath)
		}
	}

	// O_TRUNC drops whatever remains of the original content
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("failed to open file for writing: %w", err)
	}
	if _, err := io.WriteString(f, out.String()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (p *Processor) translateName(path string, result *Result) error {
	dir, name := filepath.Split(path)

	newName := transliterate.Line(name, p.table, func(key, pinyin string) {
		result.Hits++
		p.observe(key, pinyin, path)
	})

	if newName == name {
		return nil
	}

	newPath := filepath.Join(dir, newName)

	p.renameMu.Lock()
	defer p.renameMu.Unlock()

	if _, err := os.Lstat(newPath); err == nil {
		return fmt.Errorf("cannot rename %s: %s already exists", path, newPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check %s: %w", newPath, err)
	}

	if err := os.Rename(path, newPath); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	p.printf("Renamed file %s to %s\n", path, newName)
	result.NewPath = newPath
	result.Renamed = true
	return nil
}

func (p *Processor) newScanner(source string) *transliterate.Scanner {
	scanner := transliterate.NewScanner(p.table)
	if p.collector != nil {
		scanner.Observer = func(key, pinyin string) {
			p.observe(key, pinyin, source)
		}
	}
	return scanner
}

func (p *Processor) observe(key, pinyin, source string) {
	if p.collector != nil {
		p.collector.Observe(key, pinyin, source)
	}
}

// ProcessDirectory translates every non-backup file below dir. The file
// list is collected before the first file is touched.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) (Summary, error) {
	p.printf("Translating directory %s...\n", dir)

	files, err := batch.CollectFiles(dir)
	if err != nil {
		return Summary{}, err
	}

	return p.ProcessPaths(ctx, files)
}

// ProcessPaths translates the given files. By default the first failure
// stops the run; in keep-going mode failures are counted and the run only
// stops once MaxFailures files in a row have failed.
func (p *Processor) ProcessPaths(ctx context.Context, paths []string) (Summary, error) {
	start := time.Now()
	run := &runState{
		summary: Summary{Files: len(paths)},
	}
	if p.cfg.KeepGoing {
		run.breaker = p.newBreaker()
	}

	var err error
	if p.cfg.Jobs <= 1 {
		err = p.processSequential(ctx, paths, run)
	} else {
		err = p.processParallel(ctx, paths, run)
	}

	// A breaker that opened on the last file never rejected a call
	if err == nil && run.breaker != nil && run.breaker.State() == gobreaker.StateOpen {
		err = fmt.Errorf("%w: %d files in a row failed", ErrTooManyFailures, p.cfg.MaxFailures)
	}

	run.summary.Elapsed = time.Since(start)
	return run.summary, err
}

type runState struct {
	mu      sync.Mutex
	summary Summary
	breaker *gobreaker.CircuitBreaker
}

func (p *Processor) processSequential(ctx context.Context, paths []string, run *runState) error {
	for _, path := range paths {
		if err := p.processOne(ctx, path, run); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) processParallel(ctx context.Context, paths []string, run *runState) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Jobs)

	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}
		path := path
		g.Go(func() error {
			return p.processOne(gctx, path, run)
		})
	}

	return g.Wait()
}

// processOne returns an error only when the whole run has to stop
func (p *Processor) processOne(ctx context.Context, path string, run *runState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if run.breaker == nil {
		result, err := p.ProcessFile(ctx, path)
		if err != nil {
			run.mu.Lock()
			run.summary.Failed++
			run.mu.Unlock()
			return fmt.Errorf("%s: %w", path, err)
		}
		run.record(result)
		return nil
	}

	out, err := run.breaker.Execute(func() (interface{}, error) {
		return p.ProcessFile(ctx, path)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %d files in a row failed, stopping before %s",
			ErrTooManyFailures, p.cfg.MaxFailures, path)
	case err != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		run.mu.Lock()
		run.summary.Failed++
		run.mu.Unlock()
		p.logger.Warn("File failed", zap.String("path", path), zap.Error(err))
		p.printf("Error translating %s: %v\n", path, err)
		return nil
	}

	run.record(out.(Result))
	return nil
}

func (r *runState) record(result Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary.add(result)
}

func (p *Processor) newBreaker() *gobreaker.CircuitBreaker {
	limit := p.cfg.MaxFailures
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "files",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= limit
		},
		// Never half-open again within a run
		Timeout: 24 * time.Hour,
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Debug("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// PrintSummary writes a run summary to the progress writer
func (p *Processor) PrintSummary(s Summary) {
	p.printf("\n=== Translation Summary ===\n")
	p.printf("Files: %d\n", s.Files)
	p.printf("Processed: %d\n", s.Processed)
	p.printf("Changed: %d\n", s.Changed)
	if p.cfg.Target.Filename() {
		p.printf("Renamed: %d\n", s.Renamed)
	}
	if p.cfg.Backup {
		p.printf("Backups: %d (skipped %d)\n", s.BackedUp, s.BackupsSkipped)
	}
	p.printf("Characters translated: %d\n", s.Hits)
	if s.Failed > 0 {
		p.printf("Errors: %d\n", s.Failed)
	}
	p.printf("===========================\n")
}

func (p *Processor) printf(format string, args ...interface{}) {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	fmt.Fprintf(p.cfg.Out, format, args...)
}
