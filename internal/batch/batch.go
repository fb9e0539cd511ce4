// Package batch resolves translation targets: files listed in a batch file
// or every file below a directory.
package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codeberg.org/snonux/pinyinify/internal/backup"
)

// ReadBatchFile reads target paths from a file, one per line.
// Blank lines and lines starting with '#' are ignored. Relative paths are
// kept as written.
func ReadBatchFile(filename string) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var targets []string
	for _, line := range splitLines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}

	return targets, nil
}

// CollectFiles walks root and returns every regular file that is not a
// backup, sorted. The walk finishes before any file is renamed or
// rewritten.
func CollectFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if backup.IsBackup(d.Name()) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// ExpandTargets resolves a mix of files and directories into a flat file
// list, preserving order and dropping duplicates.
func ExpandTargets(targets []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, path)
		}
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("failed to read target: %w", err)
		}
		if !info.IsDir() {
			if !backup.IsBackup(target) {
				add(target)
			}
			continue
		}

		dirFiles, err := CollectFiles(target)
		if err != nil {
			return nil, err
		}
		for _, f := range dirFiles {
			add(f)
		}
	}

	return files, nil
}

// splitLines splits a string by newlines, dropping carriage returns
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
