package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// CreateTestFile writes content to path, creating parent directories
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// CreateTestTree creates files below root from a map of slash-separated
// relative path to content
func CreateTestTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		CreateTestFile(t, filepath.Join(root, filepath.FromSlash(rel)), []byte(content))
	}
}

// AssertFileNotExists fails the test if anything exists at path
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	_, err := os.Lstat(path)
	switch {
	case err == nil:
		t.Errorf("%s exists, want it gone", path)
	case !errors.Is(err, fs.ErrNotExist):
		t.Errorf("stat %s: %v", path, err)
	}
}

// AssertFileContent compares a file's content with want and reports a diff
func AssertFileContent(t *testing.T, path string, want []byte) {
	t.Helper()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Errorf("%s content mismatch (-want +got):\n%s", path, diff)
	}
}

// ListFiles returns the sorted, slash-separated relative paths of all
// regular files below root
func ListFiles(t *testing.T, root string) []string {
	t.Helper()

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}

	sort.Strings(files)
	return files
}
