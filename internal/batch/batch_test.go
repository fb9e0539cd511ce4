package batch

import (
	"path/filepath"
	"reflect"
	"testing"

	"codeberg.org/snonux/pinyinify/internal/testutil"
)

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []string
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name:        "one path per line",
			fileContent: "a.txt\nnotes/b.txt\n/abs/c.txt\n",
			want:        []string{"a.txt", "notes/b.txt", "/abs/c.txt"},
		},
		{
			name:        "comments and blank lines",
			fileContent: "# chapters\nch1.txt\n\n  ch2.txt  \n# done\n",
			want:        []string{"ch1.txt", "ch2.txt"},
		},
		{
			name:        "windows line endings",
			fileContent: "课文.txt\r\n词汇.txt\r\n",
			want:        []string{"课文.txt", "词汇.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := filepath.Join(t.TempDir(), "targets.txt")
			testutil.CreateTestFile(t, tmpFile, []byte(tt.fileContent))

			got, err := ReadBatchFile(tmpFile)
			if err != nil {
				t.Fatalf("ReadBatchFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile_FileNotFound(t *testing.T) {
	_, err := ReadBatchFile("/nonexistent/file.txt")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	testutil.CreateTestTree(t, root, map[string]string{
		"b.txt":            "好",
		"a.txt":            "你",
		"a.txt.BAK":        "你",
		"sub/c.txt":        "中",
		"sub/deeper/d.md":  "文",
		"sub/deeper/d.BAK": "文",
	})

	got, err := CollectFiles(root)
	if err != nil {
		t.Fatalf("CollectFiles() error = %v", err)
	}

	want := []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "b.txt"),
		filepath.Join(root, "sub", "c.txt"),
		filepath.Join(root, "sub", "deeper", "d.md"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CollectFiles() = %v, want %v", got, want)
	}
}

func TestCollectFiles_Errors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	testutil.CreateTestFile(t, file, []byte("x"))

	if _, err := CollectFiles(filepath.Join(root, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
	if _, err := CollectFiles(file); err == nil {
		t.Error("Expected error for a regular file")
	}
}

func TestExpandTargets(t *testing.T) {
	root := t.TempDir()
	testutil.CreateTestTree(t, root, map[string]string{
		"one.txt":           "你",
		"one.txt.BAK":       "你",
		"dir/two.txt":       "好",
		"dir/three.txt":     "中",
		"dir/three.txt.BAK": "中",
	})

	targets := []string{
		filepath.Join(root, "one.txt"),
		filepath.Join(root, "dir"),
		filepath.Join(root, "dir", "two.txt"),
		filepath.Join(root, "one.txt.BAK"),
	}

	got, err := ExpandTargets(targets)
	if err != nil {
		t.Fatalf("ExpandTargets() error = %v", err)
	}

	want := []string{
		filepath.Join(root, "one.txt"),
		filepath.Join(root, "dir", "three.txt"),
		filepath.Join(root, "dir", "two.txt"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandTargets() = %v, want %v", got, want)
	}
}

func TestExpandTargets_Missing(t *testing.T) {
	if _, err := ExpandTargets([]string{"/nonexistent/target.txt"}); err == nil {
		t.Error("Expected error for missing target")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"unix line endings", "line1\nline2\nline3", []string{"line1", "line2", "line3"}},
		{"windows line endings", "line1\r\nline2\r\nline3", []string{"line1", "line2", "line3"}},
		{"trailing newline", "line1\nline2\n", []string{"line1", "line2"}},
		{"single line", "single line", []string{"single line"}},
		{"empty string", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLines() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
