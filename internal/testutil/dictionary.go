package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/pinyinify/internal/dictionary"
)

// SampleDictionary is a small CC-CEDICT excerpt used across package tests
const SampleDictionary = `# CC-CEDICT excerpt for tests
% comment
你 你 [ni3] /you (informal)/
好 好 [hao3] /good/well/
你好 你好 [ni3 hao3] /hello/hi/
中 中 [zhong1] /China/Chinese/
國 国 [guo2] /country/nation/
文 文 [wen2] /language/culture/
件 件 [jian4] /item/component/
`

// SampleTable loads SampleDictionary with the given options
func SampleTable(t *testing.T, opts dictionary.Options) *dictionary.Table {
	t.Helper()

	table, _, err := dictionary.Load(strings.NewReader(SampleDictionary), opts)
	if err != nil {
		t.Fatalf("Failed to load sample dictionary: %v", err)
	}
	return table
}

// WriteSampleDictionary writes SampleDictionary into dir and returns its path
func WriteSampleDictionary(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "cedict_ts.u8")
	CreateTestFile(t, path, []byte(SampleDictionary))
	return path
}
