// Package backup keeps a copy of a file's original content next to it
// before the file is overwritten.
package backup

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Suffix is appended to the original filename, "notes.txt" becomes "notes.txt.BAK"
const Suffix = ".BAK"

// Path returns the backup path for a file
func Path(path string) string {
	return path + Suffix
}

// IsBackup reports whether a filename is a backup file
func IsBackup(name string) bool {
	return strings.HasSuffix(name, Suffix)
}

// Create copies path to its backup path. An existing backup is never
// overwritten so the oldest copy survives repeated runs; created is false
// in that case.
func Create(path string) (backupPath string, created bool, err error) {
	backupPath = Path(path)

	if _, err := os.Stat(backupPath); err == nil {
		return backupPath, false, nil
	} else if !os.IsNotExist(err) {
		return backupPath, false, fmt.Errorf("failed to check backup %s: %w", backupPath, err)
	}

	if err := copyFile(path, backupPath); err != nil {
		return backupPath, false, fmt.Errorf("failed to back up %s: %w", path, err)
	}

	return backupPath, true, nil
}

// copyFile copies content, permissions and modification time
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		os.Remove(dst)
		return err
	}
	if err := dstFile.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
