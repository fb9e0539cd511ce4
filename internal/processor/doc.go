// Package processor applies the transliterator to files on disk. It
// rewrites file content, renames files after their transliterated names,
// keeps backups, and runs over single files, directory trees and batch
// lists either sequentially or with a bounded number of workers.
package processor
