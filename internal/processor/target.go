package processor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTarget is returned by ParseTarget for unsupported values
var ErrUnknownTarget = errors.New("unknown target")

// Target selects what gets transliterated
type Target int

const (
	// TargetText rewrites file content
	TargetText Target = iota
	// TargetFilename renames files
	TargetFilename
	// TargetBoth rewrites content, then renames
	TargetBoth
)

// ParseTarget converts "text", "filename" or "both" (any case)
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return TargetText, nil
	case "filename", "name":
		return TargetFilename, nil
	case "both":
		return TargetBoth, nil
	default:
		return TargetText, fmt.Errorf("%w: %q (use text, filename or both)", ErrUnknownTarget, s)
	}
}

func (t Target) String() string {
	switch t {
	case TargetText:
		return "text"
	case TargetFilename:
		return "filename"
	case TargetBoth:
		return "both"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// Text reports whether file content is translated
func (t Target) Text() bool {
	return t == TargetText || t == TargetBoth
}

// Filename reports whether filenames are translated
func (t Target) Filename() bool {
	return t == TargetFilename || t == TargetBoth
}
