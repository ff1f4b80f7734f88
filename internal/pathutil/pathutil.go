package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts Windows-style separators to the current platform's separator
// and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	// Replace Windows separators and collapse redundant separators/segments.
	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// Segments splits p into its named components, outermost first. Volume
// names and the root are dropped, as are "." components. A path that
// cleans down to "." has no segments.
func Segments(p string) []string {
	cleaned := NormalizePath(p)
	if cleaned == "" || cleaned == "." {
		return nil
	}

	cleaned = strings.TrimPrefix(cleaned, filepath.VolumeName(cleaned))
	parts := strings.Split(filepath.ToSlash(cleaned), "/")

	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		segments = append(segments, part)
	}
	return segments
}

// StripExtension removes the last extension from a file name. Names whose
// only dot is the leading one (".hidden") and the special names "." and
// ".." are returned unchanged.
func StripExtension(name string) string {
	if name == "." || name == ".." {
		return name
	}

	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}
