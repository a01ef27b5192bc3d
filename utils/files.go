package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces name to a safe ASCII file name: accents are
// stripped, spaces become underscores, path components and leading dots are
// removed. It returns "" when nothing usable is left.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	decomposed := norm.NFKD.String(name)
	var b strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsSpace(r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	cleaned := unsafeFilenameChars.ReplaceAllString(b.String(), "")
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "." || cleaned == ".." {
		return ""
	}
	return cleaned
}

// EvidenceFileName builds {YYYYmmdd_HHMMSS}_{md5[:8]}_{filename}.
func EvidenceFileName(now time.Time, content []byte, filename string) string {
	return fmt.Sprintf("%s_%s_%s", FormatTimestamp(now), MD5Hex(content)[:8], filename)
}

// SectionFileName builds {YYYYmmdd_HHMMSS}_{sha256[:8]}_{unique}{ext}. unique
// keeps identical uploads within the same second apart.
func SectionFileName(now time.Time, content []byte, unique, ext string) string {
	return fmt.Sprintf("%s_%s_%s%s", FormatTimestamp(now), SHA256Hex(content)[:8], unique, ext)
}

// WriteFileAtomic writes data under dir/name, creating dir when needed.
func WriteFileAtomic(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("rename %s: %w", tmp, err)
	}
	return path, nil
}

// RemoveFileAndEmptyParent deletes path and then its parent directory if it
// became empty. The returned bool is false when the file did not exist.
func RemoveFileAndEmptyParent(path string) (bool, error) {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	dir := filepath.Dir(path)
	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		_ = os.Remove(dir)
	}
	return true, nil
}

// HasPathSeparator reports whether name would escape its directory.
func HasPathSeparator(name string) bool {
	return strings.ContainsAny(name, `/\`) || strings.Contains(name, "..")
}
