// ABOUTME: YAML frontmatter helpers for the markdown store.
// ABOUTME: Parses and renders "---" delimited documents and writes files atomically.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// parseFrontmatter splits content into its YAML header and markdown body.
// It returns an empty header when the document has no frontmatter.
func parseFrontmatter(content string) (string, string) {
	content = strings.TrimPrefix(content, "\ufeff")
	if !strings.HasPrefix(content, frontmatterDelim+"\n") {
		return "", content
	}

	rest := content[len(frontmatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelim)
	if end < 0 {
		return "", content
	}

	header := rest[:end]
	body := rest[end+len(frontmatterDelim)+1:]
	body = strings.TrimPrefix(body, "\n")
	return header, body
}

// renderFrontmatter marshals v as a YAML header followed by body.
func renderFrontmatter(v any, body string) (string, error) {
	header, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(frontmatterDelim + "\n")
	sb.Write(header)
	sb.WriteString(frontmatterDelim + "\n")
	sb.WriteString(body)
	return sb.String(), nil
}

// atomicWrite writes data to a temp file beside path and renames it into place.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases s and collapses anything outside [a-z0-9] into single dashes.
func slugify(s string) string {
	slug := strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}

// fileKey is slugify(s) plus a digest of the exact string, so keys that only
// differ in case or punctuation never share a file.
func fileKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return slugify(s) + "-" + hex.EncodeToString(sum[:6])
}

func formatFileTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseFileTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
