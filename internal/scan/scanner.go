// Package scan builds file records from paths on disk.
package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/djherbis/times"
	"github.com/gabriel-vasile/mimetype"

	"github.com/black-lotus-01/data-organizer/internal/model"
)

// maxExcerptLen caps the content excerpt sent to the classifier.
const maxExcerptLen = 200

// ScanPaths ingests the given files and directories (recursively) into
// file records. Payloads are held in memory for the session so that a
// later run can materialize them into the target location.
func ScanPaths(paths []string) ([]model.FileRecord, error) {
	var records []model.FileRecord
	seen := make(map[string]bool)

	for _, raw := range paths {
		abs, err := filepath.Abs(raw)
		if err != nil {
			return nil, fmt.Errorf("resolving path %q: %w", raw, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", raw, err)
		}

		if !info.IsDir() {
			if seen[abs] {
				continue
			}
			seen[abs] = true
			rec, err := scanFile(abs)
			if err != nil {
				return nil, err
			}
			records = append(records, *rec)
			continue
		}

		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !d.Type().IsRegular() || seen[path] {
				return nil
			}
			seen[path] = true
			rec, err := scanFile(path)
			if err != nil {
				return err
			}
			records = append(records, *rec)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %q: %w", raw, err)
		}
	}

	return records, nil
}

// scanFile reads one file and derives its record: content hash, sniffed
// MIME type, timestamps, and a short excerpt for text-like content.
func scanFile(path string) (*model.FileRecord, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}

	sum := sha256.Sum256(payload)
	mime := mimetype.Detect(payload)

	rec := &model.FileRecord{
		Path:    path,
		MIME:    mime.String(),
		Size:    int64(len(payload)),
		Hash:    hex.EncodeToString(sum[:]),
		Excerpt: excerpt(payload, mime.String()),
		Payload: payload,
	}

	spec, err := times.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading timestamps for %q: %w", path, err)
	}
	rec.ModTime = spec.ModTime()
	if spec.HasBirthTime() {
		rec.Metadata = map[string]string{
			"created_at": spec.BirthTime().UTC().Format("2006-01-02T15:04:05Z"),
		}
	}

	return rec, nil
}

// excerpt returns a short prefix of text-like content, or "" for binary.
func excerpt(payload []byte, mime string) string {
	if !textLike(mime) || !utf8.Valid(payload) {
		return ""
	}
	text := strings.TrimSpace(string(payload))
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > maxExcerptLen {
		text = text[:maxExcerptLen]
	}
	return text
}

func textLike(mime string) bool {
	if strings.HasPrefix(mime, "text/") {
		return true
	}
	switch {
	case strings.Contains(mime, "json"),
		strings.Contains(mime, "xml"),
		strings.Contains(mime, "yaml"),
		strings.Contains(mime, "csv"):
		return true
	}
	return false
}
