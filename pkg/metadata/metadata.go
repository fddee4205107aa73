// Package metadata stamps generated documents with a signed trailer so
// downstream consumers can tell a tool-generated export from a hand-edited
// copy.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// TagStart opens the stamp block.
	TagStart = "<!-- EXPORT_STAMP_START"
	// TagEnd closes the stamp block.
	TagEnd = "EXPORT_STAMP_END -->"
)

// Stamp verification errors.
var (
	ErrNoStamp      = errors.New("no export stamp found")
	ErrNoHash       = errors.New("no hash found in export stamp")
	ErrHashMismatch = errors.New("hash mismatch")
)

// Stamp describes when and by what a document was generated.
type Stamp struct {
	GeneratedAt time.Time
	Tool        string
	Hash        string
}

var stampRegex = regexp.MustCompile(`(?s)<!--\s*EXPORT_STAMP_START\s*\n(.*?)\n\s*EXPORT_STAMP_END\s*-->`)

// Extract removes the stamp block from content and returns both the stamp
// and the cleaned content. The cleaned content is what gets hashed.
func Extract(content string) (*Stamp, string) {
	match := stampRegex.FindStringSubmatch(content)
	clean := strings.TrimRight(stampRegex.ReplaceAllString(content, ""), "\n")

	if len(match) < 2 {
		return nil, clean
	}

	stamp := &Stamp{}

	for _, line := range strings.Split(match[1], "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch key {
		case "GENERATED_AT":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				stamp.GeneratedAt = t
			}
		case "TOOL":
			stamp.Tool = val
		case "HASH":
			stamp.Hash = val
		}
	}

	return stamp, clean
}

// CalculateHash computes the SHA-256 hex digest of the content with any
// stamp block stripped.
func CalculateHash(content string) string {
	_, clean := Extract(content)
	sum := sha256.Sum256([]byte(clean))

	return hex.EncodeToString(sum[:])
}

// Sign appends a fresh stamp block, replacing any existing one.
func Sign(content, tool string) string {
	_, clean := Extract(content)

	block := fmt.Sprintf("\n\n%s\nGENERATED_AT: %s\nTOOL: %s\nHASH: %s\n%s\n",
		TagStart,
		time.Now().UTC().Format(time.RFC3339),
		tool,
		CalculateHash(clean),
		TagEnd)

	return clean + block
}

// Verify checks that the content still matches the hash in its stamp.
func Verify(content string) error {
	stamp, clean := Extract(content)
	if stamp == nil {
		return ErrNoStamp
	}

	if stamp.Hash == "" {
		return ErrNoHash
	}

	if calculated := CalculateHash(clean); calculated != stamp.Hash {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, stamp.Hash, calculated)
	}

	return nil
}
