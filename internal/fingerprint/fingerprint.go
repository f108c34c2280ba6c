package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Fingerprint is the hex-encoded SHA-256 digest of a file's bytes. Two files
// with equal fingerprints are treated as identical content.
type Fingerprint string

// FromFile streams the file at path through SHA-256.
func FromFile(path string) (Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return Fingerprint(hex.EncodeToString(h.Sum(nil))), nil
}

// FromBytes digests data directly.
func FromBytes(data []byte) Fingerprint {
	sum := sha256.Sum256(data)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// FromString digests a string key, used for backend config digests.
func FromString(s string) Fingerprint {
	return FromBytes([]byte(s))
}

// Short returns the first 12 hex characters, enough for log lines.
func (f Fingerprint) Short() string {
	if len(f) <= 12 {
		return string(f)
	}
	return string(f[:12])
}
