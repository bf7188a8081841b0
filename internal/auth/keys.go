// Package auth issues and verifies PASETO v4.local access tokens.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// KeyFileName is the key file created under the data directory.
const KeyFileName = "auth.key"

// keySize is the PASETO v4 symmetric key length in bytes.
const keySize = 32

// LoadOrGenerateKey returns the token key stored hex-encoded in
// <dir>/auth.key, creating the directory and a fresh random key on first
// run. A present but malformed key file is an error, never silently
// replaced: replacing it would invalidate every issued token.
func LoadOrGenerateKey(dir string) ([]byte, error) {
	path := filepath.Join(dir, KeyFileName)

	key, err := readKey(path)
	switch {
	case err == nil:
		return key, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	key = make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate auth key: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("save auth key: %w", err)
	}
	return key, nil
}

func readKey(path string) ([]byte, error) {
	raw, err := os.ReadFile(path) //#nosec G304 -- path is under the configured data directory
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(raw))
	if len(text) != hex.EncodedLen(keySize) {
		return nil, fmt.Errorf("invalid auth key in %s: expected %d hex chars, got %d", path, hex.EncodedLen(keySize), len(text))
	}
	key, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("invalid auth key in %s: %w", path, err)
	}
	return key, nil
}
