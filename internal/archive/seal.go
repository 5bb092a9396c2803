package archive

import (
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
)

// ValidateRecipient checks that a string is a usable age public key before
// any collection starts, so a typo fails the run up front instead of after
// acquisition.
func ValidateRecipient(key string) error {
	if !strings.HasPrefix(key, "age1") {
		return fmt.Errorf("age public key must start with 'age1'")
	}
	if _, err := age.ParseX25519Recipient(key); err != nil {
		return fmt.Errorf("invalid age public key: %w", err)
	}
	return nil
}

// SealWithAge encrypts a finalized archive to <path>.age for the given
// recipient and removes the plaintext container. Returns the sealed path.
func SealWithAge(path, publicKey string) (string, error) {
	recipient, err := age.ParseX25519Recipient(publicKey)
	if err != nil {
		return "", fmt.Errorf("failed to parse age public key: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open archive for sealing: %w", err)
	}
	defer src.Close()

	sealedPath := path + ".age"
	dst, err := os.Create(sealedPath)
	if err != nil {
		return "", fmt.Errorf("failed to create sealed archive: %w", err)
	}
	defer dst.Close()

	enc, err := age.Encrypt(dst, recipient)
	if err != nil {
		return "", fmt.Errorf("failed to create age encryption writer: %w", err)
	}
	if _, err := io.Copy(enc, src); err != nil {
		return "", fmt.Errorf("failed to encrypt archive: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to close age encryption writer: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close sealed archive: %w", err)
	}

	src.Close()
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("failed to remove plaintext archive: %w", err)
	}

	return sealedPath, nil
}
