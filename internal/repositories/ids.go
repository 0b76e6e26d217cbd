package repositories

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	publicIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	publicIDLength   = 12
)

// newPublicID returns an opaque 12-character identifier safe to expose in URLs
func newPublicID() (string, error) {
	id, err := gonanoid.Generate(publicIDAlphabet, publicIDLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate public id: %w", err)
	}
	return id, nil
}
