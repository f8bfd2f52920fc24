package utils

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

const accessTokenLength = 32

// GenerateCode returns a URL-safe random string of the given length.
func GenerateCode(length int) (string, error) {
	generator, err := nanoid.Standard(length)
	if err != nil {
		return "", fmt.Errorf("creating id generator: %w", err)
	}
	return generator(), nil
}

func GenerateAccessToken() (string, error) {
	return GenerateCode(accessTokenLength)
}
