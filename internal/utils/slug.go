package utils

import (
	"crypto/rand"
	"math/big"
)

// SentinelSlug is the placeholder value a client submits to request a
// server-generated review slug.
const SentinelSlug = "temp_slug"

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// slugLength stays under the 25-character slug column while keeping the
// collision space large enough that retries are effectively never needed
// (36^20 candidates).
const slugLength = 20

// GenerateSlug returns a random lowercase base36 identifier suitable as a
// review slug.
func GenerateSlug() (string, error) {
	out := make([]byte, slugLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(slugAlphabet))))
		if err != nil {
			return "", err
		}
		out[i] = slugAlphabet[n.Int64()]
	}
	return string(out), nil
}
