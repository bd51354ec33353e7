package utils

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratedPasswordLength is the length of server-issued passwords.  Twelve
// characters from the 62-symbol alphanumeric alphabet sits inside the 8..16
// policy window, so a generated password never needs re-validation.
const GeneratedPasswordLength = 12

// GeneratePassword produces a random password of GeneratedPasswordLength
// characters sampled without replacement from the alphanumeric alphabet:
// every character in the result is distinct.  Randomness comes from
// crypto/rand.
func GeneratePassword() (string, error) {
	pool := []byte(passwordAlphabet)
	out := make([]byte, 0, GeneratedPasswordLength)
	for i := 0; i < GeneratedPasswordLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
		if err != nil {
			return "", err
		}
		j := int(n.Int64())
		out = append(out, pool[j])
		pool = append(pool[:j], pool[j+1:]...)
	}
	return string(out), nil
}
