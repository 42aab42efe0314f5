// Package randid generates short random identifiers.
package randid

import (
	"crypto/rand"
	"math/big"
)

// Alphabet is the set of characters used by Generate.
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var alphabetLen = big.NewInt(int64(len(Alphabet)))

// Generate returns a random string of the given length drawn from Alphabet.
func Generate(length int) string {
	if length <= 0 {
		return ""
	}

	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic("randid: " + err.Error())
		}
		b[i] = Alphabet[n.Int64()]
	}
	return string(b)
}
