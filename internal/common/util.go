package common

import (
	"crypto/rand"
	"math/big"
)

const entranceCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// EntranceCodeLength is the length of auto-assigned entrance codes.
const EntranceCodeLength = 6

// RandEntranceCode generates a random uppercase alphanumeric entrance code
// of EntranceCodeLength characters.
func RandEntranceCode() string {
	b := make([]byte, EntranceCodeLength)
	max := big.NewInt(int64(len(entranceCodeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// platform RNG failure
			panic(err)
		}
		b[i] = entranceCodeAlphabet[n.Int64()]
	}
	return string(b)
}

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros. Useful for derived keys after logout. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
