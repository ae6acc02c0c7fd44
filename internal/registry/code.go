// internal/registry/code.go
//
// Join-code generation. Codes are short enough to type from a phone and are
// drawn from consonants only, which keeps out 0/O and 1/I lookalikes and
// stops the generator from spelling real words.

package registry

import (
	"crypto/rand"
	"math/big"
)

const (
	codeAlphabet = "BCDFGHJKLMNPQRSTVWXYZ"
	codeLength   = 4
)

// generateCode returns a random join code. Uniqueness against live games is
// the caller's job; collisions just mean another roll.
func generateCode() string {
	b := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		n, _ := rand.Int(rand.Reader, max)
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b)
}
