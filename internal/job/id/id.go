// Package id provides unique identifier generation for jobs and batches.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Length is the number of hex characters in a generated id (48 bits of
// randomness: 6 random bytes hex-encoded to 12 characters).
const Length = 12

// Generate returns a random 12-hex-character identifier.
// Collisions are astronomically unlikely within a single process
// lifetime; callers that need a hard uniqueness guarantee against an
// existing keyspace (e.g. the job manager) should retry generation on
// collision rather than relying on this alone.
func Generate() string {
	buf := make([]byte, 6) // 6 bytes = 12 hex chars
	if _, err := rand.Read(buf); err != nil {
		panic("id: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)[:Length]
}
