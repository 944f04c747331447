// Package id generates prefixed, URL-safe identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for identifiers minted by pagetrail.
const (
	PrefixReRead = "rr"
)

// Generator produces new identifiers. Services depend on this so tests can mint predictable IDs.
type Generator func() (string, error)

// Generate creates a prefixed NanoID, e.g. "rr-V1StGXR8_Z5jdHi6B-myT".
// Returns an error if the system has insufficient entropy.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// ReReadIDs returns a Generator for re-read entry identifiers.
func ReReadIDs() Generator {
	return func() (string, error) { return Generate(PrefixReRead) }
}
