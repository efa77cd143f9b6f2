// Package token generates share tokens. A token is the sole bearer
// credential for a share link, so it must be unguessable and safe to embed
// in a URL path segment without percent-encoding.
package token

import (
	"crypto/rand"
	"encoding/base64"
)

// tokenBytes gives 192 bits of entropy, comfortably above the level where a
// collision or guess is a practical concern. The unique index on the token
// column is the authoritative backstop regardless.
const tokenBytes = 24

// New returns a new random share token. Both link variants use this one
// generator.
func New() string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
