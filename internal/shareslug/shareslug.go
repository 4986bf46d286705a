// Package shareslug mints and validates the capability tokens that grant
// read access to a paid proposal. The token is the sole access-control
// mechanism, so it is modeled as a value type instead of a bare string:
// minting happens only on the paid transition, and the default String form
// is masked so slugs do not end up in logs by accident.
package shareslug

import (
	"errors"
	"fmt"
	"strings"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the URL-safe character set used for slugs.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"

// Length is the number of slug characters. 64 symbols at 12 characters gives
// 72 bits of entropy, past the unguessability floor slugs require.
const Length = 12

var ErrInvalid = errors.New("invalid share slug")

// Slug is an unguessable share token.
type Slug struct {
	value string
}

// Mint generates a fresh slug from a cryptographic random source.
func Mint() (Slug, error) {
	value, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return Slug{}, fmt.Errorf("shareslug: %w", err)
	}
	return Slug{value: value}, nil
}

// Parse validates an inbound raw token, e.g. from a share URL.
func Parse(raw string) (Slug, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) != Length {
		return Slug{}, ErrInvalid
	}
	for _, r := range raw {
		if !strings.ContainsRune(Alphabet, r) {
			return Slug{}, ErrInvalid
		}
	}
	return Slug{value: raw}, nil
}

// FromStored wraps a slug read back from the store without re-validation.
func FromStored(value string) Slug {
	return Slug{value: strings.TrimSpace(value)}
}

func (s Slug) IsZero() bool {
	return s.value == ""
}

// Value returns the raw token for persistence and share URLs.
func (s Slug) Value() string {
	return s.value
}

// String returns a masked form safe for logs.
func (s Slug) String() string {
	if s.value == "" {
		return ""
	}
	return s.value[:4] + "********"
}
