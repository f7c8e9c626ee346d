package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New returns a fresh ULID. Being time-ordered, these sort by creation
// when used as partition keys.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
