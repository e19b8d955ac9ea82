package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable by
// creation time, which makes `id DESC` a stable tie-break when two rows share
// a creation timestamp.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
