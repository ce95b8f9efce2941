package mind

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// newID returns a ULID so entries sort by creation time.
func newID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String()
}
