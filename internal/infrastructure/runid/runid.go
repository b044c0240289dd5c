// Package runid names a single replay. Run ids namespace external state
// (ledger keys, stored snapshots) so separate runs never share it.
package runid

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a fresh ULID run id.
func New() string {
	return ulid.Make().String()
}

// StartedAt extracts the creation time encoded in a run id.
func StartedAt(id string) (time.Time, error) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
