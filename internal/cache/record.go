package cache

import (
	"encoding/json"
	"errors"
	"time"
)

// Record is the persisted result of the last successful registry fetch for
// one package: which package, which version the registry reported, and
// when. Freshness is keyed on the name and timestamp together, so a file
// reused by a differently named package reads as a miss.
type Record struct {
	// Name is the package the record belongs to.
	Name string `json:"name"`

	// Latest is the canonical string form of the latest published version.
	Latest string `json:"latest"`

	// FetchedAt is when the registry was last consulted.
	FetchedAt time.Time `json:"fetched_at"`
}

// NewRecord creates a record for a fetch that completed now.
func NewRecord(name, latest string) Record {
	return Record{
		Name:      name,
		Latest:    latest,
		FetchedAt: time.Now().UTC(),
	}
}

// Fresh reports whether the record can stand in for a registry fetch for
// the named package under the given TTL. A zero or negative TTL is never
// fresh, a name mismatch is never fresh, and a timestamp in the future
// (clock skew) is treated as stale rather than an error so a bad clock
// cannot wedge the cache.
func (r Record) Fresh(name string, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	if r.Name != name {
		return false
	}
	age := time.Since(r.FetchedAt)
	if age < 0 {
		return false
	}
	return age < ttl
}

// MarshalJSON implements json.Marshaler. The timestamp is formatted as
// RFC3339 for readability in the cache file.
func (r Record) MarshalJSON() ([]byte, error) {
	type alias Record
	return json.Marshal(&struct {
		alias

		FetchedAt string `json:"fetched_at"`
	}{
		alias:     alias(r),
		FetchedAt: r.FetchedAt.Format(time.RFC3339),
	})
}

// UnmarshalJSON implements json.Unmarshaler, parsing the RFC3339 timestamp
// written by MarshalJSON. Unknown fields are ignored.
func (r *Record) UnmarshalJSON(data []byte) error {
	if r == nil {
		return errors.New("cannot unmarshal into nil Record")
	}
	aux := struct {
		Name      string `json:"name"`
		Latest    string `json:"latest"`
		FetchedAt string `json:"fetched_at"`
	}{}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	fetchedAt, err := time.Parse(time.RFC3339, aux.FetchedAt)
	if err != nil {
		return err
	}

	r.Name = aux.Name
	r.Latest = aux.Latest
	r.FetchedAt = fetchedAt
	return nil
}
