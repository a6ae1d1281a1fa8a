package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFresh(t *testing.T) {
	const name = "demo"

	tests := []struct {
		name   string
		record Record
		pkg    string
		ttl    time.Duration
		want   bool
	}{
		{
			name:   "fresh within ttl",
			record: Record{Name: name, Latest: "1.2.0", FetchedAt: time.Now().Add(-time.Minute)},
			pkg:    name,
			ttl:    time.Hour,
			want:   true,
		},
		{
			name:   "stale at exactly ttl",
			record: Record{Name: name, Latest: "1.2.0", FetchedAt: time.Now().Add(-time.Hour)},
			pkg:    name,
			ttl:    time.Hour,
			want:   false,
		},
		{
			name:   "stale beyond ttl",
			record: Record{Name: name, Latest: "1.2.0", FetchedAt: time.Now().Add(-2 * time.Hour)},
			pkg:    name,
			ttl:    time.Hour,
			want:   false,
		},
		{
			name:   "zero ttl never fresh",
			record: Record{Name: name, Latest: "1.2.0", FetchedAt: time.Now()},
			pkg:    name,
			ttl:    0,
			want:   false,
		},
		{
			name:   "name mismatch is a miss",
			record: Record{Name: "other", Latest: "1.2.0", FetchedAt: time.Now()},
			pkg:    name,
			ttl:    time.Hour,
			want:   false,
		},
		{
			name:   "future timestamp is stale",
			record: Record{Name: name, Latest: "1.2.0", FetchedAt: time.Now().Add(time.Hour)},
			pkg:    name,
			ttl:    24 * time.Hour,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Fresh(tt.pkg, tt.ttl))
		})
	}
}

func TestRecordJSON(t *testing.T) {
	rec := NewRecord("demo", "1.2.0")

	encoded, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded Record
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, rec.Name, decoded.Name)
	assert.Equal(t, rec.Latest, decoded.Latest)
	// RFC3339 drops sub-second precision.
	assert.Equal(t, rec.FetchedAt.Format(time.RFC3339), decoded.FetchedAt.Format(time.RFC3339))

	t.Run("UnknownFieldsIgnored", func(t *testing.T) {
		var rec Record
		err := json.Unmarshal([]byte(
			`{"name":"demo","latest":"1.2.0","fetched_at":"2026-01-02T15:04:05Z","channel":"stable"}`,
		), &rec)
		require.NoError(t, err)
		assert.Equal(t, "demo", rec.Name)
		assert.Equal(t, "1.2.0", rec.Latest)
	})

	t.Run("BadTimestamp", func(t *testing.T) {
		var rec Record
		err := json.Unmarshal([]byte(`{"name":"demo","latest":"1.2.0","fetched_at":"yesterday"}`), &rec)
		require.Error(t, err)
	})
}

func TestStore(t *testing.T) {
	t.Run("WriteAndRead", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "demo-update-check.json")
		store := NewStore(path)

		rec := NewRecord("demo", "1.2.0")
		require.NoError(t, store.Write(rec))

		got, ok := store.Read()
		require.True(t, ok)
		assert.Equal(t, "demo", got.Name)
		assert.Equal(t, "1.2.0", got.Latest)

		// No stray temp file left behind.
		_, err := os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "demo-update-check.json")
		store := NewStore(path)

		require.NoError(t, store.Write(NewRecord("demo", "1.2.0")))
		require.NoError(t, store.Write(NewRecord("demo", "1.3.0")))

		got, ok := store.Read()
		require.True(t, ok)
		assert.Equal(t, "1.3.0", got.Latest)
	})

	t.Run("MissingFileIsMiss", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "absent.json"))
		_, ok := store.Read()
		assert.False(t, ok)
	})

	t.Run("CorruptFileIsMiss", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "demo-update-check.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

		_, ok := NewStore(path).Read()
		assert.False(t, ok)
	})

	t.Run("EmptyFieldsAreMiss", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "demo-update-check.json")
		require.NoError(t, os.WriteFile(path,
			[]byte(`{"name":"","latest":"","fetched_at":"2026-01-02T15:04:05Z"}`), 0600))

		_, ok := NewStore(path).Read()
		assert.False(t, ok)
	})

	t.Run("TrailingContentIgnored", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "demo-update-check.json")
		data := `{"name":"demo","latest":"1.2.0","fetched_at":"2026-01-02T15:04:05Z"}` + "\ntrailing garbage"
		require.NoError(t, os.WriteFile(path, []byte(data), 0600))

		got, ok := NewStore(path).Read()
		require.True(t, ok)
		assert.Equal(t, "1.2.0", got.Latest)
	})

	t.Run("EmptyPath", func(t *testing.T) {
		store := NewStore("")
		_, ok := store.Read()
		assert.False(t, ok)
		assert.ErrorIs(t, store.Write(NewRecord("demo", "1.2.0")), ErrNoPath)
	})

	t.Run("CreatesParentDirectory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "demo-update-check.json")
		require.NoError(t, NewStore(path).Write(NewRecord("demo", "1.2.0")))

		_, ok := NewStore(path).Read()
		assert.True(t, ok)
	})
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath("demo")
	if path == "" {
		t.Skip("no user cache directory on this platform")
	}
	assert.Equal(t, "demo-update-check.json", filepath.Base(path))
}
