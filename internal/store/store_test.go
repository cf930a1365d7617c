package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), "pln", zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestMigrateSeedsMissingCollections(t *testing.T) {
	s := openTestStore(t)
	seed, err := DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, s.Migrate(seed))

	assert.Equal(t, SchemaVersion, s.Version())

	raw, err := s.Read(CollectionMentors)
	require.NoError(t, err)
	var mentors []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &mentors))
	assert.Len(t, mentors, 3)

	assert.False(t, s.LastSync().IsZero())
}

func TestMigrateIsOneWay(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Migrate(nil))

	// Write data, then migrate again with a seed. Nothing may be replaced
	// because the version tag already matches.
	require.NoError(t, s.Update(CollectionMentors, func(raw []byte) ([]byte, error) {
		return []byte(`[{"id":"m1"}]`), nil
	}))

	seed, err := DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, s.Migrate(seed))

	raw, err := s.Read(CollectionMentors)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"m1"}]`, string(raw))
}

func TestMigrateNeverOverwritesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "pln", zap.NewNop())
	require.NoError(t, err)

	// Pre-existing collection file without a version tag, the situation
	// after a partially torn-down data directory.
	existing := filepath.Join(dir, "pln_interns.json")
	require.NoError(t, os.WriteFile(existing, []byte(`[{"id":"i1"}]`), 0o644))

	seed, err := DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, s.Migrate(seed))

	raw, err := s.Read(CollectionInterns)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"i1"}]`, string(raw))
}

func TestUpdateRoundTrip(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Migrate(nil))

	require.NoError(t, s.Update(CollectionGallery, func(raw []byte) ([]byte, error) {
		return []byte(`[{"id":"g1"}]`), nil
	}))

	raw, err := s.Read(CollectionGallery)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"g1"}]`, string(raw))
}

func TestUpdatePublishesEvents(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Migrate(nil))

	events := make(chan Event, 4)
	s.Subscribe(func(ev Event) { events <- ev })

	require.NoError(t, s.Update(CollectionMentors, func(raw []byte) ([]byte, error) {
		return []byte(`[]`), nil
	}))

	select {
	case ev := <-events:
		assert.Equal(t, CollectionMentors, ev.Collection)
	case <-time.After(time.Second):
		t.Fatal("expected a store event")
	}
}

func TestSyncTimestampTouchedForRosterOnly(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Migrate(nil))

	before := s.LastSync()
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, s.Update(CollectionGallery, func(raw []byte) ([]byte, error) {
		return []byte(`[]`), nil
	}))
	assert.Equal(t, before, s.LastSync(), "gallery writes must not advance the sync timestamp")

	require.NoError(t, s.Update(CollectionInterns, func(raw []byte) ([]byte, error) {
		return []byte(`[]`), nil
	}))
	assert.True(t, s.LastSync().After(before), "roster writes advance the sync timestamp")
}

func TestUpdateManyIsAtomicAcrossCollections(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Migrate(nil))

	err := s.UpdateMany([]string{CollectionInterns, CollectionGallery}, func(raw map[string][]byte) (map[string][]byte, error) {
		return map[string][]byte{
			CollectionInterns: []byte(`[{"id":"i1"}]`),
			CollectionGallery: []byte(`[{"id":"g1","intern_id":"i1"}]`),
		}, nil
	})
	require.NoError(t, err)

	interns, err := s.Read(CollectionInterns)
	require.NoError(t, err)
	gallery, err := s.Read(CollectionGallery)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"i1"}]`, string(interns))
	assert.JSONEq(t, `[{"id":"g1","intern_id":"i1"}]`, string(gallery))
}

func TestClearRemovesEverything(t *testing.T) {
	s := openTestStore(t)
	seed, err := DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, s.Migrate(seed))

	require.NoError(t, s.Clear())

	assert.Empty(t, s.Version())
	raw, err := s.Read(CollectionMentors)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestDecodeListCorruptPayload(t *testing.T) {
	var records []map[string]interface{}

	require.NoError(t, DecodeList(nil, &records))
	assert.Empty(t, records)

	err := DecodeList([]byte("{not json"), &records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode collection")
}

func TestDefaultSeedIsConsistent(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, intern := range seed.Interns {
		if intern.Status == "active" || intern.Status == "alumni" {
			counts[intern.MentorID]++
		}
	}
	for _, mentor := range seed.Mentors {
		assert.Equal(t, counts[mentor.ID], mentor.TotalInterns, "seeded mentor count must match roster for %s", mentor.Name)
	}
	for _, photo := range seed.Gallery {
		found := false
		for _, intern := range seed.Interns {
			if intern.ID == photo.InternID {
				found = true
				break
			}
		}
		assert.True(t, found, "gallery photo %s references a seeded intern", photo.ID)
	}
}
