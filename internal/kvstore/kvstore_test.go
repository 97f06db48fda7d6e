package kvstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nexushq/nexus-core/pkg/schema"
)

func testChannels(now time.Time) []schema.Channel {
	return []schema.Channel{
		{
			ID:   "c-1",
			Name: "general",
			Type: schema.ChannelPublic,
			Messages: []schema.Message{
				{ID: "m1", SenderID: "u1", Content: "hello", Timestamp: now},
				{ID: "m2", SenderID: "u2", Content: "hi", Timestamp: now.Add(time.Minute)},
			},
			NotificationsEnabled: true,
		},
	}
}

func TestMemoryRoundTripDates(t *testing.T) {
	s := NewMemory()
	now := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	if err := s.Put(KeyChannels, testChannels(now)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var loaded []schema.Channel
	ok, err := s.Get(KeyChannels, &loaded)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected key to be present")
	}
	if len(loaded) != 1 || len(loaded[0].Messages) != 2 {
		t.Fatalf("unexpected shape: %+v", loaded)
	}
	// Dates compare by instant, not representation.
	if !loaded[0].Messages[0].Timestamp.Equal(now) {
		t.Errorf("timestamp not revived: got %v, want %v", loaded[0].Messages[0].Timestamp, now)
	}
	if !loaded[0].Messages[1].Timestamp.Equal(now.Add(time.Minute)) {
		t.Errorf("second timestamp wrong: %v", loaded[0].Messages[1].Timestamp)
	}
}

func TestMemoryFullReplace(t *testing.T) {
	s := NewMemory()

	c1 := schema.Channel{ID: "c-1", Name: "one", Messages: []schema.Message{}}
	c2 := schema.Channel{ID: "c-2", Name: "two", Messages: []schema.Message{}}

	if err := s.Put(KeyChannels, []schema.Channel{c1}); err != nil {
		t.Fatalf("first Put failed: %v", err)
	}
	if err := s.Put(KeyChannels, []schema.Channel{c1, c2}); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	var loaded []schema.Channel
	if _, err := s.Get(KeyChannels, &loaded); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(loaded) != 2 || loaded[0].ID != "c-1" || loaded[1].ID != "c-2" {
		t.Errorf("expected exactly [c-1 c-2], got %+v", loaded)
	}

	// A save of a shorter collection replaces, never merges.
	if err := s.Put(KeyChannels, []schema.Channel{c2}); err != nil {
		t.Fatalf("third Put failed: %v", err)
	}
	loaded = nil
	if _, err := s.Get(KeyChannels, &loaded); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "c-2" {
		t.Errorf("expected exactly [c-2], got %+v", loaded)
	}
}

func TestMemoryAbsentKey(t *testing.T) {
	s := NewMemory()
	var out []schema.Contact
	ok, err := s.Get("missing", &out)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected absent marker for missing key")
	}
}

func TestMemoryUnserializableValue(t *testing.T) {
	s := NewMemory()
	err := s.Put("bad", func() {})
	if err == nil {
		t.Fatal("expected error for unserializable value")
	}
	if !errors.Is(err, ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}

func TestRevive(t *testing.T) {
	s := NewMemory()
	now := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)
	contacts := []schema.Contact{
		{ID: "ct-1", Name: "Ana", Company: "Acme", Stage: schema.StageLead, LastActivity: now},
	}
	if err := s.Put(KeyContacts, contacts); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	v, ok, err := GetAny(s, KeyContacts)
	if err != nil || !ok {
		t.Fatalf("GetAny failed: ok=%v err=%v", ok, err)
	}
	list, ok := v.([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("unexpected generic shape: %#v", v)
	}
	record := list[0].(map[string]any)
	revived, ok := record["lastActivity"].(time.Time)
	if !ok {
		t.Fatalf("lastActivity not revived to time.Time: %#v", record["lastActivity"])
	}
	if !revived.Equal(now) {
		t.Errorf("revived instant wrong: got %v, want %v", revived, now)
	}
	// Non-date strings stay strings.
	if _, isTime := record["name"].(time.Time); isTime {
		t.Error("name should not be revived as a date")
	}
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nexus.db")

	b, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := b.Put(KeyChannels, testChannels(now)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	b2, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer b2.Close()

	var loaded []schema.Channel
	ok, err := b2.Get(KeyChannels, &loaded)
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if len(loaded) != 1 || !loaded[0].Messages[0].Timestamp.Equal(now) {
		t.Errorf("data did not survive reopen: %+v", loaded)
	}

	keys, err := b2.Keys()
	if err != nil || len(keys) != 1 || keys[0] != KeyChannels {
		t.Errorf("unexpected keys: %v (err %v)", keys, err)
	}

	if err := b2.Delete(KeyChannels); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ok, _ := b2.Get(KeyChannels, &loaded); ok {
		t.Error("key still present after delete")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("store file missing: %v", err)
	}
}
