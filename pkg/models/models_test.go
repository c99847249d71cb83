package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAPODValidate(t *testing.T) {
	if err := (&APOD{Date: "2025-08-14", Title: "X"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&APOD{Date: "2025-08-14"}).Validate(); err == nil {
		t.Error("expected error for missing title")
	}
	if err := (APODList{{Date: "d", Title: "t"}, {Title: "t"}}).Validate(); err == nil {
		t.Error("expected error for entry without date")
	}
}

func TestAPODOmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(APOD{Date: "2025-08-14", Title: "X"})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"date":"2025-08-14","title":"X"}` {
		t.Errorf("unexpected encoding %s", b)
	}
}

func TestUpstreamShapesRejectMissingArrays(t *testing.T) {
	var page MarsPhotosPage
	if err := json.Unmarshal([]byte(`{}`), &page); err != nil {
		t.Fatal(err)
	}
	if page.Validate() == nil {
		t.Error("expected error for missing photos array")
	}

	var feed NEOFeed
	if err := json.Unmarshal([]byte(`{"element_count":1,"near_earth_objects":{"2025-08-10":[{"id":"1"}]}}`), &feed); err != nil {
		t.Fatal(err)
	}
	if feed.Validate() == nil {
		t.Error("expected error for object without name")
	}

	if (&EPICImage{Identifier: "x", Image: "img", Date: "2025"}).Validate() == nil {
		t.Error("expected error for truncated date")
	}
}

func TestVector3(t *testing.T) {
	v := Vector3{X: 3, Y: 4}
	if v.Norm() != 5 {
		t.Errorf("expected norm 5, got %v", v.Norm())
	}
	if d := v.Dot(Vector3{X: 1, Y: 1, Z: 9}); d != 7 {
		t.Errorf("expected dot 7, got %v", d)
	}
}

func TestCacheEntryExpired(t *testing.T) {
	now := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	e := CacheEntry{StoredAt: now, TTL: time.Minute}
	if e.Expired(now.Add(59 * time.Second)) {
		t.Error("entry should be live before ttl")
	}
	if !e.Expired(now.Add(time.Minute)) {
		t.Error("entry should expire at ttl")
	}
}

func TestTimestamp(t *testing.T) {
	ts := Timestamp(time.Date(2025, 8, 14, 9, 30, 0, 5_000_000, time.FixedZone("X", 3600)))
	if ts != "2025-08-14T08:30:00.005Z" {
		t.Errorf("unexpected timestamp %s", ts)
	}
}
