package models

import "testing"

func TestMediaRecord(t *testing.T) {
	t.Run("new record starts at sentinels", func(t *testing.T) {
		rec := NewMediaRecord("http://example.com/stream.mp3")

		if rec.Title() != UnknownString || rec.Album() != UnknownString || rec.Artist() != UnknownString {
			t.Error("expected text fields to start at the unknown sentinel")
		}
		if rec.Duration() != UnknownInteger {
			t.Errorf("expected duration sentinel, got %d", rec.Duration())
		}
		if rec.Enriched() {
			t.Error("new record should not report as enriched")
		}
	})

	t.Run("enriched after any field set", func(t *testing.T) {
		rec := NewMediaRecord("")
		rec.SetTitle("Take Five")

		if !rec.Enriched() {
			t.Error("record with a title should report as enriched")
		}
	})

	t.Run("validate rejects empty fields", func(t *testing.T) {
		rec := NewMediaRecord("")
		if err := rec.Validate(); err != nil {
			t.Errorf("sentinel record should validate: %v", err)
		}

		rec.SetTitle("")
		if err := rec.Validate(); err == nil {
			t.Error("expected validation error for empty title")
		}
	})

	t.Run("validate rejects bad duration", func(t *testing.T) {
		rec := NewMediaRecord("")
		rec.SetDuration(-2)
		if err := rec.Validate(); err == nil {
			t.Error("expected validation error for duration below sentinel")
		}
	})
}

func TestMetadataUpdate(t *testing.T) {
	upd := MetadataUpdate{Title: "A", Album: UnknownString, Artist: "B", Duration: UnknownInteger}
	if err := upd.Validate(); err != nil {
		t.Errorf("expected valid update: %v", err)
	}

	upd.Album = ""
	if err := upd.Validate(); err == nil {
		t.Error("expected validation error for empty album")
	}
}

func TestBatch(t *testing.T) {
	tc := []struct {
		name    string
		ids     []int64
		active  int
		wantErr bool
	}{
		{
			name:   "valid with active index",
			ids:    []int64{101, 102, 103},
			active: 1,
		},
		{
			name:   "valid without active index",
			ids:    []int64{101},
			active: NoActiveItem,
		},
		{
			name:    "empty batch",
			ids:     nil,
			active:  NoActiveItem,
			wantErr: true,
		},
		{
			name:    "active index past end",
			ids:     []int64{101, 102},
			active:  2,
			wantErr: true,
		},
		{
			name:    "negative active index",
			ids:     []int64{101},
			active:  -2,
			wantErr: true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBatch(tt.ids, tt.active)
			err := b.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}

	if NewBatch([]int64{1}, NoActiveItem).HasActive() {
		t.Error("batch without active index should not report one")
	}
	if !NewBatch([]int64{1}, 0).HasActive() {
		t.Error("batch with active index should report one")
	}
}
