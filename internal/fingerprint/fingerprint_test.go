package fingerprint_test

import (
	"testing"

	"jellywatch/internal/fingerprint"
	"jellywatch/internal/media"
)

func sampleRecord() *media.Record {
	return &media.Record{
		ItemID:            "item-1",
		Name:              "The Abyss",
		Kind:              media.KindMovie,
		VideoHeight:       intPtr(1080),
		VideoWidth:        intPtr(1920),
		VideoCodec:        strPtr("h264"),
		VideoRange:        strPtr("SDR"),
		AudioCodec:        strPtr("ac3"),
		AudioChannels:     intPtr(6),
		SubtitleCount:     intPtr(2),
		SubtitleLanguages: []string{"eng", "fre"},
		SubtitleFormats:   []string{"srt"},
		FilePath:          "/movies/The Abyss (1989)/movie.mkv",
		FileSize:          int64Ptr(8_000_000_000),
	}
}

func TestRecordDeterministic(t *testing.T) {
	first := fingerprint.Record(sampleRecord())
	second := fingerprint.Record(sampleRecord())
	if first == "" {
		t.Fatal("expected non-empty fingerprint")
	}
	if first != second {
		t.Fatalf("fingerprints differ for identical records: %s vs %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(first))
	}
}

func TestRecordSensitivity(t *testing.T) {
	base := fingerprint.Record(sampleRecord())

	mutations := map[string]func(*media.Record){
		"name":           func(r *media.Record) { r.Name = "Another Title" },
		"kind":           func(r *media.Record) { r.Kind = media.KindEpisode },
		"video height":   func(r *media.Record) { r.VideoHeight = intPtr(2160) },
		"video codec":    func(r *media.Record) { r.VideoCodec = strPtr("hevc") },
		"video range":    func(r *media.Record) { r.VideoRange = strPtr("HDR10") },
		"audio codec":    func(r *media.Record) { r.AudioCodec = strPtr("truehd") },
		"audio channels": func(r *media.Record) { r.AudioChannels = intPtr(8) },
		"subtitle count": func(r *media.Record) { r.SubtitleCount = intPtr(5) },
		"subtitle langs": func(r *media.Record) { r.SubtitleLanguages = []string{"eng", "ger"} },
		"file size":      func(r *media.Record) { r.FileSize = int64Ptr(9_000_000_000) },
		"nil height":     func(r *media.Record) { r.VideoHeight = nil },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			rec := sampleRecord()
			mutate(rec)
			if got := fingerprint.Record(rec); got == base {
				t.Fatalf("fingerprint unchanged after mutating %s", name)
			}
		})
	}
}

func TestRecordIgnoresNonHashedFields(t *testing.T) {
	base := fingerprint.Record(sampleRecord())

	mutations := map[string]func(*media.Record){
		"item id":        func(r *media.Record) { r.ItemID = "item-2" },
		"file path":      func(r *media.Record) { r.FilePath = "/new/location/movie.mkv" },
		"library name":   func(r *media.Record) { r.LibraryName = "4K Movies" },
		"series linkage": func(r *media.Record) { r.SeriesName = strPtr("Some Show"); r.SeriesID = strPtr("s-1") },
		"year":           func(r *media.Record) { r.Year = intPtr(1989) },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			rec := sampleRecord()
			mutate(rec)
			if got := fingerprint.Record(rec); got != base {
				t.Fatalf("fingerprint changed after mutating excluded field %s", name)
			}
		})
	}
}

func TestRecordSetOrderInsensitive(t *testing.T) {
	a := sampleRecord()
	a.SubtitleLanguages = []string{"eng", "fre", "ger"}

	b := sampleRecord()
	b.SubtitleLanguages = []string{"GER", "eng ", "fre"}

	if fingerprint.Record(a) != fingerprint.Record(b) {
		t.Fatal("fingerprint should not depend on subtitle set order or case")
	}
}

func TestRecordDistinguishesNilFromZero(t *testing.T) {
	withNil := sampleRecord()
	withNil.AudioChannels = nil

	withZero := sampleRecord()
	withZero.AudioChannels = intPtr(0)

	if fingerprint.Record(withNil) == fingerprint.Record(withZero) {
		t.Fatal("nil and zero audio channels should hash differently")
	}
}

func TestRecordNil(t *testing.T) {
	if got := fingerprint.Record(nil); got != "" {
		t.Fatalf("expected empty fingerprint for nil record, got %q", got)
	}
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
