package detect_test

import (
	"testing"

	"jellywatch/internal/detect"
	"jellywatch/internal/media"
)

func TestIsRename(t *testing.T) {
	d := detect.NewDetector(nil)

	newRec := &media.Record{ItemID: "new-id", Name: "The Abyss", Fingerprint: "fp-1"}

	cases := []struct {
		name       string
		candidates []*media.Record
		want       bool
		wantID     string
	}{
		{
			name: "match on fingerprint and name",
			candidates: []*media.Record{
				{ItemID: "old-id", Name: "The Abyss", Fingerprint: "fp-1"},
			},
			want:   true,
			wantID: "old-id",
		},
		{
			name: "fingerprint differs",
			candidates: []*media.Record{
				{ItemID: "old-id", Name: "The Abyss", Fingerprint: "fp-2"},
			},
			want: false,
		},
		{
			name: "name differs",
			candidates: []*media.Record{
				{ItemID: "old-id", Name: "Another Film", Fingerprint: "fp-1"},
			},
			want: false,
		},
		{
			name: "same item id is not a rename",
			candidates: []*media.Record{
				{ItemID: "new-id", Name: "The Abyss", Fingerprint: "fp-1"},
			},
			want: false,
		},
		{
			name: "first match wins",
			candidates: []*media.Record{
				nil,
				{ItemID: "first", Name: "The Abyss", Fingerprint: "fp-1"},
				{ItemID: "second", Name: "The Abyss", Fingerprint: "fp-1"},
			},
			want:   true,
			wantID: "first",
		},
		{
			name:       "no candidates",
			candidates: nil,
			want:       false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, prev := d.IsRename(newRec, tc.candidates)
			if ok != tc.want {
				t.Fatalf("IsRename = %v, want %v", ok, tc.want)
			}
			if tc.want && (prev == nil || prev.ItemID != tc.wantID) {
				t.Fatalf("matched candidate = %v, want %s", prev, tc.wantID)
			}
		})
	}
}

func TestIsRenameEmptyFingerprint(t *testing.T) {
	d := detect.NewDetector(nil)
	newRec := &media.Record{ItemID: "new-id", Name: "The Abyss"}
	candidates := []*media.Record{{ItemID: "old-id", Name: "The Abyss"}}

	if ok, _ := d.IsRename(newRec, candidates); ok {
		t.Fatal("records without fingerprints must never match as renames")
	}
	if ok, _ := d.IsRename(nil, candidates); ok {
		t.Fatal("nil record must never match")
	}
}
